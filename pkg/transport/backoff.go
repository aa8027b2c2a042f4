package transport

import (
	"math"
	"time"
)

// BackoffStrategy computes the delay before a retry.
// Implementations should be safe for concurrent use.
type BackoffStrategy interface {
	// NextInterval returns the delay before the given retry; retry starts at 1.
	NextInterval(retry int) time.Duration
}

// LinearBackoff waits retry × Step, capped at Max when Max is positive.
type LinearBackoff struct {
	Step time.Duration
	Max  time.Duration
}

func (l LinearBackoff) NextInterval(retry int) time.Duration {
	if retry <= 0 {
		return 0
	}
	return capped(l.Step*time.Duration(retry), l.Max)
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff struct {
	Interval time.Duration
}

func (f FixedBackoff) NextInterval(retry int) time.Duration {
	if retry <= 0 {
		return 0
	}
	return f.Interval
}

// ExponentialBackoff waits Initial × Multiplier^(retry-1), capped at Max
// when Max is positive. A zero Multiplier means 2.
type ExponentialBackoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (e ExponentialBackoff) NextInterval(retry int) time.Duration {
	if retry <= 0 {
		return 0
	}
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}
	interval := float64(e.Initial) * math.Pow(multiplier, float64(retry-1))
	if interval >= math.MaxInt64 {
		return capped(time.Duration(math.MaxInt64), e.Max)
	}
	return capped(time.Duration(interval), e.Max)
}

func capped(d, max time.Duration) time.Duration {
	if max > 0 && d > max {
		return max
	}
	return d
}

// DefaultBackoffStrategy returns the linear 500ms step used by the API client.
func DefaultBackoffStrategy() BackoffStrategy {
	return LinearBackoff{Step: 500 * time.Millisecond}
}
