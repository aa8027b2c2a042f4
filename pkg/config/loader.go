package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option configures a single Load call.
type Option func(*options)

type options struct {
	prefix   string
	envFiles []string
}

// WithPrefix prepends prefix to every env tag of the target struct.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithEnvFiles loads the given files instead of the default ".env".
// Unlike the default file, explicitly named files must exist.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		o.envFiles = append(o.envFiles, paths...)
	}
}

// Load populates v from the environment according to its `env` tags.
//
// Example:
//
//	type Config struct {
//		BaseURL string `env:"BASE_URL" envDefault:"https://app.dougs.fr"`
//		Token   string `env:"TOKEN,required"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.WithPrefix("DOUGS_"))
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if len(o.envFiles) == 0 {
		// The default .env file is optional
		_ = godotenv.Load()
	} else if err := godotenv.Load(o.envFiles...); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadingEnvFile, err)
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: o.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
