// Package logger builds the *slog.Logger instances used across the client and
// provides attribute helpers that keep key names consistent.
//
// The client never writes to the process-wide default logger. Components take
// a *slog.Logger through their options and fall back to Discard():
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(logger.Component("dougs")),
//	)
//	client := dougs.New(creds, dougs.WithLogger(log))
//
// Helpers such as Error, StatusCode and RetryCount return an empty slog.Attr
// when there is nothing to record, so call sites do not need nil checks:
//
//	log.WarnContext(ctx, "retrying request", logger.StatusCode(code), logger.Error(err))
package logger
