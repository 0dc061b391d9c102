package imgtool

import "log/slog"

// Option configures a Compositor during creation.
//
// Example:
//
//	c := imgtool.NewCompositor(rs, imgtool.WithLogger(logger))
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func defaultOptions() options {
	return options{logger: nil} // resolved to Logger() at use time
}

// WithLogger routes the compositor's debug records to l instead of the
// package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
