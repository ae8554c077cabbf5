package xgb

import (
	"math"

	"go.uber.org/zap"
)

// StructuredLogger emits key/value pairs for structured logging backends.
// *zap.SugaredLogger satisfies it.
type StructuredLogger interface {
	Debugw(msg string, keyvals ...any)
	Warnw(msg string, keyvals ...any)
}

// Option adjusts matrix and model behavior.
type Option func(*options)

type options struct {
	missing       float32
	logger        StructuredLogger
	strictColumns bool
}

func defaultOptions() options {
	return options{
		missing:       float32(math.NaN()),
		logger:        zap.NewNop().Sugar(),
		strictColumns: true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithMissing sets the value the native library treats as missing. The
// default is NaN.
func WithMissing(v float32) Option {
	return func(o *options) {
		o.missing = v
	}
}

// WithLogger routes debug events and swallowed release failures to logger.
func WithLogger(logger StructuredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictColumns controls whether Predict rejects a column count that
// differs from the one the model was fitted or loaded with. Enabled by default.
func WithStrictColumns(strict bool) Option {
	return func(o *options) {
		o.strictColumns = strict
	}
}
