package cache

import "log/slog"

type options struct {
	name    string
	log     *slog.Logger
	metrics Metrics
}

type Option func(*options)

// WithName labels the cache in logs and metrics (default: "default").
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
