package geomux

import (
	"github.com/tilebound/geomux/internal/types"
)

// DispatcherOptions collects construction options for a dispatcher.
type DispatcherOptions = types.DispatcherOptions

// Option customizes dispatcher construction.
type Option func(*DispatcherOptions)

func WithLogger(logger Logger) Option {
	return func(o *DispatcherOptions) {
		o.Logger = logger
	}
}

func WithMetrics(metrics MetricsRecorder) Option {
	return func(o *DispatcherOptions) {
		o.Metrics = metrics
	}
}

func WithSerializer(serializer Serializer) Option {
	return func(o *DispatcherOptions) {
		o.Serializer = serializer
	}
}

func WithStore(store Store) Option {
	return func(o *DispatcherOptions) {
		o.Store = store
	}
}

func WithTransport(t *Transport) Option {
	return func(o *DispatcherOptions) {
		o.Transport = t
	}
}

func WithoutCache() Option {
	return func(o *DispatcherOptions) {
		o.DisableCache = true
	}
}
