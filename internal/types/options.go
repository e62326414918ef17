package types

// DispatcherOptions holds construction-time configuration for a dispatcher.
type DispatcherOptions struct {
	// Logger is the structured logger to use.
	Logger Logger

	// Metrics is the metrics recorder.
	Metrics MetricsRecorder

	// Serializer is the cache value serializer.
	Serializer Serializer

	// Store overrides the default unbounded cache store.
	Store Store

	// DisableCache swaps the store for a no-op twin so every resolve
	// walks the registry.
	DisableCache bool

	// Transport is pushed into every registered backend that carries one.
	Transport *Transport
}
