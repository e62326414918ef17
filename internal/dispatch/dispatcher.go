// Package dispatch implements the ordered-registry dispatcher at the core of
// geomux. A dispatcher walks registered geocoding backends in priority order,
// interprets the first usable candidate batch through the shape normalizer,
// caches the outcome per normalized query, and records every backend
// invocation in an append-only log.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/internal/normalize"
	"github.com/tilebound/geomux/internal/store"
	"github.com/tilebound/geomux/internal/types"
)

// Resolve modes. The mode is part of the singleflight key because the two
// modes produce different batches for the same query.
const (
	modeOne = "one"
	modeAll = "all"
)

// Dispatcher resolves location strings against an ordered registry of
// geocoding backends. All methods are safe for concurrent use.
type Dispatcher struct {
	store      types.Store
	serializer types.Serializer
	normalizer *normalize.Normalizer
	metrics    types.MetricsRecorder
	logger     *slog.Logger
	attempts   *attemptLog

	mu        sync.RWMutex
	entries   []types.Entry
	transport *types.Transport

	sfGroup singleflight.Group
	closed  atomic.Bool
}

// NewDispatcher creates a dispatcher from configuration and options. A nil
// config falls back to defaults; a nil options block selects the JSON
// serializer and the store the cache mode names.
func NewDispatcher(cfg *config.Config, opts *types.DispatcherOptions) (*Dispatcher, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logger := slog.Default()
	if opts != nil && opts.Logger != nil {
		logger = slog.New(slogAdapter{logger: opts.Logger})
	}
	logger = logger.With("component", "dispatcher")

	d := &Dispatcher{
		serializer: store.NewJSONSerializer(),
		normalizer: normalize.New(),
		logger:     logger,
		attempts:   newAttemptLog(),
	}

	if opts != nil {
		if opts.Serializer != nil {
			d.serializer = opts.Serializer
		}
		if opts.Metrics != nil {
			d.metrics = opts.Metrics
		}
		d.transport = opts.Transport
	}

	switch {
	case opts != nil && opts.Store != nil:
		d.store = opts.Store
	case opts != nil && opts.DisableCache:
		d.store = store.NewDisabled()
	default:
		s, err := store.FromConfig(cfg.Cache, logger)
		if err != nil {
			return nil, err
		}
		d.store = s
	}

	logger.Debug("Dispatcher initialized", "store", d.store.Name())

	return d, nil
}

// Register appends an entry at the end of the dispatch order and returns the
// dispatcher for chaining. When a shared transport is held it is pushed into
// the new backend immediately.
func (d *Dispatcher) Register(entry types.Entry) *Dispatcher {
	d.mu.Lock()
	d.entries = append(d.entries, entry)
	transport := d.transport
	d.mu.Unlock()

	if transport != nil {
		if carrier, ok := entry.Geocoder().(types.TransportCarrier); ok {
			carrier.SetTransport(transport)
		}
	}

	return d
}

// PropagateTransport hands the transport to every registered backend that
// accepts one. Backends registered later receive it on registration.
func (d *Dispatcher) PropagateTransport(t *types.Transport) {
	d.mu.Lock()
	d.transport = t
	entries := make([]types.Entry, len(d.entries))
	copy(entries, d.entries)
	d.mu.Unlock()

	for _, entry := range entries {
		if carrier, ok := entry.Geocoder().(types.TransportCarrier); ok {
			carrier.SetTransport(t)
		}
	}
}

// Providers returns the names of the registered backends in dispatch order.
func (d *Dispatcher) Providers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, len(d.entries))
	for i, entry := range d.entries {
		names[i] = entry.Geocoder().Name()
	}
	return names
}

// ResolveOne resolves a location to its single best result, or nil when no
// backend can resolve it.
func (d *Dispatcher) ResolveOne(ctx context.Context, location string) *types.Result {
	results := d.resolve(ctx, modeOne, location)
	if len(results) == 0 {
		return nil
	}
	first := results[0]
	return &first
}

// ResolveAll resolves a location to the full candidate batch of the first
// backend that produced a usable one. The batch is empty when no backend
// resolves the query.
func (d *Dispatcher) ResolveAll(ctx context.Context, location string) []types.Result {
	return d.resolve(ctx, modeAll, location)
}

func (d *Dispatcher) resolve(ctx context.Context, mode, location string) []types.Result {
	if d.closed.Load() {
		return nil
	}

	query := types.NormalizeQuery(location)
	if query == "" {
		return nil
	}

	start := time.Now()
	if cached, ok := d.fromCache(ctx, query); ok {
		if d.metrics != nil {
			d.metrics.RecordCacheHit(query, time.Since(start))
		}
		return cached
	}
	if d.metrics != nil {
		d.metrics.RecordCacheMiss(query, time.Since(start))
	}

	// Concurrent resolves of the same query and mode share one registry
	// walk. Each caller gets its own copy of the shared batch.
	shared, _, _ := d.sfGroup.Do(mode+"\x00"+query, func() (any, error) {
		return d.walk(ctx, mode, query), nil
	})

	results, ok := shared.([]types.Result)
	if !ok {
		return nil
	}
	return types.CloneResults(results)
}

// fromCache looks the normalized query up in the store. On a hit the batch
// comes back with backend attribution stripped and a zero-elapsed entry is
// appended to the attempt log.
func (d *Dispatcher) fromCache(ctx context.Context, query string) ([]types.Result, bool) {
	data, err := d.store.Get(ctx, query)
	if err != nil {
		if !types.IsCacheMiss(err) {
			d.logger.Debug("Cache read failed", "query", query, "error", err)
		}
		return nil, false
	}

	var results []types.Result
	if err := d.serializer.Unmarshal(data, &results); err != nil {
		d.logger.Warn("Discarding undecodable cache entry", "query", query, "error", err)
		return nil, false
	}

	for i := range results {
		results[i].Geocoder = ""
	}

	d.attempts.Append(types.Attempt{
		Location: query,
		Results:  types.CloneResults(results),
	})

	return results, true
}

// walk tries each eligible backend in registration order until one yields a
// usable batch. The winning batch is tagged with the backend name, logged,
// and cached under the normalized query before it is returned.
func (d *Dispatcher) walk(ctx context.Context, mode, query string) []types.Result {
	d.mu.RLock()
	entries := make([]types.Entry, len(d.entries))
	copy(entries, d.entries)
	d.mu.RUnlock()

	walkStart := time.Now()

	for _, entry := range entries {
		if !entry.Eligible(query) {
			continue
		}

		g := entry.Geocoder()
		start := time.Now()
		batch, err := g.Geocode(ctx, query)
		elapsed := time.Since(start)

		if d.metrics != nil {
			d.metrics.RecordAttempt(g.Name(), elapsed, err)
		}

		if err != nil {
			d.logger.Warn("Backend invocation failed",
				"geocoder", g.Name(),
				"query", query,
				"error", err,
			)
			d.attempts.Append(types.Attempt{
				Location: query,
				Geocoder: g.Name(),
				Elapsed:  elapsed,
				Err:      err.Error(),
			})
			continue
		}

		results, errMsg := d.interpret(mode, batch)
		if errMsg != "" {
			d.logger.Warn("Backend returned error candidate",
				"geocoder", g.Name(),
				"query", query,
				"error", errMsg,
			)
			d.attempts.Append(types.Attempt{
				Location: query,
				Geocoder: g.Name(),
				Elapsed:  elapsed,
				Err:      errMsg,
			})
			continue
		}

		if len(results) == 0 {
			d.attempts.Append(types.Attempt{
				Location: query,
				Geocoder: g.Name(),
				Elapsed:  elapsed,
			})
			continue
		}

		for i := range results {
			results[i].Geocoder = g.Name()
		}

		d.attempts.Append(types.Attempt{
			Location: query,
			Geocoder: g.Name(),
			Elapsed:  elapsed,
			Results:  types.CloneResults(results),
		})

		if d.metrics != nil {
			d.metrics.RecordResolve(g.Name(), len(results), time.Since(walkStart))
		}

		d.toCache(ctx, query, results)

		return results
	}

	if d.metrics != nil {
		d.metrics.RecordResolve("", 0, time.Since(walkStart))
	}

	return nil
}

// interpret scans a raw candidate batch in order. An error candidate reached
// before any usable one fails the whole batch and its message becomes the
// attempt error. Otherwise the batch is usable once a candidate normalizes:
// one mode keeps only that candidate, all mode keeps every non-error
// candidate, each passed through the normalizer.
func (d *Dispatcher) interpret(mode string, batch []json.RawMessage) ([]types.Result, string) {
	usable := false
	for _, raw := range batch {
		if msg, ok := normalize.CandidateError(raw); ok {
			return nil, msg
		}
		if _, ok := d.normalizer.Normalize(raw); ok {
			usable = true
			break
		}
	}
	if !usable {
		return nil, ""
	}

	if mode == modeOne {
		for _, raw := range batch {
			if result, ok := d.normalizer.Normalize(raw); ok {
				return []types.Result{result}, ""
			}
		}
		return nil, ""
	}

	results := make([]types.Result, 0, len(batch))
	for _, raw := range batch {
		if _, isErr := normalize.CandidateError(raw); isErr {
			continue
		}
		result, _ := d.normalizer.Normalize(raw)
		results = append(results, result)
	}
	return results, ""
}

// toCache writes the tagged batch under the normalized query. Attribution is
// stored with the batch and stripped again on the way out.
func (d *Dispatcher) toCache(ctx context.Context, query string, results []types.Result) {
	data, err := d.serializer.Marshal(results)
	if err != nil {
		d.logger.Warn("Failed to serialize results", "query", query, "error", err)
		return
	}
	if err := d.store.Set(ctx, query, data); err != nil {
		d.logger.Debug("Cache write failed", "query", query, "error", err)
	}
}

// Log returns a copy of the attempt log in append order.
func (d *Dispatcher) Log() []types.Attempt {
	return d.attempts.Snapshot()
}

// Flush clears the attempt log. Cached results are unaffected.
func (d *Dispatcher) Flush() {
	d.attempts.Flush()
}

// CacheEntryCount reports how many normalized queries are currently cached.
func (d *Dispatcher) CacheEntryCount() int {
	return d.store.EntryCount()
}

// Close releases the store. Resolves issued after Close return empty without
// touching the registry. Close is idempotent.
func (d *Dispatcher) Close() error {
	if d.closed.Swap(true) {
		return nil
	}

	d.logger.Info("Closing dispatcher")

	return d.store.Close()
}

// slogAdapter adapts a types.Logger to the slog.Handler interface.
//
//nolint:govet // Simple adapter struct - alignment optimization minimal
type slogAdapter struct {
	attrs  []slog.Attr
	logger types.Logger
	group  string
}

// Enabled reports whether the handler handles records at the given level.
func (a slogAdapter) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle converts the slog record to a types.Logger call.
//
//nolint:gocritic // slog.Handler interface requires passing Record by value
func (a slogAdapter) Handle(_ context.Context, r slog.Record) error {
	args := make([]any, 0, (len(a.attrs)+r.NumAttrs())*2)

	for _, attr := range a.attrs {
		key := attr.Key
		if a.group != "" {
			key = a.group + "." + key
		}
		args = append(args, key, attr.Value.Any())
	}

	r.Attrs(func(attr slog.Attr) bool {
		key := attr.Key
		if a.group != "" {
			key = a.group + "." + key
		}
		args = append(args, key, attr.Value.Any())
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		a.logger.Error(r.Message, args...)
	case r.Level >= slog.LevelWarn:
		a.logger.Warn(r.Message, args...)
	case r.Level >= slog.LevelInfo:
		a.logger.Info(r.Message, args...)
	default:
		a.logger.Debug(r.Message, args...)
	}

	return nil
}

// WithAttrs returns a new handler with the given attributes added.
func (a slogAdapter) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(a.attrs), len(a.attrs)+len(attrs))
	copy(newAttrs, a.attrs)
	newAttrs = append(newAttrs, attrs...)
	return slogAdapter{logger: a.logger, attrs: newAttrs, group: a.group}
}

// WithGroup returns a new handler with the given group name.
func (a slogAdapter) WithGroup(name string) slog.Handler {
	group := name
	if a.group != "" {
		group = a.group + "." + name
	}
	return slogAdapter{logger: a.logger, attrs: a.attrs, group: group}
}
