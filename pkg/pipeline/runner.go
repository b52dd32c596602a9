package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
//
// Cache failures never fail a run: they are logged and treated as misses.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The cache is wrapped so its traffic reaches the observability hooks.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.WithHooks(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	d, err := Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Network = d
	result.Duplicates = d.DuplicateIDs()
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.LayerCount = d.LayerCount()
	result.Stats.NeuronCount = d.NeuronCount()

	r.Logger.Info("parsed network",
		"layers", result.Stats.LayerCount,
		"neurons", result.Stats.NeuronCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	lr, hash, layoutHit, err := r.layoutWithHash(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = lr
	result.NetworkHash = hash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"depth_scale", lr.Depth.Scale,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, lr, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported layout",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Parse decodes the network description in opts.Input.
// Parsing is cheap relative to a cache round trip, so it is not cached.
func (r *Runner) Parse(ctx context.Context, opts Options) (*network.Description, error) {
	return Parse(ctx, opts)
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, d *network.Description, opts Options) (*layout.Result, bool, error) {
	lr, _, hit, err := r.layoutWithHash(ctx, d, opts)
	return lr, hit, err
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, d *network.Description, opts Options) (*layout.Result, error) {
	lr, _, err := r.ComputeLayoutWithCacheInfo(ctx, d, opts)
	return lr, err
}

func (r *Runner) layoutWithHash(ctx context.Context, d *network.Description, opts Options) (*layout.Result, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, "", false, err
	}

	networkData, err := network.Marshal(d)
	if err != nil {
		return nil, "", false, err
	}
	networkHash := cache.Hash(networkData)
	cacheKey := r.Keyer.LayoutKey(networkHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey); hit {
			cached, err := layout.UnmarshalResult(data)
			if err == nil {
				return cached, networkHash, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "err", err)
		}
	}

	lr, err := ComputeLayout(ctx, d, opts)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := layout.MarshalResult(lr); err == nil {
		r.cacheSet(ctx, cacheKey, data, cache.TTLLayout)
	}
	return lr, networkHash, false, nil
}

// ExportWithCacheInfo encodes a layout with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, lr *layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	layoutData, err := layout.MarshalResult(lr)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit := r.cacheGet(ctx, r.Keyer.ExportKey(layoutHash, format))
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	exported, err := Export(ctx, lr, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range exported {
		r.cacheSet(ctx, r.Keyer.ExportKey(layoutHash, format), data, cache.TTLExport)
	}
	return exported, false, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, lr *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, lr, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	return data, hit
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
