// Package cache provides result caching for the layout pipeline.
//
// Layouts are pure functions of a network description and a configuration,
// so their encoded results can be stored under a content-derived key and
// reused across CLI invocations or between instances of the HTTP API.
//
// # Backends
//
//   - [FileCache]: sharded JSON files under the user cache directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: disables caching
//
// [Open] selects a backend from a URL.
//
// # Keys
//
// A [Keyer] derives keys from content hashes. Keys carry a type prefix
// ("layout", "export") which [WithHooks] reports to the registered
// observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default time-to-live values.
const (
	TTLLayout = 30 * 24 * time.Hour
	TTLExport = 30 * 24 * time.Hour
)

// Key type prefixes.
const (
	KeyTypeLayout = "layout"
	KeyTypeExport = "export"
)

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies a layout computed from a network with the given options.
	LayoutKey(networkHash string, opts LayoutKeyOpts) string

	// ExportKey identifies an encoded layout in the given format.
	ExportKey(layoutHash string, format string) string
}

// LayoutKeyOpts holds every option that affects a computed layout.
type LayoutKeyOpts struct {
	MaxDepth     float64 `json:"max_depth"`
	LayerSpacing float64 `json:"layer_spacing"`
	LayerWidth   float64 `json:"layer_width"`
	LayerHeight  float64 `json:"layer_height"`
	HeatMin      float64 `json:"heat_min"`
	HeatMax      float64 `json:"heat_max"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(networkHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, networkHash, opts)
}

// ExportKey generates a key for export caching.
func (DefaultKeyer) ExportKey(layoutHash string, format string) string {
	return hashKey(KeyTypeExport, layoutHash, format)
}
