package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the cache backend named by rawURL:
//
//	""                      file cache in dir
//	"none", "off"           caching disabled
//	"file:///path"          file cache at path
//	"redis://", "rediss://" Redis
//	"mongodb://", "mongodb+srv://" MongoDB
func Open(ctx context.Context, rawURL, dir string) (Cache, error) {
	switch {
	case rawURL == "":
		return NewFileCache(dir)
	case rawURL == "none" || rawURL == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(rawURL, "file://"):
		return NewFileCache(strings.TrimPrefix(rawURL, "file://"))
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		return NewRedisCache(ctx, rawURL)
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		return NewMongoCache(ctx, rawURL)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, rawURL)
}
