package cache

import (
	"context"
	"time"

	"github.com/matzehuels/netlayout/pkg/observability"
)

// hooked reports cache traffic to the registered observability hooks.
type hooked struct {
	inner Cache
}

// WithHooks wraps c so every Get and Set is reported to
// [observability.Cache], keyed by [KeyType].
func WithHooks(c Cache) Cache {
	if _, ok := c.(*hooked); ok {
		return c
	}
	return &hooked{inner: c}
}

func (h *hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := h.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (h *hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := h.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}

func (h *hooked) Delete(ctx context.Context, key string) error {
	return h.inner.Delete(ctx, key)
}

// Clear forwards to the wrapped cache if it supports clearing.
func (h *hooked) Clear(ctx context.Context) error {
	if c, ok := h.inner.(Clearer); ok {
		return c.Clear(ctx)
	}
	return nil
}

func (h *hooked) Close() error {
	return h.inner.Close()
}
