package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/roach88/cakeledger/internal/cache"
)

// ErrInjected is returned by FlakyCache when failing.
var ErrInjected = errors.New("injected cache failure")

// FlakyCache wraps an in-memory cache and fails writes while FailPuts is
// set.
type FlakyCache struct {
	*cache.Memory
	FailPuts atomic.Bool
}

// NewFlakyCache returns a working FlakyCache.
func NewFlakyCache() *FlakyCache {
	return &FlakyCache{Memory: cache.NewMemory()}
}

// Put implements cache.Cache.
func (c *FlakyCache) Put(ctx context.Context, key string, value []byte) error {
	if c.FailPuts.Load() {
		return ErrInjected
	}
	return c.Memory.Put(ctx, key, value)
}
