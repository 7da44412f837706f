package csvdata

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// DatasetLoader produces a Dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// CachedLoader memoizes a DatasetLoader. With a zero TTL the first successful
// load is kept for the life of the process; otherwise it is refreshed once
// older than TTL. Concurrent callers share a single in-flight load, and a
// failed refresh keeps serving the previous dataset.
type CachedLoader struct {
	inner  DatasetLoader
	ttl    time.Duration
	clock  clockwork.Clock
	logger *slog.Logger
	group  singleflight.Group

	mu       sync.RWMutex
	dataset  *domain.Dataset
	loadedAt time.Time
}

// NewCachedLoader wraps inner. A nil clock uses real time.
func NewCachedLoader(inner DatasetLoader, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) *CachedLoader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedLoader{inner: inner, ttl: ttl, clock: clock, logger: logger}
}

// Load returns the cached dataset, loading it when absent or expired.
func (c *CachedLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	c.mu.RLock()
	ds, fresh := c.dataset, c.fresh()
	c.mu.RUnlock()
	if ds != nil && fresh {
		return ds, nil
	}

	v, err, _ := c.group.Do("dataset", func() (any, error) {
		c.mu.RLock()
		current, ok := c.dataset, c.fresh()
		c.mu.RUnlock()
		if current != nil && ok {
			return current, nil
		}

		loaded, err := c.inner.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.dataset, c.loadedAt = loaded, c.clock.Now()
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		if ds != nil {
			c.logger.Warn("dataset refresh failed, serving previous load", "error", err)
			return ds, nil
		}
		return nil, err
	}
	return v.(*domain.Dataset), nil
}

// Invalidate drops the cached dataset so the next Load refetches.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	c.dataset = nil
	c.mu.Unlock()
}

func (c *CachedLoader) fresh() bool {
	return c.ttl == 0 || c.clock.Since(c.loadedAt) < c.ttl
}
