package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abdouthematrix/westcairostars/internal/telemetry"
)

// DefaultTTL is how long a directory snapshot is served before reloading.
const DefaultTTL = time.Hour

const cacheName = "directory"

// Cache serves directory snapshots, reloading from the repository when the
// snapshot is older than the TTL or has been invalidated. Concurrent reloads
// collapse into one repository round trip. A load that was in flight when
// Invalidate ran is returned to its callers but not kept.
type Cache struct {
	repo    Repository
	ttl     time.Duration
	now     func() time.Time
	metrics *telemetry.Metrics

	mu       sync.RWMutex
	snapshot *Snapshot
	loadedAt time.Time
	gen      uint64 // bumped by Invalidate

	sf singleflight.Group
}

// NewCache creates a directory cache. A zero ttl uses DefaultTTL.
func NewCache(repo Repository, ttl time.Duration, metrics *telemetry.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{repo: repo, ttl: ttl, now: time.Now, metrics: metrics}
}

// WithClock overrides the cache clock. Intended for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Snapshot returns the cached directory, loading it if absent or stale. The
// returned snapshot must be treated as read-only.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap, loadedAt := c.snapshot, c.loadedAt
	c.mu.RUnlock()

	if snap != nil && c.now().Sub(loadedAt) <= c.ttl {
		c.metrics.CacheHit(cacheName)
		return snap, nil
	}
	c.metrics.CacheMiss(cacheName)

	v, err, _ := c.sf.Do("snapshot", func() (any, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Refresh reloads the directory unconditionally.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err, _ := c.sf.Do("snapshot", func() (any, error) {
		return c.load(ctx)
	})
	return err
}

// Invalidate forces the next Snapshot call to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.gen++
	c.mu.Unlock()
	c.sf.Forget("snapshot")
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	members, err := c.repo.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading members: %w", err)
	}
	teams, err := c.repo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}

	snap := NewSnapshot(members, teams)

	c.mu.Lock()
	stale := c.gen != gen
	if !stale {
		c.snapshot = snap
		c.loadedAt = c.now()
	}
	c.mu.Unlock()

	if stale {
		slog.Debug("directory invalidated during load, not caching", "members", len(members), "teams", len(teams))
		return snap, nil
	}
	slog.Debug("directory loaded", "members", len(members), "teams", len(teams))
	return snap, nil
}
