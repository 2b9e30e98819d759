package score

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/cache"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/telemetry"
)

// DefaultTTL is how long a fetched record or partition is served from memory.
const DefaultTTL = 5 * time.Minute

const (
	recordCacheName    = "score_record"
	partitionCacheName = "score_partition"
)

type partitionKey struct {
	day  string
	team string
}

type recordKey struct {
	partitionKey
	member string
}

func keyOf(k Key) recordKey {
	return recordKey{partitionKey: partitionKey{day: period.FormatDay(k.Day), team: k.TeamCode}, member: k.MemberID}
}

type recordEntry struct {
	record Record
	found  bool
}

// Cache fronts a Store with short-lived per-record and per-partition entries.
// Concurrent misses on the same key may both hit the store. A fill is dropped
// when any invalidation ran while its store read was in flight, so a read
// that starts after a write never sees the pre-write value. Values handed out
// are copies.
type Cache struct {
	store      Store
	records    *cache.Cache[recordKey, recordEntry]
	partitions *cache.Cache[partitionKey, []Record]
	metrics    *telemetry.Metrics

	// fillMu orders fills against invalidations; epoch counts invalidations.
	fillMu sync.Mutex
	epoch  uint64
}

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	ttl     time.Duration
	clock   func() time.Time
	metrics *telemetry.Metrics
}

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(o *cacheOptions) { o.ttl = ttl }
}

// WithClock sets the clock used for expiry.
func WithClock(clock func() time.Time) CacheOption {
	return func(o *cacheOptions) { o.clock = clock }
}

// WithMetrics records hits, misses and evictions.
func WithMetrics(m *telemetry.Metrics) CacheOption {
	return func(o *cacheOptions) { o.metrics = m }
}

// NewCache creates a Cache in front of store.
func NewCache(store Store, opts ...CacheOption) *Cache {
	o := cacheOptions{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{
		store:      store,
		records:    cache.New[recordKey, recordEntry](o.ttl, o.clock),
		partitions: cache.New[partitionKey, []Record](o.ttl, o.clock),
		metrics:    o.metrics,
	}
}

func (c *Cache) currentEpoch() uint64 {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	return c.epoch
}

// fill runs set unless an invalidation happened since epoch was read.
func (c *Cache) fill(epoch uint64, set func()) {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	if c.epoch != epoch {
		return
	}
	set()
}

// invalidate bumps the epoch and runs drop under the fill lock.
func (c *Cache) invalidate(drop func()) {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	c.epoch++
	drop()
}

// Get returns the member's record for the day. found is false when the store
// has no record; the returned record is then empty but keyed.
func (c *Cache) Get(ctx context.Context, key Key) (Record, bool, error) {
	rk := keyOf(key)
	if e, ok := c.records.Get(rk); ok {
		c.metrics.CacheHit(recordCacheName)
		return e.record.Clone(), e.found, nil
	}
	c.metrics.CacheMiss(recordCacheName)

	epoch := c.currentEpoch()
	rec, err := c.store.GetRecord(ctx, key)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		c.fill(epoch, func() {
			c.records.Set(rk, recordEntry{record: emptyRecord(key), found: false})
		})
		return emptyRecord(key), false, nil
	case err != nil:
		return Record{}, false, fmt.Errorf("fetching record %s: %w", key, err)
	}

	c.fill(epoch, func() {
		c.records.Set(rk, recordEntry{record: rec, found: true})
	})
	return rec.Clone(), true, nil
}

// GetPartition returns every record of the team for the day.
func (c *Cache) GetPartition(ctx context.Context, day time.Time, teamCode string) ([]Record, error) {
	pk := partitionKey{day: period.FormatDay(day), team: teamCode}
	if recs, ok := c.partitions.Get(pk); ok {
		c.metrics.CacheHit(partitionCacheName)
		return cloneRecords(recs), nil
	}
	c.metrics.CacheMiss(partitionCacheName)

	recs, err := c.fetchPartition(ctx, day, teamCode, c.currentEpoch())
	if err != nil {
		return nil, err
	}
	return cloneRecords(recs), nil
}

// fetchPartition reads the partition from the store and caches it and its
// records unless an invalidation intervened.
func (c *Cache) fetchPartition(ctx context.Context, day time.Time, teamCode string, epoch uint64) ([]Record, error) {
	pk := partitionKey{day: period.FormatDay(day), team: teamCode}
	recs, err := c.store.GetPartition(ctx, day, teamCode)
	if err != nil {
		return nil, fmt.Errorf("fetching partition %s/%s: %w", pk.day, teamCode, err)
	}
	if recs == nil {
		recs = []Record{}
	}

	c.fill(epoch, func() {
		c.partitions.Set(pk, recs)
		for _, r := range recs {
			c.records.Set(keyOf(r.Key), recordEntry{record: r, found: true})
		}
	})
	return recs, nil
}

// GetBatch returns a record for every requested member. Members already
// cached are served from memory; the rest come from one partition read.
// Members without a stored record get an empty record.
func (c *Cache) GetBatch(ctx context.Context, day time.Time, teamCode string, memberIDs []string) (map[string]Record, error) {
	results := make(map[string]Record, len(memberIDs))
	var missing []string

	for _, id := range memberIDs {
		k := Key{Day: day, TeamCode: teamCode, MemberID: id}
		if e, ok := c.records.Get(keyOf(k)); ok {
			c.metrics.CacheHit(recordCacheName)
			results[id] = e.record.Clone()
			continue
		}
		c.metrics.CacheMiss(recordCacheName)
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return results, nil
	}

	epoch := c.currentEpoch()
	recs, err := c.fetchPartition(ctx, day, teamCode, epoch)
	if err != nil {
		return nil, err
	}

	byMember := make(map[string]Record, len(recs))
	for _, r := range recs {
		byMember[r.MemberID] = r
	}
	for _, id := range missing {
		if r, ok := byMember[id]; ok {
			results[id] = r.Clone()
			continue
		}
		k := Key{Day: day, TeamCode: teamCode, MemberID: id}
		c.fill(epoch, func() {
			c.records.Set(keyOf(k), recordEntry{record: emptyRecord(k), found: false})
		})
		results[id] = emptyRecord(k)
	}

	return results, nil
}

// Invalidate drops cached entries. A nil day matches every day and an empty
// teamCode matches every team, so Invalidate(nil, "") clears everything.
func (c *Cache) Invalidate(day *time.Time, teamCode string) int {
	if day == nil && teamCode == "" {
		var n int
		c.invalidate(func() {
			n = c.Len()
			c.records.Clear()
			c.partitions.Clear()
		})
		c.metrics.CacheEvicted(partitionCacheName, "invalidated", n)
		return n
	}

	var dayStr string
	if day != nil {
		dayStr = period.FormatDay(*day)
	}
	match := func(pk partitionKey) bool {
		return (day == nil || pk.day == dayStr) && (teamCode == "" || pk.team == teamCode)
	}

	var n int
	c.invalidate(func() {
		n = c.partitions.DeleteFunc(match)
		n += c.records.DeleteFunc(func(rk recordKey) bool { return match(rk.partitionKey) })
	})
	c.metrics.CacheEvicted(partitionCacheName, "invalidated", n)
	return n
}

// InvalidateRecord drops the member's entry and the partition containing it.
func (c *Cache) InvalidateRecord(key Key) {
	rk := keyOf(key)
	n := 0
	c.invalidate(func() {
		if c.records.Delete(rk) {
			n++
		}
		if c.partitions.Delete(rk.partitionKey) {
			n++
		}
	})
	c.metrics.CacheEvicted(recordCacheName, "invalidated", n)
}

// Sweep evicts expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	r := c.records.Sweep()
	p := c.partitions.Sweep()
	c.metrics.CacheEvicted(recordCacheName, "expired", r)
	c.metrics.CacheEvicted(partitionCacheName, "expired", p)
	return r + p
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.invalidate(func() {
		c.records.Clear()
		c.partitions.Clear()
	})
}

// Len returns the number of stored entries across both maps.
func (c *Cache) Len() int {
	return c.records.Len() + c.partitions.Len()
}

func cloneRecords(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}
