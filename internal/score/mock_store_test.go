package score_test

import (
	"context"
	"sync"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/score"
)

// countingStore wraps a MemoryStore, counts calls and can inject failures.
type countingStore struct {
	*score.MemoryStore

	mu             sync.Mutex
	partitionCalls int
	recordCalls    int
	writeCalls     int

	getPartitionFn func(ctx context.Context, day time.Time, teamCode string) ([]score.Record, error)
	getRecordFn    func(ctx context.Context, key score.Key) (score.Record, error)
	writeRecordFn  func(ctx context.Context, key score.Key, patch score.Patch) error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: score.NewMemoryStore()}
}

func (s *countingStore) GetPartition(ctx context.Context, day time.Time, teamCode string) ([]score.Record, error) {
	s.mu.Lock()
	s.partitionCalls++
	s.mu.Unlock()
	if s.getPartitionFn != nil {
		return s.getPartitionFn(ctx, day, teamCode)
	}
	return s.MemoryStore.GetPartition(ctx, day, teamCode)
}

func (s *countingStore) GetRecord(ctx context.Context, key score.Key) (score.Record, error) {
	s.mu.Lock()
	s.recordCalls++
	s.mu.Unlock()
	if s.getRecordFn != nil {
		return s.getRecordFn(ctx, key)
	}
	return s.MemoryStore.GetRecord(ctx, key)
}

func (s *countingStore) WriteRecord(ctx context.Context, key score.Key, patch score.Patch) error {
	s.mu.Lock()
	s.writeCalls++
	s.mu.Unlock()
	if s.writeRecordFn != nil {
		return s.writeRecordFn(ctx, key, patch)
	}
	return s.MemoryStore.WriteRecord(ctx, key, patch)
}

func (s *countingStore) partitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partitionCalls
}

func (s *countingStore) records() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordCalls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
