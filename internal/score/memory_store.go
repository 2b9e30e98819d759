package score

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/period"
)

// MemoryStore is an in-process Store. It backs tests and local tooling that
// run without Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]Record
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]Record), now: time.Now}
}

// GetPartition returns the partition's records ordered by member ID.
func (s *MemoryStore) GetPartition(_ context.Context, day time.Time, teamCode string) ([]Record, error) {
	pk := partitionKey{day: period.FormatDay(day), team: teamCode}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Record{}
	for k, r := range s.records {
		if k.partitionKey == pk {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

// GetRecord returns a copy of the stored record.
func (s *MemoryStore) GetRecord(_ context.Context, key Key) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[keyOf(key)]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return r.Clone(), nil
}

// WriteRecord merges the patch into the stored record.
func (s *MemoryStore) WriteRecord(_ context.Context, key Key, patch Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	key.Day = period.Day(key.Day)
	rk := keyOf(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rk]
	if !ok {
		existing = emptyRecord(key)
	}
	s.records[rk] = patch.Apply(existing, s.now())
	return nil
}

// Put stores rec as is, replacing any existing record. It seeds fixtures.
func (s *MemoryStore) Put(rec Record) {
	rec.Day = period.Day(rec.Day)
	s.mu.Lock()
	s.records[keyOf(rec.Key)] = rec.Clone()
	s.mu.Unlock()
}
