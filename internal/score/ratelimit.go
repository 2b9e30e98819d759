package score

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedStore paces calls to the wrapped Store with a token bucket so a
// wide fan-out cannot overwhelm the backing database.
type RateLimitedStore struct {
	next    Store
	limiter *rate.Limiter
}

// NewRateLimitedStore wraps next with a limit of limit requests per second
// and the given burst.
func NewRateLimitedStore(next Store, limit rate.Limit, burst int) *RateLimitedStore {
	return &RateLimitedStore{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// GetPartition waits for a token and forwards the call.
func (s *RateLimitedStore) GetPartition(ctx context.Context, day time.Time, teamCode string) ([]Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return s.next.GetPartition(ctx, day, teamCode)
}

// GetRecord waits for a token and forwards the call.
func (s *RateLimitedStore) GetRecord(ctx context.Context, key Key) (Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Record{}, fmt.Errorf("rate limit: %w", err)
	}
	return s.next.GetRecord(ctx, key)
}

// WriteRecord waits for a token and forwards the call.
func (s *RateLimitedStore) WriteRecord(ctx context.Context, key Key, patch Patch) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return s.next.WriteRecord(ctx, key, patch)
}
