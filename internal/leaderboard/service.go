package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/telemetry"
)

// ErrDirectoryUnavailable is returned when the member or team list cannot be
// loaded. The build can be retried.
var ErrDirectoryUnavailable = errors.New("directory unavailable")

// DefaultMaxRangeDays is the longest range a leaderboard may cover.
const DefaultMaxRangeDays = 92

// DirectorySource provides directory snapshots. *directory.Cache satisfies it.
type DirectorySource interface {
	Snapshot(ctx context.Context) (*directory.Snapshot, error)
}

// Aggregator aggregates a roster over a range. *aggregate.Aggregator
// satisfies it.
type Aggregator interface {
	Aggregate(ctx context.Context, rng period.Range, roster directory.Roster) (map[string]*aggregate.Member, error)
}

// Service builds leaderboards end to end.
type Service struct {
	directory    DirectorySource
	aggregator   Aggregator
	builder      *Builder
	maxRangeDays int
	metrics      *telemetry.Metrics
	now          func() time.Time
}

// NewService creates a leaderboard Service.
func NewService(dir DirectorySource, agg Aggregator, builder *Builder, maxRangeDays int, metrics *telemetry.Metrics) *Service {
	return &Service{
		directory:    dir,
		aggregator:   agg,
		builder:      builder,
		maxRangeDays: maxRangeDays,
		metrics:      metrics,
		now:          time.Now,
	}
}

// Build produces the four boards for rng.
func (s *Service) Build(ctx context.Context, rng period.Range) (*Boards, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "leaderboard.Build", trace.WithAttributes(
		attribute.String("range", rng.String()),
	))
	defer span.End()

	boards, err := s.build(ctx, rng)
	s.metrics.LeaderboardBuilt(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return boards, nil
}

func (s *Service) build(ctx context.Context, rng period.Range) (*Boards, error) {
	if err := rng.Limit(s.maxRangeDays); err != nil {
		return nil, err
	}

	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		slog.Error("directory load failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	members, err := s.aggregator.Aggregate(ctx, rng, snap.Roster())
	if err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", rng, err)
	}

	boards := s.builder.Build(members, snap)
	boards.Range = rng
	boards.GeneratedAt = s.now().UTC()
	return boards, nil
}
