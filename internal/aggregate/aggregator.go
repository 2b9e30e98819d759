package aggregate

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/score"
	"github.com/abdouthematrix/westcairostars/internal/telemetry"
)

const (
	DefaultFanout           = 16
	DefaultPartitionTimeout = 5 * time.Second
)

// PartitionSource reads the records of one (day, team) partition.
// *score.Cache satisfies it.
type PartitionSource interface {
	GetPartition(ctx context.Context, day time.Time, teamCode string) ([]score.Record, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFanout bounds the number of concurrent partition reads.
func WithFanout(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.fanout = n
		}
	}
}

// WithPartitionTimeout bounds each partition read.
func WithPartitionTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMetrics records partition outcomes and aggregation latency.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// Aggregator fans partition reads out across every (day, team) pair of a
// range and folds the results into per-member totals.
type Aggregator struct {
	source  PartitionSource
	fanout  int
	timeout time.Duration
	metrics *telemetry.Metrics
}

// New creates an Aggregator reading through source.
func New(source PartitionSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:  source,
		fanout:  DefaultFanout,
		timeout: DefaultPartitionTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns one Member per roster member for rng. Members without
// records are present with zero totals. Partition failures are logged and
// treated as empty partitions.
//
// If ctx ends before every read has completed, Aggregate returns ctx.Err().
// Reads already started keep running to their own timeout and their results
// are discarded.
func (a *Aggregator) Aggregate(ctx context.Context, rng period.Range, roster directory.Roster) (map[string]*Member, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "aggregate.Aggregate", trace.WithAttributes(
		attribute.String("range", rng.String()),
		attribute.Int("teams", len(roster)),
	))
	defer span.End()

	start := time.Now()
	results := a.fetchAll(ctx, rng, roster)

	select {
	case res := <-results:
		members := Fold(rng, roster, res)
		a.metrics.AggregationObserved(time.Since(start))
		span.SetAttributes(attribute.Int("members", len(members)))
		return members, nil
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return nil, ctx.Err()
	}
}

// fetchAll schedules one read per (day, team) and delivers the complete
// result set on the returned channel once every read has finished.
func (a *Aggregator) fetchAll(ctx context.Context, rng period.Range, roster directory.Roster) <-chan []PartitionResult {
	days := rng.Days()
	teams := roster.TeamCodes()
	results := make([]PartitionResult, len(days)*len(teams))
	out := make(chan []PartitionResult, 1)

	// Reads are detached from the caller so an abandoned request does not
	// cancel them; each one is bounded by its own timeout instead.
	base := context.WithoutCancel(ctx)

	go func() {
		var g errgroup.Group
		g.SetLimit(a.fanout)
		for i, day := range days {
			for j, team := range teams {
				slot := i*len(teams) + j
				g.Go(func() error {
					results[slot] = a.fetch(base, day, team)
					return nil
				})
			}
		}
		_ = g.Wait()
		out <- results
	}()

	return out
}

func (a *Aggregator) fetch(ctx context.Context, day time.Time, teamCode string) PartitionResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	recs, err := a.source.GetPartition(ctx, day, teamCode)
	res := newResult(day, teamCode, recs, err)
	a.metrics.PartitionFetched(res.Status.String())
	if res.Status == StatusFailed {
		slog.Warn("partition read failed",
			"day", period.FormatDay(day),
			"team", teamCode,
			"error", err,
		)
	}
	return res
}
