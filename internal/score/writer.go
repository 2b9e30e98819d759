package score

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/product"
	"github.com/abdouthematrix/westcairostars/internal/telemetry"
)

// ErrWriteFailed wraps any store failure on a write path. The cache is not
// touched when it is returned.
var ErrWriteFailed = errors.New("score write failed")

// ErrInvalidScore is returned when a score value or product is rejected
// before reaching the store.
var ErrInvalidScore = errors.New("invalid score")

// Update is one entry of a batch save.
type Update struct {
	MemberID string
	TeamCode string
	Product  product.ID
	Score    int
	Reviewed bool
}

// Writer applies score mutations to the store and invalidates the affected
// cache entries before reporting success.
type Writer struct {
	store   Store
	cache   *Cache
	metrics *telemetry.Metrics
}

// NewWriter creates a Writer. cache may be nil when no cache is in use.
func NewWriter(store Store, c *Cache, metrics *telemetry.Metrics) *Writer {
	return &Writer{store: store, cache: c, metrics: metrics}
}

// SaveScore records a member's own raw score for one product.
func (w *Writer) SaveScore(ctx context.Context, key Key, p product.ID, value int) error {
	if err := checkScore(p, value); err != nil {
		return err
	}
	return w.write(ctx, "raw", key, Patch{Raw: product.Scores{p: value}})
}

// SaveReviewedScore records a supervisor's reviewed score for one product.
func (w *Writer) SaveReviewedScore(ctx context.Context, key Key, p product.ID, value int) error {
	if err := checkScore(p, value); err != nil {
		return err
	}
	return w.write(ctx, "reviewed", key, Patch{Reviewed: product.Scores{p: value}})
}

// SetUnavailable flags or clears the member's unavailability for the day.
func (w *Writer) SetUnavailable(ctx context.Context, key Key, unavailable bool) error {
	return w.write(ctx, "availability", key, Patch{Unavailable: &unavailable})
}

// SaveBatch applies updates in order and stops at the first failure. It
// returns how many updates were applied; those are invalidated even when a
// later update fails.
func (w *Writer) SaveBatch(ctx context.Context, day time.Time, updates []Update) (int, error) {
	for _, u := range updates {
		if err := checkScore(u.Product, u.Score); err != nil {
			return 0, fmt.Errorf("member %s: %w", u.MemberID, err)
		}
	}

	for i, u := range updates {
		key := Key{Day: day, TeamCode: u.TeamCode, MemberID: u.MemberID}
		patch := Patch{Raw: product.Scores{u.Product: u.Score}}
		op := "raw"
		if u.Reviewed {
			patch = Patch{Reviewed: product.Scores{u.Product: u.Score}}
			op = "reviewed"
		}
		if err := w.write(ctx, op, key, patch); err != nil {
			return i, err
		}
	}
	return len(updates), nil
}

// ResetTeam zeroes raw and reviewed scores of every record the team has for
// the day and returns how many records were reset.
func (w *Writer) ResetTeam(ctx context.Context, day time.Time, teamCode string) (int, error) {
	recs, err := w.store.GetPartition(ctx, day, teamCode)
	if err != nil {
		return 0, fmt.Errorf("%w: listing partition: %w", ErrWriteFailed, err)
	}

	for i, r := range recs {
		if err := w.write(ctx, "reset", r.Key, ResetPatch()); err != nil {
			return i, err
		}
	}

	slog.Info("team scores reset", "day", period.FormatDay(day), "team", teamCode, "records", len(recs))
	return len(recs), nil
}

// ResetAll resets every listed team for the day. It stops at the first
// failing team and returns the number of records reset so far.
func (w *Writer) ResetAll(ctx context.Context, day time.Time, teamCodes []string) (int, error) {
	total := 0
	for _, team := range teamCodes {
		n, err := w.ResetTeam(ctx, day, team)
		total += n
		if err != nil {
			return total, fmt.Errorf("resetting team %s: %w", team, err)
		}
	}
	return total, nil
}

func (w *Writer) write(ctx context.Context, op string, key Key, patch Patch) error {
	err := w.store.WriteRecord(ctx, key, patch)
	w.metrics.StoreWrite(op, err)
	if err != nil {
		slog.Error("score write failed", "operation", op, "key", key.String(), "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrWriteFailed, op, key, err)
	}

	if w.cache != nil {
		w.cache.InvalidateRecord(key)
	}
	return nil
}

func checkScore(p product.ID, value int) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidScore, product.ErrUnknownProduct, string(p))
	}
	if value < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScore, product.ErrNegativeScore)
	}
	return nil
}
