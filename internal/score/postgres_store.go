package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdouthematrix/westcairostars/internal/product"
)

// PostgresStore implements Store on the score_records table. Score maps are
// JSONB objects merged with the || operator so untouched products survive.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const recordColumns = `day, team_code, member_id, raw_scores, reviewed_scores,
		       unavailable, last_updated, reviewed_at, reset_at`

// GetPartition retrieves all records of one team for one day.
func (s *PostgresStore) GetPartition(ctx context.Context, day time.Time, teamCode string) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM score_records
		WHERE day = $1 AND team_code = $2
		ORDER BY member_id ASC`

	rows, err := s.pool.Query(ctx, query, day, teamCode)
	if err != nil {
		return nil, fmt.Errorf("querying partition: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score rows: %w", err)
	}

	return records, nil
}

// GetRecord retrieves one member's record for one day.
func (s *PostgresStore) GetRecord(ctx context.Context, key Key) (Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM score_records
		WHERE day = $1 AND team_code = $2 AND member_id = $3`

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, key.Day, key.TeamCode, key.MemberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, fmt.Errorf("querying score record: %w", err)
	}
	return rec, nil
}

// WriteRecord upserts the record, merging score maps and keeping fields the
// patch does not mention.
func (s *PostgresStore) WriteRecord(ctx context.Context, key Key, patch Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	raw, err := encodeScores(patch.Raw)
	if err != nil {
		return err
	}
	reviewed, err := encodeScores(patch.Reviewed)
	if err != nil {
		return err
	}
	touchesReview := len(patch.Reviewed) > 0 && !patch.Reset

	query := `
		INSERT INTO score_records (day, team_code, member_id, raw_scores, reviewed_scores,
		                           unavailable, last_updated, reviewed_at, reset_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, COALESCE($6::boolean, FALSE), NOW(),
		        CASE WHEN $7::boolean THEN NOW() END,
		        CASE WHEN $8::boolean THEN NOW() END)
		ON CONFLICT (day, team_code, member_id) DO UPDATE SET
			raw_scores      = score_records.raw_scores || EXCLUDED.raw_scores,
			reviewed_scores = score_records.reviewed_scores || EXCLUDED.reviewed_scores,
			unavailable     = COALESCE($6::boolean, score_records.unavailable),
			last_updated    = NOW(),
			reviewed_at     = CASE WHEN $7::boolean THEN NOW() ELSE score_records.reviewed_at END,
			reset_at        = CASE WHEN $8::boolean THEN NOW() ELSE score_records.reset_at END`

	_, err = s.pool.Exec(ctx, query,
		key.Day, key.TeamCode, key.MemberID,
		raw, reviewed,
		patch.Unavailable,
		touchesReview,
		patch.Reset,
	)
	if err != nil {
		return fmt.Errorf("upserting score record: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec      Record
		raw      []byte
		reviewed []byte
	)
	err := row.Scan(
		&rec.Day, &rec.TeamCode, &rec.MemberID,
		&raw, &reviewed,
		&rec.Unavailable, &rec.LastUpdated, &rec.ReviewedAt, &rec.ResetAt,
	)
	if err != nil {
		return Record{}, err
	}
	if rec.Raw, err = decodeScores(raw); err != nil {
		return Record{}, err
	}
	if rec.Reviewed, err = decodeScores(reviewed); err != nil {
		return Record{}, err
	}
	rec.Day = rec.Day.UTC()
	return rec, nil
}

func encodeScores(s product.Scores) ([]byte, error) {
	if len(s) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding scores: %w", err)
	}
	return b, nil
}

func decodeScores(b []byte) (product.Scores, error) {
	s := product.Scores{}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decoding scores: %w", err)
	}
	return s, nil
}
