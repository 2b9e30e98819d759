package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements KeyRepository on the teams table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new KeyRepository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) KeyRepository {
	return &PostgresRepository{pool: pool}
}

// FindByPrefix returns the teams whose API key starts with prefix.
func (r *PostgresRepository) FindByPrefix(ctx context.Context, prefix string) ([]TeamKey, error) {
	query := `
		SELECT code, name, is_admin, api_key_prefix, api_key_hash
		FROM teams
		WHERE api_key_prefix = $1 AND api_key_hash IS NOT NULL`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding teams by key prefix: %w", err)
	}
	defer rows.Close()

	keys := []TeamKey{}
	for rows.Next() {
		var k TeamKey
		if err := rows.Scan(&k.TeamCode, &k.TeamName, &k.IsAdmin, &k.ApiKeyPrefix, &k.ApiKeyHash); err != nil {
			return nil, fmt.Errorf("scanning team key row: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team key rows: %w", err)
	}

	return keys, nil
}

// SetKey replaces the team's API key. Returns ErrTeamNotFound if the team
// does not exist.
func (r *PostgresRepository) SetKey(ctx context.Context, teamCode, prefix, hash string) error {
	query := `
		UPDATE teams
		SET api_key_prefix = $2, api_key_hash = $3, updated_at = NOW()
		WHERE code = $1`

	result, err := r.pool.Exec(ctx, query, teamCode, prefix, hash)
	if err != nil {
		return fmt.Errorf("setting team key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}
