package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// ListMembers retrieves every member ordered by ID.
func (r *PostgresRepository) ListMembers(ctx context.Context) ([]Member, error) {
	query := `
		SELECT id, name, team_code, image_ref
		FROM members
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.TeamCode, &m.ImageRef); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

// ListTeams retrieves every team, admin teams included, ordered by code.
func (r *PostgresRepository) ListTeams(ctx context.Context) ([]Team, error) {
	query := `
		SELECT code, name, leader, is_admin
		FROM teams
		ORDER BY code ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.Code, &t.Name, &t.Leader, &t.IsAdmin); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

// UpsertTeam inserts the team or updates its name, leader and admin flag.
func (r *PostgresRepository) UpsertTeam(ctx context.Context, t Team) error {
	query := `
		INSERT INTO teams (code, name, leader, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			leader = EXCLUDED.leader,
			is_admin = EXCLUDED.is_admin,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, t.Code, t.Name, t.Leader, t.IsAdmin); err != nil {
		return fmt.Errorf("upserting team %s: %w", t.Code, err)
	}
	return nil
}

// UpsertMember inserts the member or updates its name, team and image.
// Returns ErrTeamNotFound when the member's team does not exist.
func (r *PostgresRepository) UpsertMember(ctx context.Context, m Member) error {
	query := `
		INSERT INTO members (id, name, team_code, image_ref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			team_code = EXCLUDED.team_code,
			image_ref = EXCLUDED.image_ref,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.TeamCode, m.ImageRef); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("member %s: %w: %s", m.ID, ErrTeamNotFound, m.TeamCode)
		}
		return fmt.Errorf("upserting member %s: %w", m.ID, err)
	}
	return nil
}
