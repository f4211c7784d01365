package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

const uniqueViolation = "23505"

const profileColumns = `id, code, label, is_admin, is_active, created_at, updated_at`

// List returns all profiles ordered by code.
func (r *Repository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var profile Profile
		if err := rows.Scan(&profile.ID, &profile.Code, &profile.Label, &profile.IsAdmin, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// FindByID fetches a profile by ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	var profile Profile
	if err := row.Scan(&profile.ID, &profile.Code, &profile.Label, &profile.IsAdmin, &profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Create inserts a new profile.
func (r *Repository) Create(ctx context.Context, profile Profile) (*Profile, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO profiles (code, label, is_admin, is_active) VALUES ($1, $2, $3, $4)
		 RETURNING `+profileColumns,
		profile.Code, profile.Label, profile.IsAdmin, profile.IsActive)
	var saved Profile
	if err := row.Scan(&saved.ID, &saved.Code, &saved.Label, &saved.IsAdmin, &saved.IsActive, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: profile %s", httpx.ErrDuplicate, profile.Code)
		}
		return nil, err
	}
	return &saved, nil
}

// Update stores the mutable fields of a profile.
func (r *Repository) Update(ctx context.Context, profile Profile) (*Profile, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE profiles SET label = $2, is_admin = $3, is_active = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+profileColumns,
		profile.ID, profile.Label, profile.IsAdmin, profile.IsActive)
	var saved Profile
	if err := row.Scan(&saved.ID, &saved.Code, &saved.Label, &saved.IsAdmin, &saved.IsActive, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}

// Delete removes a profile; the profile_permissions FK cascades the
// assignment rows.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
