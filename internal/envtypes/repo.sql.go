package envtypes

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

// List returns all environment types ordered by code.
func (r *Repository) List(ctx context.Context) ([]EnvironmentType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, label, is_active, created_at, updated_at FROM environment_types ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var envTypes []EnvironmentType
	for rows.Next() {
		var envType EnvironmentType
		if err := rows.Scan(&envType.ID, &envType.Code, &envType.Label, &envType.IsActive, &envType.CreatedAt, &envType.UpdatedAt); err != nil {
			return nil, err
		}
		envTypes = append(envTypes, envType)
	}
	return envTypes, rows.Err()
}

// FindByID fetches an environment type by ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*EnvironmentType, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, code, label, is_active, created_at, updated_at FROM environment_types WHERE id = $1`, id)
	var envType EnvironmentType
	if err := row.Scan(&envType.ID, &envType.Code, &envType.Label, &envType.IsActive, &envType.CreatedAt, &envType.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &envType, nil
}

// Create inserts a new environment type.
func (r *Repository) Create(ctx context.Context, envType EnvironmentType) (*EnvironmentType, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO environment_types (code, label, is_active) VALUES ($1, $2, $3)
		 RETURNING id, code, label, is_active, created_at, updated_at`,
		envType.Code, envType.Label, envType.IsActive)
	var saved EnvironmentType
	if err := row.Scan(&saved.ID, &saved.Code, &saved.Label, &saved.IsActive, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: environment type %s", httpx.ErrDuplicate, envType.Code)
		}
		return nil, err
	}
	return &saved, nil
}

// Update stores the mutable fields of an environment type.
func (r *Repository) Update(ctx context.Context, envType EnvironmentType) (*EnvironmentType, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE environment_types SET label = $2, is_active = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, code, label, is_active, created_at, updated_at`,
		envType.ID, envType.Label, envType.IsActive)
	var saved EnvironmentType
	if err := row.Scan(&saved.ID, &saved.Code, &saved.Label, &saved.IsActive, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}
