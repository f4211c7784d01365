package environments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

const environmentSelect = `
SELECT e.id, e.name, e.url, e.project_id, e.is_active, e.created_at, e.updated_at,
       et.id, et.code, et.label, et.is_active
FROM environments e
LEFT JOIN environment_types et ON et.id = e.environment_type_id`

// PGRepository persists environments in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

var _ RepositoryPort = (*PGRepository)(nil)

// NewRepository returns a new PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func scanEnvironment(row pgx.Row) (*Environment, error) {
	var (
		e         Environment
		url       *string
		typeID    *int64
		typeCode  *string
		typeLabel *string
		typeOn    *bool
	)
	if err := row.Scan(&e.ID, &e.Name, &url, &e.ProjectID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		&typeID, &typeCode, &typeLabel, &typeOn); err != nil {
		return nil, err
	}
	if url != nil {
		e.URL = *url
	}
	if typeID != nil {
		e.Type = &authz.EnvironmentTypeRef{ID: *typeID, Code: *typeCode, Label: *typeLabel, IsActive: *typeOn}
	}
	return &e, nil
}

func (r *PGRepository) ListByProject(ctx context.Context, projectID int64) ([]Environment, error) {
	rows, err := r.pool.Query(ctx, environmentSelect+` WHERE e.project_id = $1 ORDER BY e.name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Environment
	for rows.Next() {
		env, err := scanEnvironment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *env)
	}
	return out, rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Environment, error) {
	env, err := scanEnvironment(r.pool.QueryRow(ctx, environmentSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return env, nil
}

func (r *PGRepository) Create(ctx context.Context, projectID, typeID int64, name, url string) (*Environment, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO environments (project_id, environment_type_id, name, url, is_active)
		 VALUES ($1, $2, $3, NULLIF($4, ''), TRUE)
		 RETURNING id`,
		projectID, typeID, name, url)
	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, httpx.ErrDuplicate
			case "23503":
				return nil, httpx.ErrValidation
			}
		}
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PGRepository) Update(ctx context.Context, id int64, name, url string, isActive bool) (*Environment, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE environments SET name = $2, url = NULLIF($3, ''), is_active = $4, updated_at = NOW() WHERE id = $1`,
		id, name, url, isActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, httpx.ErrDuplicate
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM environments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
