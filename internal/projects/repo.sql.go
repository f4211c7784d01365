package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/db"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

const projectColumns = `id, name, description, is_active, created_at, updated_at`

// PGRepository persists projects in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

var _ RepositoryPort = (*PGRepository)(nil)

// NewRepository returns a new PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) List(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		types, err := r.environmentTypes(ctx, r.pool, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].EnvironmentTypes = types
	}
	return out, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND deleted_at IS NULL`, id)
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	types, err := r.environmentTypes(ctx, r.pool, p.ID)
	if err != nil {
		return nil, err
	}
	p.EnvironmentTypes = types
	return &p, nil
}

func (r *PGRepository) Create(ctx context.Context, name, description string, envTypeIDs []int64) (*Project, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO projects (name, description, is_active) VALUES ($1, $2, TRUE) RETURNING id`,
			name, description)
		if err := row.Scan(&id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return httpx.ErrDuplicate
			}
			return err
		}
		return r.replaceEnvironmentTypes(ctx, tx, id, envTypeIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PGRepository) Update(ctx context.Context, id int64, name, description string, isActive bool, envTypeIDs []int64) (*Project, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE projects SET name = $2, description = $3, is_active = $4, updated_at = NOW()
			 WHERE id = $1 AND deleted_at IS NULL`,
			id, name, description, isActive)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return httpx.ErrDuplicate
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return httpx.ErrNotFound
		}
		return r.replaceEnvironmentTypes(ctx, tx, id, envTypeIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete soft deletes, so environments and applications keep a resolvable
// parent row for historical reads.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) replaceEnvironmentTypes(ctx context.Context, tx pgx.Tx, projectID int64, envTypeIDs []int64) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM project_environment_types WHERE project_id = $1`, projectID); err != nil {
		return err
	}
	for _, typeID := range envTypeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO project_environment_types (project_id, environment_type_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			projectID, typeID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return httpx.ErrValidation
			}
			return err
		}
	}
	return nil
}

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PGRepository) environmentTypes(ctx context.Context, q pgQuerier, projectID int64) ([]authz.EnvironmentTypeRef, error) {
	rows, err := q.Query(ctx,
		`SELECT et.id, et.code, et.label, et.is_active
		 FROM environment_types et
		 JOIN project_environment_types pet ON pet.environment_type_id = et.id
		 WHERE pet.project_id = $1
		 ORDER BY et.code`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []authz.EnvironmentTypeRef
	for rows.Next() {
		var ref authz.EnvironmentTypeRef
		if err := rows.Scan(&ref.ID, &ref.Code, &ref.Label, &ref.IsActive); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}
