package applications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

const applicationColumns = `id, name, repository, project_id, environment_id, is_active, created_at, updated_at`

// PGRepository persists applications in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

var _ RepositoryPort = (*PGRepository)(nil)

// NewRepository returns a new PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func scanApplication(row pgx.Row) (*Application, error) {
	var (
		a    Application
		repo *string
	)
	if err := row.Scan(&a.ID, &a.Name, &repo, &a.ProjectID, &a.EnvironmentID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if repo != nil {
		a.Repository = *repo
	}
	return &a, nil
}

func (r *PGRepository) ListByProject(ctx context.Context, projectID int64) ([]Application, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE project_id = $1 ORDER BY name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *PGRepository) Create(ctx context.Context, app *Application) (*Application, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO applications (name, repository, project_id, environment_id, is_active)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		 RETURNING `+applicationColumns,
		app.Name, app.Repository, app.ProjectID, app.EnvironmentID, app.IsActive)
	created, err := scanApplication(row)
	if err != nil {
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
	return created, nil
}

func (r *PGRepository) Update(ctx context.Context, app *Application) (*Application, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE applications
		 SET name = $2, repository = NULLIF($3, ''), environment_id = $4, is_active = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+applicationColumns,
		app.ID, app.Name, app.Repository, app.EnvironmentID, app.IsActive)
	updated, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, httpx.ErrDuplicate
		}
		return nil, err
	}
	return updated, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
