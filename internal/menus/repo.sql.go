package menus

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

const menuColumns = `id, label, path, icon, parent_id, sort_order, is_active, created_at, updated_at`

// PGRepository persists menus in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

var _ RepositoryPort = (*PGRepository)(nil)

// NewRepository returns a new PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func scanMenu(row pgx.Row) (*Menu, error) {
	var (
		m    Menu
		path *string
		icon *string
	)
	if err := row.Scan(&m.ID, &m.Label, &path, &icon, &m.ParentID, &m.SortOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if path != nil {
		m.Path = *path
	}
	if icon != nil {
		m.Icon = *icon
	}
	return &m, nil
}

func (r *PGRepository) List(ctx context.Context) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY sort_order, label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Menu, error) {
	m, err := scanMenu(r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *PGRepository) Create(ctx context.Context, menu *Menu) (*Menu, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO menus (label, path, icon, parent_id, sort_order, is_active)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6)
		 RETURNING `+menuColumns,
		menu.Label, menu.Path, menu.Icon, menu.ParentID, menu.SortOrder, menu.IsActive)
	created, err := scanMenu(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, httpx.ErrValidation
		}
		return nil, err
	}
	return created, nil
}

func (r *PGRepository) Update(ctx context.Context, menu *Menu) (*Menu, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE menus
		 SET label = $2, path = NULLIF($3, ''), icon = NULLIF($4, ''), parent_id = $5, sort_order = $6, is_active = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+menuColumns,
		menu.ID, menu.Label, menu.Path, menu.Icon, menu.ParentID, menu.SortOrder, menu.IsActive)
	updated, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, httpx.ErrValidation
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a menu; child menus keep existing with parent_id reset by
// the FK's ON DELETE SET NULL.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
