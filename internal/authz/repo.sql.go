package authz

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/db"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

// FindPrincipalByEmail fetches a principal by email, case-insensitively.
func (r *PGRepository) FindPrincipalByEmail(ctx context.Context, email string) (*Principal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, display_name, is_active, profile_id FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email))
	var principal Principal
	if err := row.Scan(&principal.ID, &principal.Email, &principal.DisplayName, &principal.IsActive, &principal.ProfileID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &principal, nil
}

// FindProfileByID fetches a profile by ID.
func (r *PGRepository) FindProfileByID(ctx context.Context, id int64) (*Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, code, label, is_admin, is_active FROM profiles WHERE id = $1`, id)
	var profile Profile
	if err := row.Scan(&profile.ID, &profile.Code, &profile.Label, &profile.IsAdmin, &profile.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindPermissionsByProfile returns all permissions assigned to a profile.
func (r *PGRepository) FindPermissionsByProfile(ctx context.Context, profileID int64) ([]Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.code, p.action, p.menu_id, p.environment_id, p.project_id
		 FROM permissions p
		 JOIN profile_permissions pp ON pp.permission_id = p.id
		 WHERE pp.profile_id = $1
		 ORDER BY p.code`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []Permission
	for rows.Next() {
		var perm Permission
		if err := rows.Scan(&perm.ID, &perm.Code, &perm.Action, &perm.MenuID, &perm.EnvironmentID, &perm.ProjectID); err != nil {
			return nil, err
		}
		permissions = append(permissions, perm)
	}
	return permissions, rows.Err()
}

// FindActiveEnvironmentTypes returns every active environment type.
func (r *PGRepository) FindActiveEnvironmentTypes(ctx context.Context) ([]EnvironmentTypeRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, label, is_active FROM environment_types WHERE is_active ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var envTypes []EnvironmentTypeRef
	for rows.Next() {
		var envType EnvironmentTypeRef
		if err := rows.Scan(&envType.ID, &envType.Code, &envType.Label, &envType.IsActive); err != nil {
			return nil, err
		}
		envTypes = append(envTypes, envType)
	}
	return envTypes, rows.Err()
}

// FindEnvironmentTypeByCode fetches an environment type by its code.
func (r *PGRepository) FindEnvironmentTypeByCode(ctx context.Context, code string) (*EnvironmentTypeRef, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, code, label, is_active FROM environment_types WHERE code = $1`,
		strings.ToUpper(strings.TrimSpace(code)))
	var envType EnvironmentTypeRef
	if err := row.Scan(&envType.ID, &envType.Code, &envType.Label, &envType.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &envType, nil
}

// FindProjectsByEnvironmentType returns the live projects associated with an
// environment type.
func (r *PGRepository) FindProjectsByEnvironmentType(ctx context.Context, environmentTypeID int64) ([]ProjectRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pr.id, pr.name
		 FROM projects pr
		 JOIN project_environment_types pet ON pet.project_id = pr.id
		 WHERE pet.environment_type_id = $1 AND pr.deleted_at IS NULL
		 ORDER BY pr.name`, environmentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []ProjectRef
	for rows.Next() {
		var project ProjectRef
		if err := rows.Scan(&project.ID, &project.Name); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// WithTx runs fn inside a single RepeatableRead transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTxRepository{tx: tx})
	})
}

type pgTxRepository struct {
	tx pgx.Tx
}

var _ TxRepository = (*pgTxRepository)(nil)

// DeleteAssignmentsByProfile removes every assignment of the profile.
func (r *pgTxRepository) DeleteAssignmentsByProfile(ctx context.Context, profileID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM profile_permissions WHERE profile_id = $1`, profileID)
	return err
}

// FindPermissionByCode fetches a permission row by its code.
func (r *pgTxRepository) FindPermissionByCode(ctx context.Context, code string) (*Permission, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT id, code, action, menu_id, environment_id, project_id FROM permissions WHERE code = $1`, code)
	var perm Permission
	if err := row.Scan(&perm.ID, &perm.Code, &perm.Action, &perm.MenuID, &perm.EnvironmentID, &perm.ProjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &perm, nil
}

// SavePermission inserts a permission row, reusing an existing row with the
// same code. Permission rows are shared between profiles and never
// duplicated.
func (r *pgTxRepository) SavePermission(ctx context.Context, perm Permission) (*Permission, error) {
	row := r.tx.QueryRow(ctx,
		`INSERT INTO permissions (code, action) VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET action = EXCLUDED.action
		 RETURNING id, code, action, menu_id, environment_id, project_id`,
		perm.Code, perm.Action)
	var saved Permission
	if err := row.Scan(&saved.ID, &saved.Code, &saved.Action, &saved.MenuID, &saved.EnvironmentID, &saved.ProjectID); err != nil {
		return nil, err
	}
	return &saved, nil
}

// SaveAssignment creates an assignment between a profile and a permission.
func (r *pgTxRepository) SaveAssignment(ctx context.Context, profileID, permissionID int64) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO profile_permissions (profile_id, permission_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, profileID, permissionID)
	return err
}
