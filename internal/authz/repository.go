package authz

import "context"

// Repository defines the persistence surface the core reads from. Lookups
// return ErrNotFound when nothing matches.
type Repository interface {
	FindPrincipalByEmail(ctx context.Context, email string) (*Principal, error)
	FindProfileByID(ctx context.Context, id int64) (*Profile, error)
	FindPermissionsByProfile(ctx context.Context, profileID int64) ([]Permission, error)
	FindActiveEnvironmentTypes(ctx context.Context) ([]EnvironmentTypeRef, error)
	FindEnvironmentTypeByCode(ctx context.Context, code string) (*EnvironmentTypeRef, error)
	FindProjectsByEnvironmentType(ctx context.Context, environmentTypeID int64) ([]ProjectRef, error)

	// WithTx runs fn against a transactional view of the permission tables.
	// Everything fn does is committed atomically, or not at all.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
}

// TxRepository is the write surface available inside one transaction. It is
// only reachable through Repository.WithTx.
type TxRepository interface {
	DeleteAssignmentsByProfile(ctx context.Context, profileID int64) error
	FindPermissionByCode(ctx context.Context, code string) (*Permission, error)
	SavePermission(ctx context.Context, perm Permission) (*Permission, error)
	SaveAssignment(ctx context.Context, profileID, permissionID int64) error
}
