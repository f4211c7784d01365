package authz

import "time"

// Principal is a human user able to authenticate against the system.
type Principal struct {
	ID          int64
	Email       string
	DisplayName string
	IsActive    bool
	ProfileID   *int64
}

// Profile is a named permission bundle assigned to principals. An admin
// profile implicitly grants every action on every scope; no permission rows
// are consulted for it.
type Profile struct {
	ID       int64
	Code     string
	Label    string
	IsAdmin  bool
	IsActive bool
}

// Permission is an atomic grant. Code is the lossless encoding of the grant's
// (scope, action) pair; the optional references mirror the storage schema and
// are kept for instance-scoped rows.
type Permission struct {
	ID            int64
	Code          string
	Action        Action
	MenuID        *int64
	EnvironmentID *int64
	ProjectID     *int64
}

// Assignment ties a permission to a profile. At most one assignment exists
// per (profile, permission) pair.
type Assignment struct {
	ProfileID    int64
	PermissionID int64
	CreatedAt    time.Time
}

// EnvironmentTypeRef is the slice of an environment type the core consults.
type EnvironmentTypeRef struct {
	ID       int64
	Code     string
	Label    string
	IsActive bool
}

// ProjectRef is the slice of a project the core consults for instance-scoped
// decisions and aggregation.
type ProjectRef struct {
	ID               int64
	Name             string
	EnvironmentTypes []EnvironmentTypeRef
}

// EnvironmentRef is the slice of an environment the core consults. Access to
// an environment is always resolved through its owning type.
type EnvironmentRef struct {
	ID   int64
	Name string
	Type *EnvironmentTypeRef
}
