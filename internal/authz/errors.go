package authz

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated means no valid principal could be resolved from the
	// request credentials.
	ErrUnauthenticated = errors.New("authz: authentication required")
	// ErrForbidden means the principal was resolved but is not allowed to
	// proceed, including the case of a principal without a profile.
	ErrForbidden = errors.New("authz: access denied")
	// ErrNotFound means a referenced profile or permission does not exist.
	ErrNotFound = errors.New("authz: not found")
	// ErrAdminProfile means a permission declaration was submitted for an
	// admin profile, whose permissions are implicit and not editable.
	ErrAdminProfile = errors.New("authz: admin profile permissions are implicit")
)

// InvalidScopeError reports every unknown or inactive environment type code
// found in a permission declaration. The declaration is rejected wholesale.
type InvalidScopeError struct {
	Codes []string
}

func (e *InvalidScopeError) Error() string {
	return "authz: unknown environment type codes: " + strings.Join(e.Codes, ", ")
}

// InvalidActionError reports every declared action outside the closed action
// set. The declaration is rejected wholesale.
type InvalidActionError struct {
	Actions []string
}

func (e *InvalidActionError) Error() string {
	return "authz: unknown actions: " + strings.Join(e.Actions, ", ")
}
