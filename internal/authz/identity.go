package authz

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Identity is the fully resolved security context for one request. It is
// built once at the boundary, treated as immutable afterwards, and never
// shared across requests.
type Identity struct {
	Principal Principal
	Profile   Profile
	codes     map[string]struct{}
}

// IsAdmin reports whether the identity's profile bypasses permission checks.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Profile.IsAdmin
}

// Codes returns the loaded permission codes in sorted order. Admin identities
// carry no explicit codes.
func (id *Identity) Codes() []string {
	if id == nil || len(id.codes) == 0 {
		return nil
	}
	codes := make([]string, 0, len(id.codes))
	for code := range id.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (id *Identity) hasCode(code string) bool {
	if id == nil {
		return false
	}
	_, ok := id.codes[code]
	return ok
}

// Loader materializes Identity snapshots from the permission store.
type Loader struct {
	repo Repository
}

// NewLoader constructs a Loader.
func NewLoader(repo Repository) *Loader {
	return &Loader{repo: repo}
}

// Load resolves the principal behind an authenticated email claim into a
// ready-to-use Identity. The claim must be non-blank and belong to an active
// principal, otherwise ErrUnauthenticated; a principal without a usable
// profile yields ErrForbidden.
func (l *Loader) Load(ctx context.Context, email string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUnauthenticated
	}

	principal, err := l.repo.FindPrincipalByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !principal.IsActive {
		return nil, ErrUnauthenticated
	}
	if principal.ProfileID == nil {
		return nil, ErrForbidden
	}

	profile, err := l.repo.FindProfileByID(ctx, *principal.ProfileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrForbidden
	}

	identity := &Identity{
		Principal: *principal,
		Profile:   *profile,
		codes:     make(map[string]struct{}),
	}

	// Admin profiles never consult explicit permission rows.
	if profile.IsAdmin {
		return identity, nil
	}

	permissions, err := l.repo.FindPermissionsByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	for _, perm := range permissions {
		code := strings.ToUpper(strings.TrimSpace(perm.Code))
		if code == "" {
			continue
		}
		identity.codes[code] = struct{}{}
	}
	return identity, nil
}

// NewIdentity assembles an Identity directly from its parts. Intended for
// tests and seed tooling; request handling goes through Loader.Load.
func NewIdentity(principal Principal, profile Profile, codes []string) *Identity {
	id := &Identity{Principal: principal, Profile: profile, codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		id.codes[code] = struct{}{}
	}
	return id
}
