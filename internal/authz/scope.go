package authz

import "strings"

// ScopeKind discriminates the axis along which a permission applies.
type ScopeKind int

const (
	// ScopeEnvironmentType grants an action on every environment of one
	// environment type.
	ScopeEnvironmentType ScopeKind = iota
	// ScopeProjectGlobal grants an action on the project category as a whole.
	ScopeProjectGlobal
	// ScopeEnvironmentGlobal grants an action on the environment category as
	// a whole.
	ScopeEnvironmentGlobal
)

// Scope is the structured form of a permission's target. EnvironmentType is
// only meaningful when Kind is ScopeEnvironmentType.
type Scope struct {
	Kind            ScopeKind
	EnvironmentType string
}

// EnvironmentTypeScope builds a scope for one environment type. The code is
// normalized to uppercase; validity (known, active, no separator) is enforced
// where environment types are created, not here.
func EnvironmentTypeScope(code string) Scope {
	return Scope{
		Kind:            ScopeEnvironmentType,
		EnvironmentType: strings.ToUpper(strings.TrimSpace(code)),
	}
}

// ProjectScope builds the global project scope.
func ProjectScope() Scope {
	return Scope{Kind: ScopeProjectGlobal}
}

// EnvironmentScope builds the global environment scope.
func EnvironmentScope() Scope {
	return Scope{Kind: ScopeEnvironmentGlobal}
}
