package authz

import "strings"

// Resolver answers boolean access questions against one loaded Identity.
// Every method is side-effect free and returns consistent results for the
// lifetime of the identity snapshot. A nil identity denies everything.
type Resolver struct {
	id *Identity
}

// NewResolver wraps an Identity for decision making.
func NewResolver(id *Identity) Resolver {
	return Resolver{id: id}
}

// IsAdmin reports whether the identity bypasses every permission check.
func (r Resolver) IsAdmin() bool {
	return r.id.IsAdmin()
}

// grants is the single admin bypass point. Scope-specific methods build a
// code and funnel through here, so the short-circuit is written exactly once.
func (r Resolver) grants(code string) bool {
	if r.id == nil {
		return false
	}
	if r.id.IsAdmin() {
		return true
	}
	return r.id.hasCode(code)
}

// HasPermissionCode tests a raw permission code against the identity.
func (r Resolver) HasPermissionCode(code string) bool {
	return r.grants(strings.ToUpper(strings.TrimSpace(code)))
}

// CanAccessEnvironmentType reports whether the action is allowed on every
// environment of the given type.
func (r Resolver) CanAccessEnvironmentType(typeCode string, action Action) bool {
	return r.grants(EncodeCode(EnvironmentTypeScope(typeCode), action))
}

// CanAccessEnvironment resolves environment access through the owning
// environment type; there is no per-instance grant. An environment without a
// type fails closed for non-admins.
func (r Resolver) CanAccessEnvironment(env *EnvironmentRef, action Action) bool {
	if r.IsAdmin() {
		return true
	}
	if env == nil || env.Type == nil || env.Type.Code == "" {
		return false
	}
	return r.CanAccessEnvironmentType(env.Type.Code, action)
}

// CanAccessProjectGlobally tests the action against the global project scope.
func (r Resolver) CanAccessProjectGlobally(action Action) bool {
	return r.grants(EncodeCode(ProjectScope(), action))
}

// CanAccessEnvironmentGlobally tests the action against the global
// environment scope.
func (r Resolver) CanAccessEnvironmentGlobally(action Action) bool {
	return r.grants(EncodeCode(EnvironmentScope(), action))
}

// CanConsultProject reports whether the project may be read. A global CONSULT
// grant suffices, and so does a CREATE grant on any of the project's
// environment types: being allowed to create environments there implies
// seeing the project they attach to.
func (r Resolver) CanConsultProject(project *ProjectRef) bool {
	if r.IsAdmin() {
		return true
	}
	if project == nil {
		return false
	}
	if r.CanAccessProjectGlobally(ActionConsult) {
		return true
	}
	for _, envType := range project.EnvironmentTypes {
		if r.CanAccessEnvironmentType(envType.Code, ActionCreate) {
			return true
		}
	}
	return false
}
