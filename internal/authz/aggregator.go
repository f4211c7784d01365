package authz

import "context"

// PrincipalSummary identifies the principal inside an AuthContext payload.
type PrincipalSummary struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Profile     string   `json:"profile"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions []string `json:"permissions,omitempty"`
}

// ProjectGrant is one project with the actions allowed on it.
type ProjectGrant struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// EnvironmentTypeGrant is one environment type with the actions allowed on it
// and the reachable projects underneath.
type EnvironmentTypeGrant struct {
	Code     string         `json:"code"`
	Label    string         `json:"label"`
	Actions  []Action       `json:"actions"`
	Projects []ProjectGrant `json:"projects,omitempty"`
}

// AuthContext is the complete capability surface of one principal, used to
// bootstrap client-side gating. It is a read model; building it writes
// nothing.
type AuthContext struct {
	Principal        PrincipalSummary       `json:"principal"`
	EnvironmentTypes []EnvironmentTypeGrant `json:"environment_types"`
}

// Aggregator walks every active environment type and every action to compute
// the capability surface for one identity.
type Aggregator struct {
	repo Repository
}

// NewAggregator constructs an Aggregator.
func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Build computes the AuthContext for the identity. Environment types with an
// empty action subset are omitted unless the identity is admin; projects with
// an empty subset are always omitted (admins see the full set everywhere, so
// nothing of theirs is empty).
func (a *Aggregator) Build(ctx context.Context, id *Identity) (*AuthContext, error) {
	resolver := NewResolver(id)

	out := &AuthContext{
		Principal: PrincipalSummary{
			ID:          id.Principal.ID,
			Email:       id.Principal.Email,
			DisplayName: id.Principal.DisplayName,
			Profile:     id.Profile.Code,
			IsAdmin:     id.IsAdmin(),
			Permissions: id.Codes(),
		},
	}

	envTypes, err := a.repo.FindActiveEnvironmentTypes(ctx)
	if err != nil {
		return nil, err
	}

	for _, envType := range envTypes {
		var allowed []Action
		for _, action := range Actions() {
			if resolver.CanAccessEnvironmentType(envType.Code, action) {
				allowed = append(allowed, action)
			}
		}
		if len(allowed) == 0 && !resolver.IsAdmin() {
			continue
		}

		grant := EnvironmentTypeGrant{Code: envType.Code, Label: envType.Label, Actions: allowed}

		projects, err := a.repo.FindProjectsByEnvironmentType(ctx, envType.ID)
		if err != nil {
			return nil, err
		}
		for _, project := range projects {
			var projectActions []Action
			for _, action := range Actions() {
				if resolver.CanAccessProjectGlobally(action) || resolver.CanAccessEnvironmentType(envType.Code, action) {
					projectActions = append(projectActions, action)
				}
			}
			if len(projectActions) == 0 {
				continue
			}
			grant.Projects = append(grant.Projects, ProjectGrant{ID: project.ID, Name: project.Name, Actions: projectActions})
		}

		out.EnvironmentTypes = append(out.EnvironmentTypes, grant)
	}

	return out, nil
}
