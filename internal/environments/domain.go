package environments

import (
	"time"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
)

// Environment is a deployable target inside a project. Access control never
// targets a single environment; it always goes through the owning type.
type Environment struct {
	ID        int64                     `json:"id"`
	Name      string                    `json:"name"`
	URL       string                    `json:"url,omitempty"`
	ProjectID int64                     `json:"project_id"`
	Type      *authz.EnvironmentTypeRef `json:"type,omitempty"`
	IsActive  bool                      `json:"is_active"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Ref converts the environment to its authorization view.
func (e *Environment) Ref() *authz.EnvironmentRef {
	return &authz.EnvironmentRef{
		ID:   e.ID,
		Name: e.Name,
		Type: e.Type,
	}
}
