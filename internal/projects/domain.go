package projects

import (
	"time"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
)

// Project groups environments and applications under one delivery effort.
// Each project is associated with the environment types it may host.
type Project struct {
	ID               int64                      `json:"id"`
	Name             string                     `json:"name"`
	Description      string                     `json:"description,omitempty"`
	EnvironmentTypes []authz.EnvironmentTypeRef `json:"environment_types"`
	IsActive         bool                       `json:"is_active"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// Ref converts the project to its authorization view.
func (p *Project) Ref() *authz.ProjectRef {
	return &authz.ProjectRef{
		ID:               p.ID,
		Name:             p.Name,
		EnvironmentTypes: p.EnvironmentTypes,
	}
}
