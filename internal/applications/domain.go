package applications

import "time"

// Application is a deployable component registered under a project, optionally
// pinned to one of the project's environments.
type Application struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Repository    string    `json:"repository,omitempty"`
	ProjectID     int64     `json:"project_id"`
	EnvironmentID *int64    `json:"environment_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
