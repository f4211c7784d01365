package applications

import (
	"context"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
	"github.com/Bilalsajai1/envProject-sub000/internal/projects"
)

// RepositoryPort abstracts application persistence.
type RepositoryPort interface {
	ListByProject(ctx context.Context, projectID int64) ([]Application, error)
	FindByID(ctx context.Context, id int64) (*Application, error)
	Create(ctx context.Context, app *Application) (*Application, error)
	Update(ctx context.Context, app *Application) (*Application, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectPort resolves the owning project so application reads can reuse the
// project consult rule.
type ProjectPort interface {
	FindByID(ctx context.Context, id int64) (*projects.Project, error)
}

// Service holds application logic. Reads follow the owning project's consult
// rule; mutations require the global project grants.
type Service struct {
	repo     RepositoryPort
	projects ProjectPort
}

// NewService returns a new Service.
func NewService(repo RepositoryPort, projects ProjectPort) *Service {
	return &Service{repo: repo, projects: projects}
}

func (s *Service) consultProject(ctx context.Context, resolver authz.Resolver, projectID int64) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !resolver.CanConsultProject(project.Ref()) {
		return httpx.ErrNotFound
	}
	return nil
}

// ListByProject returns the applications of a consultable project.
func (s *Service) ListByProject(ctx context.Context, resolver authz.Resolver, projectID int64) ([]Application, error) {
	if err := s.consultProject(ctx, resolver, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// Get returns one application if its project is consultable.
func (s *Service) Get(ctx context.Context, resolver authz.Resolver, id int64) (*Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.consultProject(ctx, resolver, app.ProjectID); err != nil {
		return nil, err
	}
	return app, nil
}

// Create requires the global project UPDATE grant: registering an application
// changes the project's composition.
func (s *Service) Create(ctx context.Context, resolver authz.Resolver, app *Application) (*Application, error) {
	if !resolver.CanAccessProjectGlobally(authz.ActionUpdate) {
		return nil, httpx.ErrForbidden
	}
	app.Name = strings.TrimSpace(app.Name)
	if app.Name == "" {
		return nil, httpx.ErrValidation
	}
	app.IsActive = true
	return s.repo.Create(ctx, app)
}

// Update requires the global project UPDATE grant.
func (s *Service) Update(ctx context.Context, resolver authz.Resolver, app *Application) (*Application, error) {
	if !resolver.CanAccessProjectGlobally(authz.ActionUpdate) {
		return nil, httpx.ErrForbidden
	}
	app.Name = strings.TrimSpace(app.Name)
	if app.Name == "" {
		return nil, httpx.ErrValidation
	}
	return s.repo.Update(ctx, app)
}

// Delete requires the global project UPDATE grant.
func (s *Service) Delete(ctx context.Context, resolver authz.Resolver, id int64) error {
	if !resolver.CanAccessProjectGlobally(authz.ActionUpdate) {
		return httpx.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
