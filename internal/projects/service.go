package projects

import (
	"context"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

// RepositoryPort abstracts project persistence.
type RepositoryPort interface {
	List(ctx context.Context) ([]Project, error)
	FindByID(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, name, description string, envTypeIDs []int64) (*Project, error)
	Update(ctx context.Context, id int64, name, description string, isActive bool, envTypeIDs []int64) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

// Service holds project logic. Read access is decided per project so users
// only ever see the projects they can consult.
type Service struct {
	repo RepositoryPort
}

// NewService returns a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the projects the resolver may consult. A project is visible
// with a global CONSULT grant or a CREATE grant on one of its environment
// types; admins see everything.
func (s *Service) List(ctx context.Context, resolver authz.Resolver) ([]Project, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]Project, 0, len(all))
	for _, p := range all {
		if resolver.CanConsultProject(p.Ref()) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// Get returns one project if the resolver may consult it. Hidden projects
// read as not found so their existence does not leak.
func (s *Service) Get(ctx context.Context, resolver authz.Resolver, id int64) (*Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resolver.CanConsultProject(project.Ref()) {
		return nil, httpx.ErrNotFound
	}
	return project, nil
}

// Create requires the global project CREATE grant.
func (s *Service) Create(ctx context.Context, resolver authz.Resolver, name, description string, envTypeIDs []int64) (*Project, error) {
	if !resolver.CanAccessProjectGlobally(authz.ActionCreate) {
		return nil, httpx.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httpx.ErrValidation
	}
	return s.repo.Create(ctx, name, strings.TrimSpace(description), envTypeIDs)
}

// Update requires the global project UPDATE grant.
func (s *Service) Update(ctx context.Context, resolver authz.Resolver, id int64, name, description string, isActive bool, envTypeIDs []int64) (*Project, error) {
	if !resolver.CanAccessProjectGlobally(authz.ActionUpdate) {
		return nil, httpx.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httpx.ErrValidation
	}
	return s.repo.Update(ctx, id, name, strings.TrimSpace(description), isActive, envTypeIDs)
}

// Delete requires the global project DELETE grant.
func (s *Service) Delete(ctx context.Context, resolver authz.Resolver, id int64) error {
	if !resolver.CanAccessProjectGlobally(authz.ActionDelete) {
		return httpx.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
