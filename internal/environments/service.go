package environments

import (
	"context"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

// RepositoryPort abstracts environment persistence.
type RepositoryPort interface {
	ListByProject(ctx context.Context, projectID int64) ([]Environment, error)
	FindByID(ctx context.Context, id int64) (*Environment, error)
	Create(ctx context.Context, projectID, typeID int64, name, url string) (*Environment, error)
	Update(ctx context.Context, id int64, name, url string, isActive bool) (*Environment, error)
	Delete(ctx context.Context, id int64) error
}

// Service holds environment logic. Every decision delegates to the owning
// environment type, with the global environment scope as a fallback for
// mutations.
type Service struct {
	repo RepositoryPort
}

// NewService returns a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListByProject returns the environments of a project the resolver may
// consult, one decision per owning type.
func (s *Service) ListByProject(ctx context.Context, resolver authz.Resolver, projectID int64) ([]Environment, error) {
	all, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	visible := make([]Environment, 0, len(all))
	for _, env := range all {
		if resolver.CanAccessEnvironment(env.Ref(), authz.ActionConsult) {
			visible = append(visible, env)
		}
	}
	return visible, nil
}

// Get returns one environment if the resolver may consult it.
func (s *Service) Get(ctx context.Context, resolver authz.Resolver, id int64) (*Environment, error) {
	env, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resolver.CanAccessEnvironment(env.Ref(), authz.ActionConsult) {
		return nil, httpx.ErrNotFound
	}
	return env, nil
}

// Create requires CREATE on the target type or the global environment scope.
func (s *Service) Create(ctx context.Context, resolver authz.Resolver, projectID, typeID int64, typeCode, name, url string) (*Environment, error) {
	if !resolver.CanAccessEnvironmentType(typeCode, authz.ActionCreate) &&
		!resolver.CanAccessEnvironmentGlobally(authz.ActionCreate) {
		return nil, httpx.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httpx.ErrValidation
	}
	return s.repo.Create(ctx, projectID, typeID, name, strings.TrimSpace(url))
}

// Update requires UPDATE through the owning type or the global scope.
func (s *Service) Update(ctx context.Context, resolver authz.Resolver, id int64, name, url string, isActive bool) (*Environment, error) {
	env, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resolver.CanAccessEnvironment(env.Ref(), authz.ActionUpdate) &&
		!resolver.CanAccessEnvironmentGlobally(authz.ActionUpdate) {
		return nil, httpx.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httpx.ErrValidation
	}
	return s.repo.Update(ctx, id, name, strings.TrimSpace(url), isActive)
}

// Delete requires DELETE through the owning type or the global scope.
func (s *Service) Delete(ctx context.Context, resolver authz.Resolver, id int64) error {
	env, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !resolver.CanAccessEnvironment(env.Ref(), authz.ActionDelete) &&
		!resolver.CanAccessEnvironmentGlobally(authz.ActionDelete) {
		return httpx.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
