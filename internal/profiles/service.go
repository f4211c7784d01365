package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

// RepositoryPort defines data access methods for profiles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Profile, error)
	FindByID(ctx context.Context, id int64) (*Profile, error)
	Create(ctx context.Context, profile Profile) (*Profile, error)
	Update(ctx context.Context, profile Profile) (*Profile, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles profile business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all profiles.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

// Get fetches one profile.
func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new profile.
func (s *Service) Create(ctx context.Context, code, label string, isAdmin bool) (*Profile, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: profile code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(label) == "" {
		label = code
	}
	return s.repo.Create(ctx, Profile{Code: code, Label: strings.TrimSpace(label), IsAdmin: isAdmin, IsActive: true})
}

// Update changes the label, admin flag and active flag of a profile.
func (s *Service) Update(ctx context.Context, id int64, label string, isAdmin, isActive bool) (*Profile, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Label = strings.TrimSpace(label)
	if existing.Label == "" {
		existing.Label = existing.Code
	}
	existing.IsAdmin = isAdmin
	existing.IsActive = isActive
	return s.repo.Update(ctx, *existing)
}

// Delete removes a profile. Its permission assignments go with it; shared
// permission rows stay.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
