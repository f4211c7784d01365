package envtypes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

// RepositoryPort defines data access methods for environment types.
type RepositoryPort interface {
	List(ctx context.Context) ([]EnvironmentType, error)
	FindByID(ctx context.Context, id int64) (*EnvironmentType, error)
	Create(ctx context.Context, envType EnvironmentType) (*EnvironmentType, error)
	Update(ctx context.Context, envType EnvironmentType) (*EnvironmentType, error)
}

// Service handles environment type business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all environment types.
func (s *Service) List(ctx context.Context) ([]EnvironmentType, error) {
	return s.repo.List(ctx)
}

// Get fetches one environment type.
func (s *Service) Get(ctx context.Context, id int64) (*EnvironmentType, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new environment type. The code becomes part
// of permission codes, so it is normalized and checked here once; nothing
// downstream ever re-validates it.
func (s *Service) Create(ctx context.Context, code, label string) (*EnvironmentType, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(label) == "" {
		label = code
	}
	return s.repo.Create(ctx, EnvironmentType{Code: code, Label: strings.TrimSpace(label), IsActive: true})
}

// Update changes the label and active flag. The code is immutable: permission
// codes referencing it are stored denormalized and would go stale.
func (s *Service) Update(ctx context.Context, id int64, label string, isActive bool) (*EnvironmentType, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Label = strings.TrimSpace(label)
	if existing.Label == "" {
		existing.Label = existing.Code
	}
	existing.IsActive = isActive
	return s.repo.Update(ctx, *existing)
}

// NormalizeCode uppercases and validates an environment type code.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: environment type code is required", httpx.ErrValidation)
	}
	if strings.Contains(code, "_") {
		return "", fmt.Errorf("%w: environment type code %q must not contain '_'", httpx.ErrValidation, code)
	}
	return code, nil
}
