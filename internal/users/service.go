package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
	"github.com/Bilalsajai1/envProject-sub000/internal/shared"
)

// RepositoryPort abstracts user persistence.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, email, displayName, passwordHash string, profileID *int64) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// Service holds user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService returns a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of users with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pag := shared.NewPagination(page, perPage, total)
	list, err := s.repo.List(ctx, pag.PerPage, pag.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, pag, nil
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create registers a new user with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, email, displayName, password string, profileID *int64) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, httpx.ErrValidation
	}
	if len(password) < 8 {
		return nil, httpx.ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, email, strings.TrimSpace(displayName), string(hash), profileID)
}

// Update changes the mutable fields of a user. The email is immutable once
// created because sessions and identity loading key on it.
func (s *Service) Update(ctx context.Context, id int64, displayName string, profileID *int64, isActive bool) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DisplayName = strings.TrimSpace(displayName)
	user.ProfileID = profileID
	user.IsActive = isActive
	return s.repo.Update(ctx, user)
}

// Deactivate soft deletes a user. Their sessions stop resolving on the next
// identity load.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	_, err = s.repo.Update(ctx, user)
	return err
}

// SetPassword replaces the stored password hash.
func (s *Service) SetPassword(ctx context.Context, id int64, password string) error {
	if len(password) < 8 {
		return httpx.ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}
