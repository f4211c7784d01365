package menus

import (
	"context"
	"strings"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

// RepositoryPort abstracts menu persistence.
type RepositoryPort interface {
	List(ctx context.Context) ([]Menu, error)
	FindByID(ctx context.Context, id int64) (*Menu, error)
	Create(ctx context.Context, menu *Menu) (*Menu, error)
	Update(ctx context.Context, menu *Menu) (*Menu, error)
	Delete(ctx context.Context, id int64) error
}

// Service holds menu logic. Menus are administered by admins only; the gating
// sits on the route group.
type Service struct {
	repo RepositoryPort
}

// NewService returns a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Tree returns all menus as a nested tree ordered by sort_order.
func (s *Service) Tree(ctx context.Context) ([]Menu, error) {
	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return buildTree(flat), nil
}

// Get returns one menu.
func (s *Service) Get(ctx context.Context, id int64) (*Menu, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a menu entry.
func (s *Service) Create(ctx context.Context, menu *Menu) (*Menu, error) {
	menu.Label = strings.TrimSpace(menu.Label)
	if menu.Label == "" {
		return nil, httpx.ErrValidation
	}
	menu.IsActive = true
	return s.repo.Create(ctx, menu)
}

// Update changes a menu entry. Re-parenting a menu under itself is rejected.
func (s *Service) Update(ctx context.Context, menu *Menu) (*Menu, error) {
	menu.Label = strings.TrimSpace(menu.Label)
	if menu.Label == "" {
		return nil, httpx.ErrValidation
	}
	if menu.ParentID != nil && *menu.ParentID == menu.ID {
		return nil, httpx.ErrValidation
	}
	return s.repo.Update(ctx, menu)
}

// Delete removes a menu entry. Children are re-rooted by the FK.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func buildTree(flat []Menu) []Menu {
	byParent := map[int64][]Menu{}
	var roots []Menu
	for _, m := range flat {
		if m.ParentID == nil {
			roots = append(roots, m)
			continue
		}
		byParent[*m.ParentID] = append(byParent[*m.ParentID], m)
	}
	var attach func(m *Menu)
	attach = func(m *Menu) {
		m.Children = byParent[m.ID]
		for i := range m.Children {
			attach(&m.Children[i])
		}
	}
	for i := range roots {
		attach(&roots[i])
	}
	return roots
}
