package menus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

type mockRepo struct {
	menus  map[int64]*Menu
	nextID int64
}

var _ RepositoryPort = (*mockRepo)(nil)

func newMockRepo() *mockRepo {
	return &mockRepo{menus: map[int64]*Menu{}, nextID: 1}
}

func (m *mockRepo) add(label string, parentID *int64, sortOrder int) *Menu {
	menu := &Menu{ID: m.nextID, Label: label, ParentID: parentID, SortOrder: sortOrder, IsActive: true}
	m.menus[menu.ID] = menu
	m.nextID++
	return menu
}

func (m *mockRepo) List(ctx context.Context) ([]Menu, error) {
	var out []Menu
	for id := int64(1); id < m.nextID; id++ {
		if menu, ok := m.menus[id]; ok {
			out = append(out, *menu)
		}
	}
	return out, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*Menu, error) {
	menu, ok := m.menus[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	cp := *menu
	return &cp, nil
}

func (m *mockRepo) Create(ctx context.Context, menu *Menu) (*Menu, error) {
	menu.ID = m.nextID
	m.menus[menu.ID] = menu
	m.nextID++
	cp := *menu
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, menu *Menu) (*Menu, error) {
	if _, ok := m.menus[menu.ID]; !ok {
		return nil, httpx.ErrNotFound
	}
	m.menus[menu.ID] = menu
	cp := *menu
	return &cp, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.menus[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.menus, id)
	return nil
}

func ptr(v int64) *int64 { return &v }

func TestTreeNestsChildren(t *testing.T) {
	repo := newMockRepo()
	root := repo.add("Administration", nil, 1)
	child := repo.add("Profiles", ptr(root.ID), 1)
	repo.add("Users", ptr(root.ID), 2)
	repo.add("Grants", ptr(child.ID), 1)
	repo.add("Projects", nil, 2)

	tree, err := NewService(repo).Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Administration", tree[0].Label)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Profiles", tree[0].Children[0].Label)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Grants", tree[0].Children[0].Children[0].Label)
	assert.Empty(t, tree[1].Children)
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	repo := newMockRepo()
	menu := repo.add("Administration", nil, 1)

	_, err := NewService(repo).Update(context.Background(), &Menu{ID: menu.ID, Label: "Administration", ParentID: ptr(menu.ID)})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsBlankLabel(t *testing.T) {
	_, err := NewService(newMockRepo()).Create(context.Background(), &Menu{Label: "  "})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
