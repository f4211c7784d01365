package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

type mockRepo struct {
	projects map[int64]*Project
	nextID   int64
	deleted  []int64
}

var _ RepositoryPort = (*mockRepo)(nil)

func newMockRepo() *mockRepo {
	return &mockRepo{projects: map[int64]*Project{}, nextID: 1}
}

func (m *mockRepo) add(name string, typeCodes ...string) *Project {
	p := &Project{ID: m.nextID, Name: name, IsActive: true}
	for i, code := range typeCodes {
		p.EnvironmentTypes = append(p.EnvironmentTypes, authz.EnvironmentTypeRef{
			ID:       int64(i + 1),
			Code:     code,
			IsActive: true,
		})
	}
	m.projects[p.ID] = p
	m.nextID++
	return p
}

func (m *mockRepo) List(ctx context.Context) ([]Project, error) {
	out := make([]Project, 0, len(m.projects))
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Create(ctx context.Context, name, description string, envTypeIDs []int64) (*Project, error) {
	p := &Project{ID: m.nextID, Name: name, Description: description, IsActive: true}
	m.projects[p.ID] = p
	m.nextID++
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, name, description string, isActive bool, envTypeIDs []int64) (*Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	p.Name, p.Description, p.IsActive = name, description, isActive
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.projects[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.projects, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func resolverWith(codes ...string) authz.Resolver {
	id := authz.NewIdentity(
		authz.Principal{ID: 7, Email: "dev@example.com", IsActive: true},
		authz.Profile{ID: 1, Code: "DEV", IsActive: true},
		codes,
	)
	return authz.NewResolver(id)
}

func adminResolver() authz.Resolver {
	id := authz.NewIdentity(
		authz.Principal{ID: 1, Email: "root@example.com", IsActive: true},
		authz.Profile{ID: 9, Code: "ADMIN", IsAdmin: true, IsActive: true},
		nil,
	)
	return authz.NewResolver(id)
}

func TestListFiltersByConsultability(t *testing.T) {
	repo := newMockRepo()
	repo.add("billing", "EDITION")
	repo.add("gateway", "INTEGRATION")
	repo.add("portal", "CLIENT")
	svc := NewService(repo)

	// CREATE on EDITION makes billing visible; nothing else is.
	visible, err := svc.List(context.Background(), resolverWith("ENV_EDITION_CREATE"))
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "billing", visible[0].Name)

	// A global consult grant reveals every project.
	visible, err = svc.List(context.Background(), resolverWith("PROJECT_CONSULT"))
	require.NoError(t, err)
	assert.Len(t, visible, 3)

	visible, err = svc.List(context.Background(), adminResolver())
	require.NoError(t, err)
	assert.Len(t, visible, 3)
}

func TestGetHidesUnconsultableProjects(t *testing.T) {
	repo := newMockRepo()
	p := repo.add("billing", "EDITION")
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), resolverWith("ENV_CLIENT_CREATE"), p.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	got, err := svc.Get(context.Background(), resolverWith("ENV_EDITION_CREATE"), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestMutationsRequireGlobalGrants(t *testing.T) {
	repo := newMockRepo()
	p := repo.add("billing", "EDITION")
	svc := NewService(repo)
	ctx := context.Background()

	// Type-level grants never authorize project mutations.
	_, err := svc.Create(ctx, resolverWith("ENV_EDITION_CREATE"), "new", "", nil)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	_, err = svc.Update(ctx, resolverWith("PROJECT_CONSULT"), p.ID, "renamed", "", true, nil)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	err = svc.Delete(ctx, resolverWith("PROJECT_UPDATE"), p.ID)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	created, err := svc.Create(ctx, resolverWith("PROJECT_CREATE"), "new", "desc", nil)
	require.NoError(t, err)
	assert.Equal(t, "new", created.Name)

	updated, err := svc.Update(ctx, resolverWith("PROJECT_UPDATE"), p.ID, "renamed", "", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	require.NoError(t, svc.Delete(ctx, adminResolver(), p.ID))
	assert.Equal(t, []int64{p.ID}, repo.deleted)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Create(context.Background(), adminResolver(), "   ", "", nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
