package users

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bilalsajai1/envProject-sub000/internal/platform/httpx"
)

type mockRepo struct {
	users  map[int64]*User
	hashes map[int64]string
	nextID int64
}

var _ RepositoryPort = (*mockRepo)(nil)

func newMockRepo() *mockRepo {
	return &mockRepo{users: map[int64]*User{}, hashes: map[int64]string{}, nextID: 1}
}

func (m *mockRepo) sorted() []User {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]User, error) {
	all := m.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) Create(ctx context.Context, email, displayName, passwordHash string, profileID *int64) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return nil, httpx.ErrDuplicate
		}
	}
	u := &User{ID: m.nextID, Email: email, DisplayName: displayName, ProfileID: profileID, IsActive: true}
	m.users[u.ID] = u
	m.hashes[u.ID] = passwordHash
	m.nextID++
	cp := *u
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, user *User) (*User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return nil, httpx.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if _, ok := m.users[id]; !ok {
		return httpx.ErrNotFound
	}
	m.hashes[id] = passwordHash
	return nil
}

func TestCreateHashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), "  Dev@Example.COM ", "Dev", "s3cret-pass", nil)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[user.ID]), []byte("s3cret-pass")))

	_, err = svc.Create(context.Background(), "dev@example.com", "Dup", "s3cret-pass", nil)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)

	_, err = svc.Create(context.Background(), "short@example.com", "", "short", nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListPaginates(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Create(context.Background(), email, "", "password1", nil)
		require.NoError(t, err)
	}

	page, pagination, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c@example.com", page[0].Email)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)
}

func TestDeactivateSoftDeletes(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	user, err := svc.Create(context.Background(), "dev@example.com", "Dev", "password1", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), user.ID))
	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
