package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileIDRef(id int64) *int64 { return &id }

func TestLoaderLoad(t *testing.T) {
	repo := newMockRepository()
	repo.addProfile(Profile{ID: 1, Code: "DEV", Label: "Developer", IsActive: true})
	repo.addPrincipal(Principal{ID: 10, Email: "dev@example.com", DisplayName: "Dev", IsActive: true, ProfileID: profileIDRef(1)})
	repo.grant(1, "ENV_EDITION_CONSULT")
	repo.grant(1, "ENV_EDITION_UPDATE")

	loader := NewLoader(repo)
	id, err := loader.Load(context.Background(), "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), id.Principal.ID)
	assert.Equal(t, "DEV", id.Profile.Code)
	assert.False(t, id.IsAdmin())
	assert.Equal(t, []string{"ENV_EDITION_CONSULT", "ENV_EDITION_UPDATE"}, id.Codes())
}

func TestLoaderLoadBlankClaim(t *testing.T) {
	loader := NewLoader(newMockRepository())
	for _, email := range []string{"", "   "} {
		_, err := loader.Load(context.Background(), email)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	}
}

func TestLoaderLoadUnknownPrincipal(t *testing.T) {
	loader := NewLoader(newMockRepository())
	_, err := loader.Load(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoaderLoadInactivePrincipal(t *testing.T) {
	repo := newMockRepository()
	repo.addProfile(Profile{ID: 1, Code: "DEV", IsActive: true})
	repo.addPrincipal(Principal{ID: 10, Email: "gone@example.com", IsActive: false, ProfileID: profileIDRef(1)})

	_, err := NewLoader(repo).Load(context.Background(), "gone@example.com")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoaderLoadPrincipalWithoutProfile(t *testing.T) {
	repo := newMockRepository()
	repo.addPrincipal(Principal{ID: 10, Email: "orphan@example.com", IsActive: true})

	_, err := NewLoader(repo).Load(context.Background(), "orphan@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLoaderLoadInactiveProfile(t *testing.T) {
	repo := newMockRepository()
	repo.addProfile(Profile{ID: 1, Code: "DEV", IsActive: false})
	repo.addPrincipal(Principal{ID: 10, Email: "dev@example.com", IsActive: true, ProfileID: profileIDRef(1)})

	_, err := NewLoader(repo).Load(context.Background(), "dev@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLoaderLoadNormalizesCodes(t *testing.T) {
	repo := newMockRepository()
	repo.addProfile(Profile{ID: 1, Code: "DEV", IsActive: true})
	repo.addPrincipal(Principal{ID: 10, Email: "dev@example.com", IsActive: true, ProfileID: profileIDRef(1)})
	repo.grant(1, "  env_edition_consult ")
	repo.grant(1, "ENV_EDITION_CONSULT")
	repo.grant(1, "   ")

	id, err := NewLoader(repo).Load(context.Background(), "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ENV_EDITION_CONSULT"}, id.Codes())
}

func TestLoaderLoadAdminSkipsPermissionRows(t *testing.T) {
	repo := newMockRepository()
	repo.addProfile(Profile{ID: 1, Code: "ADMIN", IsAdmin: true, IsActive: true})
	repo.addPrincipal(Principal{ID: 10, Email: "root@example.com", IsActive: true, ProfileID: profileIDRef(1)})

	id, err := NewLoader(repo).Load(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())
	assert.Empty(t, id.Codes())
	assert.Zero(t, repo.permissionLoadCalls)
}
