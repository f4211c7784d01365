package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregatorFixture() (*Aggregator, *mockRepository) {
	repo := newMockRepository()
	repo.addEnvType(EnvironmentTypeRef{ID: 1, Code: "CLIENT", Label: "Client", IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 2, Code: "EDITION", Label: "Edition", IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 3, Code: "INTEGRATION", Label: "Integration", IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 4, Code: "RETIRED", Label: "Retired", IsActive: false})
	return NewAggregator(repo), repo
}

func TestAggregatorConsultOnlyProfile(t *testing.T) {
	agg, _ := aggregatorFixture()

	id := devIdentity("ENV_EDITION_CONSULT", "ENV_INTEGRATION_CONSULT", "ENV_CLIENT_CONSULT")
	got, err := agg.Build(context.Background(), id)
	require.NoError(t, err)

	require.Len(t, got.EnvironmentTypes, 3)
	for _, grant := range got.EnvironmentTypes {
		assert.Equal(t, []Action{ActionConsult}, grant.Actions, "type %s", grant.Code)
	}
	assert.Equal(t, []string{"CLIENT", "EDITION", "INTEGRATION"},
		[]string{got.EnvironmentTypes[0].Code, got.EnvironmentTypes[1].Code, got.EnvironmentTypes[2].Code})
}

func TestAggregatorOmitsEmptyTypes(t *testing.T) {
	agg, _ := aggregatorFixture()

	got, err := agg.Build(context.Background(), devIdentity("ENV_EDITION_UPDATE"))
	require.NoError(t, err)

	require.Len(t, got.EnvironmentTypes, 1)
	assert.Equal(t, "EDITION", got.EnvironmentTypes[0].Code)
	assert.Equal(t, []Action{ActionUpdate}, got.EnvironmentTypes[0].Actions)
}

func TestAggregatorAdminSeesEverything(t *testing.T) {
	agg, repo := aggregatorFixture()
	repo.projectsByType[2] = []ProjectRef{{ID: 7, Name: "atlas"}}

	got, err := agg.Build(context.Background(), adminIdentity())
	require.NoError(t, err)

	assert.True(t, got.Principal.IsAdmin)
	// Every active type appears with the full action set, inactive ones do not.
	require.Len(t, got.EnvironmentTypes, 3)
	for _, grant := range got.EnvironmentTypes {
		assert.NotEqual(t, "RETIRED", grant.Code)
		assert.Equal(t, Actions(), grant.Actions, "type %s", grant.Code)
	}
	require.Len(t, got.EnvironmentTypes[1].Projects, 1)
	assert.Equal(t, Actions(), got.EnvironmentTypes[1].Projects[0].Actions)
}

func TestAggregatorProjectActions(t *testing.T) {
	agg, repo := aggregatorFixture()
	repo.projectsByType[2] = []ProjectRef{{ID: 7, Name: "atlas"}, {ID: 8, Name: "zephyr"}}

	id := devIdentity("ENV_EDITION_CONSULT", "PROJECT_CREATE")
	got, err := agg.Build(context.Background(), id)
	require.NoError(t, err)

	require.Len(t, got.EnvironmentTypes, 1)
	grant := got.EnvironmentTypes[0]
	assert.Equal(t, "EDITION", grant.Code)
	require.Len(t, grant.Projects, 2)
	for _, project := range grant.Projects {
		// Type-level CONSULT plus global project CREATE combine per project.
		assert.ElementsMatch(t, []Action{ActionConsult, ActionCreate}, project.Actions)
	}
}

func TestAggregatorPrincipalSummary(t *testing.T) {
	agg, _ := aggregatorFixture()

	id := devIdentity("PROJECT_CONSULT")
	got, err := agg.Build(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id.Principal.ID, got.Principal.ID)
	assert.Equal(t, "dev@example.com", got.Principal.Email)
	assert.Equal(t, "DEV", got.Principal.Profile)
	assert.Equal(t, []string{"PROJECT_CONSULT"}, got.Principal.Permissions)
	assert.Empty(t, got.EnvironmentTypes)
}
