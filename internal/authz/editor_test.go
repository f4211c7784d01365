package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editorFixture() (*Editor, *mockRepository) {
	repo := newMockRepository()
	repo.addProfile(Profile{ID: 1, Code: "DEV", Label: "Developer", IsActive: true})
	repo.addProfile(Profile{ID: 2, Code: "ADMIN", Label: "Administrator", IsAdmin: true, IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 1, Code: "EDITION", Label: "Edition", IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 2, Code: "INTEGRATION", Label: "Integration", IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 3, Code: "CLIENT", Label: "Client", IsActive: true})
	repo.addEnvType(EnvironmentTypeRef{ID: 4, Code: "LEGACY", Label: "Legacy", IsActive: false})
	return NewEditor(repo, nil), repo
}

func TestEditorApplyEffectiveRoundTrip(t *testing.T) {
	editor, _ := editorFixture()

	decl := Declaration{
		EnvironmentTypes: map[string][]Action{
			"EDITION":     {ActionConsult, ActionUpdate},
			"INTEGRATION": {ActionConsult},
		},
		Project:     []Action{ActionConsult, ActionCreate},
		Environment: []Action{ActionConsult},
	}
	require.NoError(t, editor.Apply(context.Background(), 1, decl))

	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, decl.Project, got.Project)
	assert.ElementsMatch(t, decl.Environment, got.Environment)
	require.Len(t, got.EnvironmentTypes, 2)
	assert.ElementsMatch(t, decl.EnvironmentTypes["EDITION"], got.EnvironmentTypes["EDITION"])
	assert.ElementsMatch(t, decl.EnvironmentTypes["INTEGRATION"], got.EnvironmentTypes["INTEGRATION"])
}

func TestEditorApplyReplacesPriorAssignments(t *testing.T) {
	editor, _ := editorFixture()

	require.NoError(t, editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult, ActionUpdate, ActionDelete}},
	}))
	require.NoError(t, editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{"CLIENT": {ActionConsult}},
	}))

	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got.EnvironmentTypes, 1)
	assert.Equal(t, []Action{ActionConsult}, got.EnvironmentTypes["CLIENT"])
	assert.Empty(t, got.Project)
	assert.Empty(t, got.Environment)
}

func TestEditorApplyNormalizesTypeCodes(t *testing.T) {
	editor, _ := editorFixture()

	require.NoError(t, editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{" edition ": {ActionCreate}},
	}))

	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionCreate}, got.EnvironmentTypes["EDITION"])
}

func TestEditorApplyUnknownTypeRejectedWholesale(t *testing.T) {
	editor, repo := editorFixture()

	prior := Declaration{EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult}}}
	require.NoError(t, editor.Apply(context.Background(), 1, prior))

	err := editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{
			"EDITION":      {ActionConsult, ActionUpdate},
			"UNKNOWN_TYPE": {ActionConsult},
			"LEGACY":       {ActionConsult},
		},
	})
	var invalid *InvalidScopeError
	require.True(t, errors.As(err, &invalid))
	assert.ElementsMatch(t, []string{"UNKNOWN_TYPE", "LEGACY"}, invalid.Codes)

	// Prior assignments are completely unchanged.
	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got.EnvironmentTypes, 1)
	assert.Equal(t, []Action{ActionConsult}, got.EnvironmentTypes["EDITION"])

	// Nothing was staged outside a transaction either.
	assert.Len(t, repo.assignments[1], 1)
}

func TestEditorApplyRollsBackOnMidTxFailure(t *testing.T) {
	editor, repo := editorFixture()

	prior := Declaration{EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult, ActionUpdate}}}
	require.NoError(t, editor.Apply(context.Background(), 1, prior))

	repo.saveAssignmentErr = errors.New("connection reset")
	err := editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{"CLIENT": {ActionConsult}},
	})
	require.Error(t, err)
	repo.saveAssignmentErr = nil

	// The delete-then-recreate ran inside one transaction, so the failure
	// restored the prior assignment set instead of leaving it empty.
	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, prior.EnvironmentTypes["EDITION"], got.EnvironmentTypes["EDITION"])
}

func TestEditorApplyAdminProfileRejected(t *testing.T) {
	editor, _ := editorFixture()

	err := editor.Apply(context.Background(), 2, Declaration{
		EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult}},
	})
	assert.ErrorIs(t, err, ErrAdminProfile)
}

func TestEditorApplyUnknownProfile(t *testing.T) {
	editor, _ := editorFixture()

	err := editor.Apply(context.Background(), 404, Declaration{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = editor.Effective(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditorApplySharesPermissionRowsAcrossProfiles(t *testing.T) {
	editor, repo := editorFixture()
	repo.addProfile(Profile{ID: 3, Code: "QA", Label: "QA", IsActive: true})

	decl := Declaration{EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult}}}
	require.NoError(t, editor.Apply(context.Background(), 1, decl))
	require.NoError(t, editor.Apply(context.Background(), 3, decl))

	// A single shared permission row backs both assignments.
	require.Len(t, repo.permissionsByCode, 1)
	assert.Equal(t, repo.assignments[1], repo.assignments[3])
}

func TestEditorApplyDeduplicatesDeclaredActions(t *testing.T) {
	editor, repo := editorFixture()

	require.NoError(t, editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult, ActionConsult}},
		Project:          []Action{ActionCreate, ActionCreate},
	}))

	assert.Len(t, repo.assignments[1], 2)
}

func TestEditorApplyUnknownActionsRejectedWholesale(t *testing.T) {
	editor, repo := editorFixture()

	prior := Declaration{EnvironmentTypes: map[string][]Action{"EDITION": {ActionConsult}}}
	require.NoError(t, editor.Apply(context.Background(), 1, prior))

	err := editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{"EDITION": {Action("FROBNICATE"), ActionConsult}},
		Project:          []Action{Action("NUKE")},
	})
	var invalid *InvalidActionError
	require.True(t, errors.As(err, &invalid))
	assert.ElementsMatch(t, []string{"FROBNICATE", "NUKE"}, invalid.Actions)

	// Prior assignments untouched, no out-of-grammar code stored.
	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionConsult}, got.EnvironmentTypes["EDITION"])
	assert.Len(t, repo.assignments[1], 1)
}

func TestEditorApplyNormalizesActionCase(t *testing.T) {
	editor, repo := editorFixture()

	require.NoError(t, editor.Apply(context.Background(), 1, Declaration{
		EnvironmentTypes: map[string][]Action{"EDITION": {Action(" consult "), ActionConsult}},
	}))

	// Lowercase input folds onto the canonical code instead of minting a
	// second permission row for the same grant.
	require.Len(t, repo.permissionsByCode, 1)
	_, ok := repo.permissionsByCode["ENV_EDITION_CONSULT"]
	assert.True(t, ok)

	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionConsult}, got.EnvironmentTypes["EDITION"])
}

func TestEditorEffectiveSkipsMalformedCodes(t *testing.T) {
	editor, repo := editorFixture()
	repo.grant(1, "ENV_EDITION_CONSULT")
	repo.grant(1, "GARBAGE")

	got, err := editor.Effective(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got.EnvironmentTypes, 1)
	assert.Equal(t, []Action{ActionConsult}, got.EnvironmentTypes["EDITION"])
}
