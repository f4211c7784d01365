package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCode(t *testing.T) {
	tests := []struct {
		name   string
		scope  Scope
		action Action
		want   string
	}{
		{"environment type", EnvironmentTypeScope("EDITION"), ActionCreate, "ENV_EDITION_CREATE"},
		{"environment type lowercased input", EnvironmentTypeScope("edition"), ActionCreate, "ENV_EDITION_CREATE"},
		{"environment type padded input", EnvironmentTypeScope("  client "), ActionDelete, "ENV_CLIENT_DELETE"},
		{"global project", ProjectScope(), ActionConsult, "PROJECT_CONSULT"},
		{"global environment", EnvironmentScope(), ActionUpdate, "ENVIRONMENT_UPDATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeCode(tt.scope, tt.action))
		})
	}
}

func TestDecodeCode(t *testing.T) {
	scope, action, err := DecodeCode("ENV_EDITION_CREATE")
	require.NoError(t, err)
	assert.Equal(t, ScopeEnvironmentType, scope.Kind)
	assert.Equal(t, "EDITION", scope.EnvironmentType)
	assert.Equal(t, ActionCreate, action)

	scope, action, err = DecodeCode("PROJECT_CONSULT")
	require.NoError(t, err)
	assert.Equal(t, ScopeProjectGlobal, scope.Kind)
	assert.Equal(t, ActionConsult, action)

	scope, action, err = DecodeCode("ENVIRONMENT_DELETE")
	require.NoError(t, err)
	assert.Equal(t, ScopeEnvironmentGlobal, scope.Kind)
	assert.Equal(t, ActionDelete, action)
}

func TestDecodeCodeMalformed(t *testing.T) {
	malformed := []string{
		"",
		"ENV_",
		"ENV_CONSULT",
		"ENV__CONSULT",
		"ENV_A_B_CONSULT",
		"ENV_EDITION_FLY",
		"PROJECT_",
		"PROJECT_READ",
		"ENVIRONMENT_",
		"project_consult",
		"SOMETHING_ELSE",
		"EDITION_CONSULT",
	}
	for _, code := range malformed {
		t.Run(code, func(t *testing.T) {
			_, _, err := DecodeCode(code)
			var malformedErr *MalformedCodeError
			require.True(t, errors.As(err, &malformedErr), "expected MalformedCodeError for %q, got %v", code, err)
			assert.Equal(t, code, malformedErr.Code)
		})
	}
}

func TestCodeRoundTrip(t *testing.T) {
	scopes := []Scope{
		EnvironmentTypeScope("EDITION"),
		EnvironmentTypeScope("INTEGRATION"),
		EnvironmentTypeScope("CLIENT"),
		ProjectScope(),
		EnvironmentScope(),
	}
	for _, scope := range scopes {
		for _, action := range Actions() {
			code := EncodeCode(scope, action)
			gotScope, gotAction, err := DecodeCode(code)
			require.NoError(t, err, "code %q", code)
			assert.Equal(t, scope, gotScope, "code %q", code)
			assert.Equal(t, action, gotAction, "code %q", code)
		}
	}
}
