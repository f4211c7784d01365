package authz

import (
	"fmt"
	"strings"
)

// Permission codes are the flat storage encoding of a (scope, action) pair:
//
//	ENV_<TYPE>_<ACTION>      environment-type scope
//	PROJECT_<ACTION>         global project scope
//	ENVIRONMENT_<ACTION>     global environment scope
//
// EncodeCode and DecodeCode are the only places this format is produced or
// parsed; everything else works with Scope and Action values.
const (
	envTypePrefix     = "ENV_"
	projectPrefix     = "PROJECT_"
	environmentPrefix = "ENVIRONMENT_"
	codeSeparator     = "_"
)

// MalformedCodeError reports a permission code that does not follow the
// grammar. Seeing one at decode time means a bad row reached the store.
type MalformedCodeError struct {
	Code string
}

func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("authz: malformed permission code %q", e.Code)
}

// EncodeCode serializes a (scope, action) pair into its permission code.
func EncodeCode(scope Scope, action Action) string {
	switch scope.Kind {
	case ScopeProjectGlobal:
		return projectPrefix + string(action)
	case ScopeEnvironmentGlobal:
		return environmentPrefix + string(action)
	default:
		typeCode := strings.ToUpper(strings.TrimSpace(scope.EnvironmentType))
		return envTypePrefix + typeCode + codeSeparator + string(action)
	}
}

// DecodeCode parses a permission code back into its (scope, action) pair.
// It is the exact inverse of EncodeCode for every code EncodeCode can
// produce from valid inputs.
func DecodeCode(code string) (Scope, Action, error) {
	switch {
	case strings.HasPrefix(code, projectPrefix):
		action, ok := ParseAction(strings.TrimPrefix(code, projectPrefix))
		if !ok {
			return Scope{}, "", &MalformedCodeError{Code: code}
		}
		return ProjectScope(), action, nil
	case strings.HasPrefix(code, environmentPrefix):
		action, ok := ParseAction(strings.TrimPrefix(code, environmentPrefix))
		if !ok {
			return Scope{}, "", &MalformedCodeError{Code: code}
		}
		return EnvironmentScope(), action, nil
	case strings.HasPrefix(code, envTypePrefix):
		rest := strings.TrimPrefix(code, envTypePrefix)
		sep := strings.LastIndex(rest, codeSeparator)
		if sep <= 0 {
			return Scope{}, "", &MalformedCodeError{Code: code}
		}
		typeCode, actionToken := rest[:sep], rest[sep+1:]
		// Environment type codes never contain the separator, so a second
		// one means the code is corrupt rather than exotic.
		if strings.Contains(typeCode, codeSeparator) {
			return Scope{}, "", &MalformedCodeError{Code: code}
		}
		action, ok := ParseAction(actionToken)
		if !ok {
			return Scope{}, "", &MalformedCodeError{Code: code}
		}
		return EnvironmentTypeScope(typeCode), action, nil
	}
	return Scope{}, "", &MalformedCodeError{Code: code}
}
