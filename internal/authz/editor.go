package authz

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
)

// Declaration is the declarative permission surface of one profile: allowed
// actions per environment type code, plus the two global scopes. Action
// order within a scope carries no meaning.
type Declaration struct {
	EnvironmentTypes map[string][]Action `json:"environment_types"`
	Project          []Action            `json:"project"`
	Environment      []Action            `json:"environment"`
}

// Editor replaces the full permission surface of one profile atomically and
// reads it back in the same declarative shape.
type Editor struct {
	repo   Repository
	logger *slog.Logger
}

// NewEditor constructs an Editor.
func NewEditor(repo Repository, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{repo: repo, logger: logger}
}

// Apply validates the declaration and swaps the profile's assignments for the
// declared set in a single transaction. A failure anywhere leaves the prior
// assignment set intact; there is never a window where the profile has no
// permissions. Admin profiles are rejected with ErrAdminProfile because
// their permissions are implicit.
func (e *Editor) Apply(ctx context.Context, profileID int64, decl Declaration) error {
	profile, err := e.repo.FindProfileByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.IsAdmin {
		return ErrAdminProfile
	}

	specs, err := e.resolveDeclaration(ctx, decl)
	if err != nil {
		return err
	}

	return e.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteAssignmentsByProfile(ctx, profile.ID); err != nil {
			return err
		}
		for _, spec := range specs {
			perm, err := tx.FindPermissionByCode(ctx, spec.code)
			if errors.Is(err, ErrNotFound) {
				perm, err = tx.SavePermission(ctx, Permission{Code: spec.code, Action: spec.action})
			}
			if err != nil {
				return err
			}
			if err := tx.SaveAssignment(ctx, profile.ID, perm.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Effective reconstructs the declarative shape from the profile's stored
// permission codes. It is the inverse of Apply. Codes that fail to decode
// indicate a data-integrity problem; the row is logged and skipped so one bad
// row does not take the whole read down.
func (e *Editor) Effective(ctx context.Context, profileID int64) (Declaration, error) {
	profile, err := e.repo.FindProfileByID(ctx, profileID)
	if err != nil {
		return Declaration{}, err
	}

	decl := Declaration{EnvironmentTypes: make(map[string][]Action)}
	permissions, err := e.repo.FindPermissionsByProfile(ctx, profile.ID)
	if err != nil {
		return Declaration{}, err
	}

	for _, perm := range permissions {
		scope, action, err := DecodeCode(strings.ToUpper(strings.TrimSpace(perm.Code)))
		if err != nil {
			e.logger.Warn("skipping malformed permission code",
				slog.String("code", perm.Code),
				slog.Int64("profile_id", profile.ID))
			continue
		}
		switch scope.Kind {
		case ScopeProjectGlobal:
			decl.Project = appendAction(decl.Project, action)
		case ScopeEnvironmentGlobal:
			decl.Environment = appendAction(decl.Environment, action)
		default:
			decl.EnvironmentTypes[scope.EnvironmentType] = appendAction(decl.EnvironmentTypes[scope.EnvironmentType], action)
		}
	}

	sortActions(decl.Project)
	sortActions(decl.Environment)
	for _, actions := range decl.EnvironmentTypes {
		sortActions(actions)
	}
	return decl, nil
}

type permissionSpec struct {
	code   string
	action Action
}

// resolveDeclaration normalizes the declaration into deduplicated permission
// specs, validating every declared action and environment type code up front.
// All invalid actions are reported together, as are all invalid codes. The
// declaration arrives straight from the API, so nothing in it is trusted to
// be inside the grammar.
func (e *Editor) resolveDeclaration(ctx context.Context, decl Declaration) ([]permissionSpec, error) {
	var badActions []string
	normalize := func(actions []Action) []Action {
		out := make([]Action, 0, len(actions))
		for _, raw := range actions {
			action, ok := ParseAction(strings.ToUpper(strings.TrimSpace(string(raw))))
			if !ok {
				badActions = append(badActions, string(raw))
				continue
			}
			out = append(out, action)
		}
		return out
	}

	typeActions := make(map[string][]Action, len(decl.EnvironmentTypes))
	for typeCode, actions := range decl.EnvironmentTypes {
		typeActions[typeCode] = normalize(actions)
	}
	projectActions := normalize(decl.Project)
	environmentActions := normalize(decl.Environment)
	if len(badActions) > 0 {
		sort.Strings(badActions)
		return nil, &InvalidActionError{Actions: badActions}
	}

	var invalid []string
	var specs []permissionSpec
	seen := make(map[string]struct{})

	add := func(scope Scope, action Action) {
		code := EncodeCode(scope, action)
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		specs = append(specs, permissionSpec{code: code, action: action})
	}

	typeCodes := make([]string, 0, len(typeActions))
	for typeCode := range typeActions {
		typeCodes = append(typeCodes, typeCode)
	}
	sort.Strings(typeCodes)

	for _, typeCode := range typeCodes {
		normalized := strings.ToUpper(strings.TrimSpace(typeCode))
		envType, err := e.repo.FindEnvironmentTypeByCode(ctx, normalized)
		switch {
		case errors.Is(err, ErrNotFound):
			invalid = append(invalid, typeCode)
			continue
		case err != nil:
			return nil, err
		case !envType.IsActive:
			invalid = append(invalid, typeCode)
			continue
		}
		for _, action := range typeActions[typeCode] {
			add(EnvironmentTypeScope(envType.Code), action)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidScopeError{Codes: invalid}
	}

	for _, action := range projectActions {
		add(ProjectScope(), action)
	}
	for _, action := range environmentActions {
		add(EnvironmentScope(), action)
	}
	return specs, nil
}

func appendAction(actions []Action, action Action) []Action {
	for _, existing := range actions {
		if existing == action {
			return actions
		}
	}
	return append(actions, action)
}

func sortActions(actions []Action) {
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
}
