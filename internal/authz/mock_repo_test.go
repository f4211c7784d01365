package authz

import (
	"context"
	"sort"
	"strings"
)

// mockRepository is an in-memory Repository with error injection, mirroring
// the storage semantics the editor relies on: shared permission rows keyed by
// code, assignments keyed by profile, transactional rollback.
type mockRepository struct {
	principals        map[string]*Principal
	profiles          map[int64]*Profile
	envTypes          map[string]*EnvironmentTypeRef
	projectsByType    map[int64][]ProjectRef
	permissionsByCode map[string]*Permission
	permissionsByID   map[int64]*Permission
	assignments       map[int64][]int64
	nextPermissionID  int64

	permissionLoadCalls int

	txError           error
	saveAssignmentErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		principals:        make(map[string]*Principal),
		profiles:          make(map[int64]*Profile),
		envTypes:          make(map[string]*EnvironmentTypeRef),
		projectsByType:    make(map[int64][]ProjectRef),
		permissionsByCode: make(map[string]*Permission),
		permissionsByID:   make(map[int64]*Permission),
		assignments:       make(map[int64][]int64),
		nextPermissionID:  1,
	}
}

func (m *mockRepository) addPrincipal(p Principal) {
	m.principals[strings.ToLower(p.Email)] = &p
}

func (m *mockRepository) addProfile(p Profile) {
	m.profiles[p.ID] = &p
}

func (m *mockRepository) addEnvType(t EnvironmentTypeRef) {
	m.envTypes[t.Code] = &t
}

// grant wires a permission row plus an assignment, the way seeded data would
// look in the store.
func (m *mockRepository) grant(profileID int64, code string) {
	perm, ok := m.permissionsByCode[code]
	if !ok {
		perm = &Permission{ID: m.nextPermissionID, Code: code}
		m.nextPermissionID++
		m.permissionsByCode[code] = perm
		m.permissionsByID[perm.ID] = perm
	}
	m.assignments[profileID] = append(m.assignments[profileID], perm.ID)
}

func (m *mockRepository) FindPrincipalByEmail(ctx context.Context, email string) (*Principal, error) {
	p, ok := m.principals[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockRepository) FindProfileByID(ctx context.Context, id int64) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockRepository) FindPermissionsByProfile(ctx context.Context, profileID int64) ([]Permission, error) {
	m.permissionLoadCalls++
	var perms []Permission
	for _, permID := range m.assignments[profileID] {
		if perm, ok := m.permissionsByID[permID]; ok {
			perms = append(perms, *perm)
		}
	}
	return perms, nil
}

func (m *mockRepository) FindActiveEnvironmentTypes(ctx context.Context) ([]EnvironmentTypeRef, error) {
	var out []EnvironmentTypeRef
	for _, code := range sortedKeys(m.envTypes) {
		t := m.envTypes[code]
		if t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockRepository) FindEnvironmentTypeByCode(ctx context.Context, code string) (*EnvironmentTypeRef, error) {
	t, ok := m.envTypes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (m *mockRepository) FindProjectsByEnvironmentType(ctx context.Context, environmentTypeID int64) ([]ProjectRef, error) {
	return append([]ProjectRef(nil), m.projectsByType[environmentTypeID]...), nil
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	if m.txError != nil {
		return m.txError
	}
	backupAssignments := make(map[int64][]int64, len(m.assignments))
	for profileID, permIDs := range m.assignments {
		backupAssignments[profileID] = append([]int64(nil), permIDs...)
	}
	backupByCode := make(map[string]*Permission, len(m.permissionsByCode))
	for code, perm := range m.permissionsByCode {
		copied := *perm
		backupByCode[code] = &copied
	}
	backupByID := make(map[int64]*Permission, len(m.permissionsByID))
	for id, perm := range m.permissionsByID {
		copied := *perm
		backupByID[id] = &copied
	}
	backupNextID := m.nextPermissionID

	if err := fn(ctx, &mockTxRepo{mock: m}); err != nil {
		m.assignments = backupAssignments
		m.permissionsByCode = backupByCode
		m.permissionsByID = backupByID
		m.nextPermissionID = backupNextID
		return err
	}
	return nil
}

type mockTxRepo struct {
	mock *mockRepository
}

func (t *mockTxRepo) DeleteAssignmentsByProfile(ctx context.Context, profileID int64) error {
	delete(t.mock.assignments, profileID)
	return nil
}

func (t *mockTxRepo) FindPermissionByCode(ctx context.Context, code string) (*Permission, error) {
	perm, ok := t.mock.permissionsByCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := *perm
	return &out, nil
}

func (t *mockTxRepo) SavePermission(ctx context.Context, perm Permission) (*Permission, error) {
	if existing, ok := t.mock.permissionsByCode[perm.Code]; ok {
		out := *existing
		return &out, nil
	}
	perm.ID = t.mock.nextPermissionID
	t.mock.nextPermissionID++
	stored := perm
	t.mock.permissionsByCode[perm.Code] = &stored
	t.mock.permissionsByID[perm.ID] = &stored
	out := stored
	return &out, nil
}

func (t *mockTxRepo) SaveAssignment(ctx context.Context, profileID, permissionID int64) error {
	if t.mock.saveAssignmentErr != nil {
		return t.mock.saveAssignmentErr
	}
	t.mock.assignments[profileID] = append(t.mock.assignments[profileID], permissionID)
	return nil
}

func sortedKeys(envTypes map[string]*EnvironmentTypeRef) []string {
	keys := make([]string, 0, len(envTypes))
	for key := range envTypes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
