package authz

// Action enumerates the operation kinds a permission can grant.
type Action string

// The closed set of actions. Permission codes embed these tokens verbatim, so
// the values are part of the storage format and must not change.
const (
	ActionConsult Action = "CONSULT"
	ActionCreate  Action = "CREATE"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
)

// Actions returns every known action in declaration order.
func Actions() []Action {
	return []Action{ActionConsult, ActionCreate, ActionUpdate, ActionDelete}
}

// ParseAction maps a code token back to an Action. The match is exact and
// case-sensitive: codes are stored uppercase.
func ParseAction(token string) (Action, bool) {
	switch Action(token) {
	case ActionConsult, ActionCreate, ActionUpdate, ActionDelete:
		return Action(token), true
	}
	return "", false
}
