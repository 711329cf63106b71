package domain

// GuardState is the admission state machine for a role-gated target.
// A check starts in GuardPending and resolves to exactly one terminal
// state once the session is known. Denied is terminal: the caller renders
// it and never redirects.
type GuardState uint8

const (
	GuardPending GuardState = iota
	GuardAllowed
	GuardDenied
)

func (s GuardState) String() string {
	switch s {
	case GuardAllowed:
		return "allowed"
	case GuardDenied:
		return "denied"
	default:
		return "pending"
	}
}

// Guard decides whether a principal may enter a target. All variants share
// the same machine shape and differ only in the predicate.
type Guard struct {
	Name  string
	Role  Role // role named in denial responses; RoleUnknown for any-authenticated
	allow func(*Principal) bool
}

var (
	GuardAdminOnly = Guard{Name: "admin-only", Role: RoleAdmin, allow: (*Principal).IsAdmin}

	GuardPatientOnly = Guard{Name: "patient-only", Role: RolePatient, allow: (*Principal).IsPatient}

	GuardAuthenticated = Guard{Name: "authenticated", allow: func(p *Principal) bool { return p != nil }}
)

// Resolve transitions the machine out of GuardPending. An absent principal
// is not a guard outcome: Resolve reports ErrNoPrincipal and the caller
// bounces to login instead of rendering a denial.
func (g Guard) Resolve(p *Principal) (GuardState, error) {
	if p == nil {
		return GuardPending, ErrNoPrincipal
	}
	if g.allow(p) {
		return GuardAllowed, nil
	}
	return GuardDenied, nil
}
