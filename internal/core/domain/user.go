package domain

import "time"

// Role is the closed set of role tags a principal can carry. Upstream
// transmits roles as strings ("ROLE_PATIENT", "ROLE_ADMIN"); anything else
// parses to RoleUnknown and never satisfies a predicate.
type Role uint8

const (
	RoleUnknown Role = iota
	RolePatient
	RoleAdmin
)

// ParseRole maps an upstream role string to a Role tag.
func ParseRole(s string) Role {
	switch s {
	case "ROLE_PATIENT", "patient":
		return RolePatient
	case "ROLE_ADMIN", "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "ROLE_PATIENT"
	case RoleAdmin:
		return "ROLE_ADMIN"
	default:
		return "ROLE_UNKNOWN"
	}
}

// MarshalText renders the role in upstream string form, so role sets
// survive the JSON round trip through the session store.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// Principal is the authenticated actor for one session.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Roles    []Role `json:"roles"`
}

// RoleNames renders the role set in upstream string form.
func (p *Principal) RoleNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.String())
	}
	return names
}

// HasRole reports membership. Nil principals hold no roles.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p *Principal) IsAdmin() bool   { return p.HasRole(RoleAdmin) }
func (p *Principal) IsPatient() bool { return p.HasRole(RolePatient) }

// Session binds a gateway session to its principal and the upstream bearer
// token obtained at login. Destroyed on logout or upstream 401.
type Session struct {
	ID            string    `json:"id"`
	Principal     Principal `json:"principal"`
	UpstreamToken string    `json:"upstream_token"`
	CreatedAt     time.Time `json:"created_at"`
}
