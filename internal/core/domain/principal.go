package domain

import "strings"

// Principal is the caller identity recovered from a verified bearer token.
type Principal struct {
	Username string
	Roles    []string
}

// HasRole reports whether the principal holds role, ignoring case.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Policy is a named authorization rule requiring a single role.
type Policy struct {
	Name string
	Role string
}

var (
	PolicyUser          = Policy{Name: "User", Role: RoleUser}
	PolicyAdministrator = Policy{Name: "Administrator", Role: RoleAdministrator}
)

// Allows reports whether p satisfies the policy.
func (pol Policy) Allows(p *Principal) bool {
	return p.HasRole(pol.Role)
}
