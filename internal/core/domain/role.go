package domain

// Role names used by the authorization policies.
const (
	RoleUser          = "User"
	RoleAdministrator = "Administrator"
)

// Role is a named permission group. Names are unique ignoring case.
type Role struct {
	ID             string
	Name           string
	NormalizedName string
}

// NewRole builds a role with its normalized name filled in.
func NewRole(id, name string) *Role {
	return &Role{ID: id, Name: name, NormalizedName: Normalize(name)}
}
