package domain

import (
	"strings"
	"time"
)

// Claim is a key-value assertion stored on a user and copied into tokens.
type Claim struct {
	Type  string `json:"type"  bson:"type"`
	Value string `json:"value" bson:"value"`
}

// User models an identity owned by the credential store.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	// Roles holds role IDs; resolve them to names through a RoleStore.
	Roles             []string
	Claims            []Claim
	AccessFailedCount int
	LockoutEnd        *time.Time
	CreatedAt         time.Time
}

// HasRoleID reports whether the user is a member of the role with the given ID.
func (u *User) HasRoleID(roleID string) bool {
	for _, id := range u.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// IsLockedOut reports whether the lockout window is still open at now.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && now.Before(*u.LockoutEnd)
}

// Normalize returns the case-folded key used for username, e-mail and role
// name lookups.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
