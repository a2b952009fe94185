package ports

import (
	"context"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// UserStore is the credential store for user records. Implementations own
// password hashing, the password policy and lockout bookkeeping.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail and FindByUsername match ignoring case and return
	// domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create hashes password and inserts user. Policy violations and
	// duplicate usernames or e-mails are reported as domain.ErrCreationFailed.
	Create(ctx context.Context, user *domain.User, password string) error
	// CheckPassword verifies password in constant time. It returns false for a
	// mismatch or a locked-out account and updates the failure counters.
	CheckPassword(ctx context.Context, user *domain.User, password string) (bool, error)
	// AddToRole adds roleID to the user's role set. Adding an existing
	// membership is a no-op.
	AddToRole(ctx context.Context, user *domain.User, roleID string) error
	ListInRole(ctx context.Context, roleID string) ([]*domain.User, error)
}

// RoleStore persists roles.
type RoleStore interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// Ensure returns the role called name, inserting it if absent. Concurrent
	// callers always observe the same role.
	Ensure(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
}
