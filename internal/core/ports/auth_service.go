package ports

import (
	"context"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// RegisterInput carries a validated sign-up request.
type RegisterInput struct {
	Email    string
	Username string
	FullName string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string
	Email    string
	Username string
	Roles    []string
	Claims   []domain.Claim
}

// AuthService covers login, registration and the seed-administrator bootstrap.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) error
	RegisterAdmin(ctx context.Context, callerUsername string) (string, error)
}

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*domain.Principal, error)
}
