package ports

import (
	"context"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// UserSummary is the read model returned by the users queries.
type UserSummary struct {
	ID       string
	Username string
	Email    string
	FullName string
	Roles    []string
	Claims   []domain.Claim
}

// UsersService answers read-only user queries.
type UsersService interface {
	ListAll(ctx context.Context) ([]UserSummary, error)
	GetByUsername(ctx context.Context, username string) (*UserSummary, error)
}
