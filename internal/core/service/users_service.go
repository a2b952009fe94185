package service

import (
	"context"
	"fmt"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

// UsersService answers read-only user queries.
type UsersService struct {
	users ports.UserStore
	roles ports.RoleStore
}

func NewUsersService(users ports.UserStore, roles ports.RoleStore) *UsersService {
	return &UsersService{users: users, roles: roles}
}

// ListAll returns every user that belongs to at least one role. A user in
// several roles is listed once, at its first occurrence.
func (s *UsersService) ListAll(ctx context.Context) ([]ports.UserSummary, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}

	seen := make(map[string]struct{})
	out := make([]ports.UserSummary, 0)
	for _, role := range roles {
		members, err := s.users.ListInRole(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("list users in role %s: %w", role.Name, err)
		}
		for _, u := range members {
			if _, dup := seen[u.ID]; dup {
				continue
			}
			seen[u.ID] = struct{}{}
			out = append(out, summarize(u, names))
		}
	}
	return out, nil
}

// GetByUsername returns domain.ErrUserNotFound when no user matches.
func (s *UsersService) GetByUsername(ctx context.Context, username string) (*ports.UserSummary, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	roleNames, err := resolveRoleNames(ctx, s.roles, user.Roles)
	if err != nil {
		return nil, err
	}

	summary := summarize(user, nil)
	summary.Roles = roleNames
	return &summary, nil
}

// summarize builds the read model. Role IDs missing from names are skipped.
func summarize(u *domain.User, names map[string]string) ports.UserSummary {
	roles := make([]string, 0, len(u.Roles))
	for _, id := range u.Roles {
		if name, ok := names[id]; ok {
			roles = append(roles, name)
		}
	}
	claims := u.Claims
	if claims == nil {
		claims = []domain.Claim{}
	}
	return ports.UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    roles,
		Claims:   claims,
	}
}
