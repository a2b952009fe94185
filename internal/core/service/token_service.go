package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 2 * time.Hour

const (
	claimName  = "name"
	claimRole  = "role"
	claimIssue = "iat"
	claimExp   = "exp"
)

var ErrInvalidToken = errors.New("invalid token")

// accessClaims is the decoded form of an issued token.
type accessClaims struct {
	jwt.RegisteredClaims
	Name  string           `json:"name"`
	Roles jwt.ClaimStrings `json:"role"`
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	roles  ports.RoleStore
	now    func() time.Time
}

func NewTokenService(secret string, roles ports.RoleStore) *TokenService {
	return &TokenService{secret: []byte(secret), roles: roles, now: time.Now}
}

// Issue builds the claim set for user and signs it. Stored user claims come
// first; the name and role claims cannot be overridden by them.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	roleNames, err := resolveRoleNames(ctx, s.roles, user.Roles)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	claims := jwt.MapClaims{}
	for _, c := range user.Claims {
		switch c.Type {
		case claimName, claimRole, claimIssue, claimExp:
			continue
		}
		appendClaim(claims, c.Type, c.Value)
	}

	now := s.now()
	claims[claimName] = user.Username
	claims[claimRole] = roleNames
	claims[claimIssue] = jwt.NewNumericDate(now)
	claims[claimExp] = jwt.NewNumericDate(now.Add(TokenLifetime))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the caller identity.
func (s *TokenService) Parse(token string) (*domain.Principal, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Name == "" {
		return nil, ErrInvalidToken
	}

	return &domain.Principal{Username: claims.Name, Roles: []string(claims.Roles)}, nil
}

// appendClaim keeps repeated claim types as a JSON array.
func appendClaim(claims jwt.MapClaims, key, value string) {
	switch existing := claims[key].(type) {
	case nil:
		claims[key] = value
	case string:
		claims[key] = []string{existing, value}
	case []string:
		claims[key] = append(existing, value)
	}
}

// resolveRoleNames maps role IDs to role names.
func resolveRoleNames(ctx context.Context, roles ports.RoleStore, ids []string) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		role, err := roles.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve role %s: %w", id, err)
		}
		names = append(names, role.Name)
	}
	return names, nil
}
