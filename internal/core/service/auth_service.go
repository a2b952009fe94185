package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/simplewebapi/bookstore-api/internal/api/metrics"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

// AuthService implements login, registration and the seed-administrator
// bootstrap on top of the credential store.
type AuthService struct {
	users     ports.UserStore
	roles     ports.RoleStore
	tokens    ports.TokenIssuer
	audit     ports.AuditPublisher
	seedAdmin string
	log       zerolog.Logger
	now       func() time.Time
	// burnHash runs a bcrypt comparison for unknown e-mails so both login
	// failures take about the same time.
	burnHash func(password string)
}

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("dummy-password-0"), bcrypt.DefaultCost)
	return h
})

func compareDummyHash(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}

// NewAuthService wires the service. seedAdmin is the only username allowed
// to promote itself through RegisterAdmin; empty disables the bootstrap.
func NewAuthService(
	users ports.UserStore,
	roles ports.RoleStore,
	tokens ports.TokenIssuer,
	audit ports.AuditPublisher,
	seedAdmin string,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = discardPublisher{}
	}
	return &AuthService{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		audit:     audit,
		seedAdmin: strings.TrimSpace(seedAdmin),
		log:       log,
		now:       time.Now,
		burnHash:  compareDummyHash,
	}
}

// Login checks the credentials and issues a token. Unknown e-mail and wrong
// password both yield domain.ErrInvalidLogin.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.burnHash(password)
			s.loginFailed(email, "unknown email")
			return nil, domain.ErrInvalidLogin
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.users.CheckPassword(ctx, user, password)
	if err != nil {
		return nil, fmt.Errorf("login: check password: %w", err)
	}
	if !ok {
		s.loginFailed(email, "password mismatch")
		return nil, domain.ErrInvalidLogin
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	roleNames, err := resolveRoleNames(ctx, s.roles, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.publish(domain.EventLoginSucceeded, user.Username, "")

	return &ports.LoginResult{
		Token:    token,
		Email:    user.Email,
		Username: user.Username,
		Roles:    roleNames,
		Claims:   user.Claims,
	}, nil
}

// Register creates the user and assigns the default role. A failure to
// assign the role is reported but the created user is kept.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("exists").Inc()
		return domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Email:     in.Email,
		FullName:  in.FullName,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, user, in.Password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("creation_failed").Inc()
		if errors.Is(err, domain.ErrCreationFailed) {
			return err
		}
		return domain.WithDetail(domain.ErrCreationFailed, "create user failed: "+err.Error())
	}

	if err := s.addToRole(ctx, user, domain.RoleUser); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("role_assignment_failed").Inc()
		s.log.Error().Err(err).Str("username", user.Username).Msg("user created without default role")
		return domain.WithDetail(domain.ErrRoleAssignmentFailed,
			"create user succeeded but could not add user to role: "+err.Error())
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.publish(domain.EventUserRegistered, user.Username, "")
	s.log.Info().Str("username", user.Username).Str("user_id", user.ID).Msg("user registered")
	return nil
}

// RegisterAdmin promotes the configured seed administrator and returns a
// token that already carries the Administrator role.
func (s *AuthService) RegisterAdmin(ctx context.Context, callerUsername string) (string, error) {
	caller := strings.TrimSpace(callerUsername)
	if caller == "" || s.seedAdmin == "" || !strings.EqualFold(caller, s.seedAdmin) {
		metrics.AdminPromotionsTotal.WithLabelValues("forbidden").Inc()
		s.publish(domain.EventAdminDenied, caller, "")
		s.log.Warn().Str("username", caller).Msg("admin bootstrap refused")
		return "", domain.ErrForbidden
	}

	user, err := s.users.FindByUsername(ctx, caller)
	if err != nil {
		return "", err
	}

	if err := s.addToRole(ctx, user, domain.RoleAdministrator); err != nil {
		return "", fmt.Errorf("could not add user to role: %w", err)
	}

	// Reload so the token reflects the stored role set.
	user, err = s.users.FindByID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("register admin: reload user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return "", fmt.Errorf("register admin: %w", err)
	}

	metrics.AdminPromotionsTotal.WithLabelValues("success").Inc()
	s.publish(domain.EventAdminPromoted, user.Username, "")
	s.log.Info().Str("username", user.Username).Msg("seed administrator promoted")
	return token, nil
}

func (s *AuthService) addToRole(ctx context.Context, user *domain.User, roleName string) error {
	role, err := s.roles.Ensure(ctx, roleName)
	if err != nil {
		return fmt.Errorf("ensure role %s: %w", roleName, err)
	}
	return s.users.AddToRole(ctx, user, role.ID)
}

func (s *AuthService) loginFailed(subject, reason string) {
	metrics.LoginsTotal.WithLabelValues("invalid").Inc()
	s.publish(domain.EventLoginFailed, subject, reason)
}

func (s *AuthService) publish(typ domain.AuthEventType, subject, detail string) {
	s.audit.Publish(domain.AuthEvent{
		Type:      typ,
		Subject:   subject,
		Timestamp: s.now().UTC(),
		Detail:    detail,
	})
}

type discardPublisher struct{}

func (discardPublisher) Publish(domain.AuthEvent) {}
