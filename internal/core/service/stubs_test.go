package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

type stubUserStore struct {
	mu      sync.Mutex
	users   []*domain.User
	policy  domain.PasswordPolicy
	lockout domain.LockoutPolicy
	now     func() time.Time

	addToRoleErr error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		policy:  domain.DefaultPasswordPolicy(),
		lockout: domain.DefaultLockoutPolicy(),
		now:     time.Now,
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	clone.Claims = append([]domain.Claim(nil), u.Claims...)
	return &clone
}

func (s *stubUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.ID == id })
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return domain.Normalize(u.Email) == domain.Normalize(email) })
}

func (s *stubUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return domain.Normalize(u.Username) == domain.Normalize(username) })
}

func (s *stubUserStore) Create(_ context.Context, user *domain.User, password string) error {
	if err := s.policy.Check(password); err != nil {
		return domain.WithDetail(domain.ErrCreationFailed, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if domain.Normalize(u.Username) == domain.Normalize(user.Username) {
			return domain.WithDetail(domain.ErrCreationFailed, fmt.Sprintf("username '%s' is already taken", user.Username))
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	s.users = append(s.users, cloneUser(user))
	return nil
}

func (s *stubUserStore) CheckPassword(_ context.Context, user *domain.User, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != user.ID {
			continue
		}
		now := s.now()
		if u.IsLockedOut(now) {
			return false, nil
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			u.AccessFailedCount++
			if s.lockout.ShouldLock(u.AccessFailedCount) {
				end := now.Add(s.lockout.Duration)
				u.LockoutEnd = &end
				u.AccessFailedCount = 0
			}
			return false, nil
		}
		u.AccessFailedCount = 0
		return true, nil
	}
	return false, domain.ErrUserNotFound
}

func (s *stubUserStore) AddToRole(_ context.Context, user *domain.User, roleID string) error {
	if s.addToRoleErr != nil {
		return s.addToRoleErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == user.ID {
			if !u.HasRoleID(roleID) {
				u.Roles = append(u.Roles, roleID)
			}
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubUserStore) ListInRole(_ context.Context, roleID string) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.User
	for _, u := range s.users {
		if u.HasRoleID(roleID) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *stubUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type stubRoleStore struct {
	mu    sync.Mutex
	roles []*domain.Role

	ensureErr error
}

func newStubRoleStore() *stubRoleStore {
	return &stubRoleStore{}
}

func (s *stubRoleStore) FindByID(_ context.Context, id string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roles {
		if r.ID == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubRoleStore) FindByName(_ context.Context, name string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roles {
		if r.NormalizedName == domain.Normalize(name) {
			clone := *r
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubRoleStore) Ensure(ctx context.Context, name string) (*domain.Role, error) {
	if s.ensureErr != nil {
		return nil, s.ensureErr
	}
	if r, err := s.FindByName(ctx, name); err == nil {
		return r, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := domain.NewRole(fmt.Sprintf("role-%d", len(s.roles)+1), name)
	s.roles = append(s.roles, r)
	clone := *r
	return &clone, nil
}

func (s *stubRoleStore) List(context.Context) ([]*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Role, 0, len(s.roles))
	for _, r := range s.roles {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (p *recordingPublisher) Publish(e domain.AuthEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []domain.AuthEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")
