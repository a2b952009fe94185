package service

import (
	"context"
	"errors"
	"testing"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

func TestUsersService_ListAll_DeduplicatesAcrossRoles(t *testing.T) {
	f := newAuthFixture("ann")
	ctx := context.Background()
	for _, in := range [][2]string{{"ann", "ann@x.io"}, {"bob", "bob@x.io"}} {
		if err := f.svc.Register(ctx, registerInput(in[0], in[1])); err != nil {
			t.Fatalf("register %s: %v", in[0], err)
		}
	}
	if _, err := f.svc.RegisterAdmin(ctx, "ann"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	svc := NewUsersService(f.users, f.roles)
	users, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d: %+v", len(users), users)
	}
	if users[0].Username != "ann" || len(users[0].Roles) != 2 {
		t.Fatalf("unexpected first user: %+v", users[0])
	}
	if users[1].Username != "bob" || len(users[1].Roles) != 1 {
		t.Fatalf("unexpected second user: %+v", users[1])
	}
	if users[0].Claims == nil {
		t.Fatalf("claims must be an empty list, not nil")
	}
}

func TestUsersService_ListAll_Empty(t *testing.T) {
	svc := NewUsersService(newStubUserStore(), newStubRoleStore())

	users, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", users)
	}
}

func TestUsersService_GetByUsername(t *testing.T) {
	f := newAuthFixture("")
	ctx := context.Background()
	if err := f.svc.Register(ctx, registerInput("ann", "ann@x.io")); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := NewUsersService(f.users, f.roles)

	got, err := svc.GetByUsername(ctx, "ANN")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if got.Email != "ann@x.io" || got.FullName != "Ann Lee" {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if len(got.Roles) != 1 || got.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", got.Roles)
	}

	if _, err := svc.GetByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

