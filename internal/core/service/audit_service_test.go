package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

type stubAuditRepo struct {
	events []domain.AuthEvent
	err    error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	event := domain.AuthEvent{Type: domain.EventLoginFailed, Subject: "ann@x.io", Timestamp: time.Now()}
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Subject != "ann@x.io" {
		t.Fatalf("unexpected stored events: %+v", repo.events)
	}
}

func TestAuditService_Record_RepositoryError(t *testing.T) {
	svc := NewAuditService(&stubAuditRepo{err: errStoreDown}, zerolog.Nop())

	err := svc.Record(context.Background(), domain.AuthEvent{Type: domain.EventLoginSucceeded})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
