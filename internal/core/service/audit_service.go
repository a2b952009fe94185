package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/simplewebapi/bookstore-api/internal/api/metrics"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists every event.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single authentication event.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Type)).Inc()
	s.log.Debug().
		Str("type", string(event.Type)).
		Str("subject", event.Subject).
		Msg("audit event recorded")
	return nil
}
