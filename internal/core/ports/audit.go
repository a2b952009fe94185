package ports

import (
	"context"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

// AuditRepository appends authentication events to the audit collection.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService processes a single authentication event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditPublisher hands events off for asynchronous recording. Publish must
// not block the request path.
type AuditPublisher interface {
	Publish(event domain.AuthEvent)
}
