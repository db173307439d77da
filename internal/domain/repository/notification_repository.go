package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// NotificationRepository provides access to the notification queue. Entries
// are produced elsewhere; this service reads them, mutates status, and the
// dispatcher claims and delivers them.
type NotificationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationQueueEntry, error)
	List(ctx context.Context, filter entity.NotificationFilter) ([]model.NotificationQueueEntry, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error

	// ClaimQueued atomically moves up to limit queued entries to sending
	// and returns them, so concurrent dispatchers never double-deliver.
	ClaimQueued(ctx context.Context, limit int) ([]model.NotificationQueueEntry, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// AuditRepository provides append-only access to the audit feed.
type AuditRepository interface {
	Create(ctx context.Context, event *model.AuditEvent) error
	List(ctx context.Context, scope entity.Scope, filter entity.AuditFilter) ([]model.AuditEvent, int64, error)
}
