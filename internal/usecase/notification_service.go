package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/lifecycle"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// NotificationService is the administrative surface over the notification
// queue. Entries are written by backend processes and delivered by the
// dispatcher; this service only lists them and changes their status.
type NotificationService struct {
	notificationRepo domainRepo.NotificationRepository
	audit            *AuditService
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo domainRepo.NotificationRepository,
	audit *AuditService,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		audit:            audit,
		logger:           logger,
	}
}

// Get returns a queue entry. Queue administration is owner-only.
func (s *NotificationService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.NotificationQueueEntry, error) {
	if !actor.Role.CanManageNotifications() {
		return nil, domainerrors.ErrNotPermitted
	}
	return s.notificationRepo.GetByID(ctx, id)
}

// List returns queue entries matching the filter.
func (s *NotificationService) List(ctx context.Context, actor entity.Actor, filter entity.NotificationFilter) ([]model.NotificationQueueEntry, entity.PaginationMeta, error) {
	if !actor.Role.CanManageNotifications() {
		return nil, entity.PaginationMeta{}, domainerrors.ErrNotPermitted
	}

	filter.Validate()
	entries, total, err := s.notificationRepo.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return entries, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Retry requeues a failed entry for another delivery attempt.
func (s *NotificationService) Retry(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.NotificationStatusQueued, "retried")
}

// Cancel withdraws an entry before it is delivered.
func (s *NotificationService) Cancel(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.NotificationStatusCancelled, "cancelled")
}

// MarkSent records an entry as delivered out of band.
func (s *NotificationService) MarkSent(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.NotificationStatusSent, "marked_sent")
}

func (s *NotificationService) transition(ctx context.Context, actor entity.Actor, id uuid.UUID, to model.NotificationStatus, action string) error {
	if !actor.Role.CanManageNotifications() {
		return domainerrors.ErrNotPermitted
	}

	entry, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.ValidateNotificationTransition(entry.Status, to); err != nil {
		return err
	}
	if entry.Status == to {
		return nil
	}

	if to == model.NotificationStatusSent {
		err = s.notificationRepo.MarkSent(ctx, id, time.Now())
	} else {
		err = s.notificationRepo.UpdateStatus(ctx, id, to)
	}
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "notification", id, action,
		"Notification "+action, map[string]interface{}{
			"from": string(entry.Status),
			"to":   string(to),
		})
	return nil
}
