package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

type notificationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification queue repository
func NewNotificationRepository(db *gorm.DB, logger *zap.Logger) domainRepo.NotificationRepository {
	return &notificationRepository{db: db, logger: logger}
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationQueueEntry, error) {
	var entry model.NotificationQueueEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get notification",
			zap.String("notification_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &entry, nil
}

func (r *notificationRepository) List(ctx context.Context, filter entity.NotificationFilter) ([]model.NotificationQueueEntry, int64, error) {
	filter.Validate()

	q := r.db.WithContext(ctx).Model(&model.NotificationQueueEntry{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Channel != nil {
		q = q.Where("channel = ?", *filter.Channel)
	}
	if filter.RecipientID != nil {
		q = q.Where("recipient_id = ?", *filter.RecipientID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count notifications", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var entries []model.NotificationQueueEntry
	err := q.Order("created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&entries).Error
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return entries, total, nil
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.NotificationQueueEntry{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		r.logger.Error("Failed to update notification status",
			zap.String("notification_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update notification status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

// ClaimQueued moves up to limit queued entries to sending inside one
// transaction with row locks, so two dispatchers never claim the same entry.
func (r *notificationRepository) ClaimQueued(ctx context.Context, limit int) ([]model.NotificationQueueEntry, error) {
	var claimed []model.NotificationQueueEntry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			UPDATE notification_queue SET status = 'sending', attempt_count = attempt_count + 1, updated_at = now()
			WHERE id IN (
				SELECT id FROM notification_queue
				WHERE status = 'queued'
				ORDER BY created_at
				LIMIT ?
				FOR UPDATE SKIP LOCKED
			)
			RETURNING *`, limit).
			Scan(&claimed).Error
		if err != nil {
			return fmt.Errorf("failed to claim queued notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to claim notifications", zap.Error(err))
		return nil, err
	}

	return claimed, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.NotificationQueueEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.NotificationStatusSent,
			"sent_at":    at,
			"last_error": "",
		}).Error
	if err != nil {
		r.logger.Error("Failed to mark notification sent",
			zap.String("notification_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	err := r.db.WithContext(ctx).
		Model(&model.NotificationQueueEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.NotificationStatusFailed,
			"last_error": reason,
		}).Error
	if err != nil {
		r.logger.Error("Failed to mark notification failed",
			zap.String("notification_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}
