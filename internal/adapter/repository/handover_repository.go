package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

type handoverRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHandoverRepository creates a new handover repository
func NewHandoverRepository(db *gorm.DB, logger *zap.Logger) domainRepo.HandoverRepository {
	return &handoverRepository{db: db, logger: logger}
}

func (r *handoverRepository) Create(ctx context.Context, handover *model.Handover) error {
	if err := r.db.WithContext(ctx).Create(handover).Error; err != nil {
		r.logger.Error("Failed to create handover",
			zap.String("care_home_id", handover.CareHomeID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create handover: %w", err)
	}
	return nil
}

func (r *handoverRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Handover, error) {
	if scope.Empty() {
		return nil, domainerrors.ErrRecordNotFound
	}

	var handover model.Handover
	q := applyScope(r.db.WithContext(ctx), scope, "care_home_id")
	if err := q.Where("id = ?", id).First(&handover).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get handover",
			zap.String("handover_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get handover: %w", err)
	}

	return &handover, nil
}

func (r *handoverRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&model.Handover{}).
		Where("id = ?", id).
		Update("is_completed", true).Error
	if err != nil {
		r.logger.Error("Failed to complete handover",
			zap.String("handover_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to complete handover: %w", err)
	}
	return nil
}

func (r *handoverRepository) List(ctx context.Context, scope entity.Scope, filter entity.HandoverFilter) ([]model.Handover, int64, error) {
	if scope.Empty() {
		return []model.Handover{}, 0, nil
	}

	filter.Validate()

	q := applyScope(r.db.WithContext(ctx).Model(&model.Handover{}), scope, "care_home_id")
	if filter.CareHomeID != nil {
		q = q.Where("care_home_id = ?", *filter.CareHomeID)
	}
	if filter.ShiftType != nil {
		q = q.Where("shift_type = ?", *filter.ShiftType)
	}
	if filter.ShiftDateFrom != nil {
		q = q.Where("shift_date >= ?", *filter.ShiftDateFrom)
	}
	if filter.ShiftDateTo != nil {
		q = q.Where("shift_date <= ?", *filter.ShiftDateTo)
	}
	if filter.OnlyIncomplete {
		q = q.Where("is_completed = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count handovers", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count handovers: %w", err)
	}

	var handovers []model.Handover
	err := q.Order("shift_date DESC, created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&handovers).Error
	if err != nil {
		r.logger.Error("Failed to list handovers", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list handovers: %w", err)
	}

	return handovers, total, nil
}

func (r *handoverRepository) CountIncomplete(ctx context.Context, scope entity.Scope) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}

	var total int64
	q := applyScope(r.db.WithContext(ctx).Model(&model.Handover{}), scope, "care_home_id")
	if err := q.Where("is_completed = ?", false).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count incomplete handovers: %w", err)
	}
	return total, nil
}
