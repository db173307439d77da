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

type careHomeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCareHomeRepository creates a new care home repository
func NewCareHomeRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CareHomeRepository {
	return &careHomeRepository{db: db, logger: logger}
}

func (r *careHomeRepository) Create(ctx context.Context, home *model.CareHome) error {
	if err := r.db.WithContext(ctx).Create(home).Error; err != nil {
		r.logger.Error("Failed to create care home",
			zap.String("name", home.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create care home: %w", err)
	}
	return nil
}

// GetByID returns the care home, or ErrRecordNotFound both for missing ids
// and for homes outside the scope, so the two are indistinguishable.
func (r *careHomeRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.CareHome, error) {
	if scope.Empty() {
		return nil, domainerrors.ErrRecordNotFound
	}

	var home model.CareHome
	q := applyScope(r.db.WithContext(ctx), scope, "id")
	if err := q.Where("id = ?", id).First(&home).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get care home",
			zap.String("care_home_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get care home: %w", err)
	}

	return &home, nil
}

func (r *careHomeRepository) Update(ctx context.Context, home *model.CareHome) error {
	if err := r.db.WithContext(ctx).Save(home).Error; err != nil {
		r.logger.Error("Failed to update care home",
			zap.String("care_home_id", home.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update care home: %w", err)
	}
	return nil
}

func (r *careHomeRepository) List(ctx context.Context, scope entity.Scope, filter entity.CareHomeFilter) ([]model.CareHome, int64, error) {
	if scope.Empty() {
		return []model.CareHome{}, 0, nil
	}

	filter.Validate()

	q := applyScope(r.db.WithContext(ctx).Model(&model.CareHome{}), scope, "id")
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR city ILIKE ? OR postcode ILIKE ?", term, term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count care homes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count care homes: %w", err)
	}

	var homes []model.CareHome
	err := q.Order("created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&homes).Error
	if err != nil {
		r.logger.Error("Failed to list care homes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list care homes: %w", err)
	}

	return homes, total, nil
}

func (r *careHomeRepository) Count(ctx context.Context, scope entity.Scope) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}

	var total int64
	q := applyScope(r.db.WithContext(ctx).Model(&model.CareHome{}), scope, "id")
	if err := q.Where("is_active = ?", true).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count care homes: %w", err)
	}
	return total, nil
}
