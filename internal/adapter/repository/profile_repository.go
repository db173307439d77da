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

type profileRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProfileRepository {
	return &profileRepository{db: db, logger: logger}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get profile",
			zap.String("profile_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, filter entity.ProfileFilter) ([]model.Profile, int64, error) {
	filter.Validate()

	q := r.db.WithContext(ctx).Model(&model.Profile{})
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", term, term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count profiles", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	var profiles []model.Profile
	err := q.Order("created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&profiles).Error
	if err != nil {
		r.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, total, nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		r.logger.Error("Failed to update profile role",
			zap.String("profile_id", id.String()),
			zap.String("role", string(role)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update profile role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		r.logger.Error("Failed to update profile active flag",
			zap.String("profile_id", id.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

type assignmentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAssignmentRepository creates a new manager assignment repository
func NewAssignmentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AssignmentRepository {
	return &assignmentRepository{db: db, logger: logger}
}

// CareHomeIDsForManager returns the manager's allow-set. A lookup failure is
// returned as an error so the caller can distinguish an outage from a
// manager with no assignments.
func (r *assignmentRepository) CareHomeIDsForManager(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.ManagerCareHome{}).
		Where("manager_id = ?", managerID).
		Pluck("care_home_id", &ids).Error
	if err != nil {
		r.logger.Error("Failed to load manager assignments",
			zap.String("manager_id", managerID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load manager assignments: %w", err)
	}
	return ids, nil
}

func (r *assignmentRepository) Assign(ctx context.Context, managerID, careHomeID uuid.UUID) error {
	assignment := model.ManagerCareHome{ManagerID: managerID, CareHomeID: careHomeID}
	if err := r.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		r.logger.Error("Failed to assign manager to care home",
			zap.String("manager_id", managerID.String()),
			zap.String("care_home_id", careHomeID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) Unassign(ctx context.Context, managerID, careHomeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("manager_id = ? AND care_home_id = ?", managerID, careHomeID).
		Delete(&model.ManagerCareHome{})
	if result.Error != nil {
		r.logger.Error("Failed to remove manager assignment",
			zap.String("manager_id", managerID.String()),
			zap.String("care_home_id", careHomeID.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to remove assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepository) ManagersForCareHome(ctx context.Context, careHomeID uuid.UUID) ([]model.Profile, error) {
	var managers []model.Profile
	err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Joins("JOIN manager_care_homes ON manager_care_homes.manager_id = profiles.id").
		Where("manager_care_homes.care_home_id = ?", careHomeID).
		Find(&managers).Error
	if err != nil {
		r.logger.Error("Failed to list managers for care home",
			zap.String("care_home_id", careHomeID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return managers, nil
}
