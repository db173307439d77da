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
	"github.com/clearviewcare/carehome-server/internal/domain/lifecycle"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

type carePlanRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCarePlanRepository creates a new care plan repository
func NewCarePlanRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CarePlanRepository {
	return &carePlanRepository{db: db, logger: logger}
}

// scopedPlans joins plans through clients so the manager allow-set applies.
func (r *carePlanRepository) scopedPlans(ctx context.Context, scope entity.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.CarePlan{}).
		Joins("JOIN clients ON clients.id = care_plans.client_id")
	if !scope.Unrestricted {
		q = q.Where("clients.care_home_id IN ?", scope.CareHomeIDs)
	}
	return q
}

func (r *carePlanRepository) CreatePlan(ctx context.Context, plan *model.CarePlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		r.logger.Error("Failed to create care plan",
			zap.String("client_id", plan.ClientID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create care plan: %w", err)
	}
	return nil
}

func (r *carePlanRepository) GetPlan(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.CarePlan, error) {
	if scope.Empty() {
		return nil, domainerrors.ErrRecordNotFound
	}

	var plan model.CarePlan
	err := r.scopedPlans(ctx, scope).
		Preload("Client").
		Where("care_plans.id = ?", id).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get care plan",
			zap.String("care_plan_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get care plan: %w", err)
	}

	return &plan, nil
}

func (r *carePlanRepository) UpdatePlan(ctx context.Context, plan *model.CarePlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		r.logger.Error("Failed to update care plan",
			zap.String("care_plan_id", plan.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update care plan: %w", err)
	}
	return nil
}

func (r *carePlanRepository) ListPlans(ctx context.Context, scope entity.Scope, filter entity.CarePlanFilter) ([]model.CarePlan, int64, error) {
	if scope.Empty() {
		return []model.CarePlan{}, 0, nil
	}

	filter.Validate()

	q := r.scopedPlans(ctx, scope).Where("care_plans.is_active = ?", true)
	if filter.ClientID != nil {
		q = q.Where("care_plans.client_id = ?", *filter.ClientID)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("care_plans.title ILIKE ? OR clients.first_name ILIKE ? OR clients.last_name ILIKE ?",
			term, term, term)
	}
	now := time.Now()
	switch filter.ReviewDue {
	case entity.DateFilterDue:
		q = q.Where("care_plans.review_date IS NOT NULL AND care_plans.review_date <= ?", now)
	case entity.DateFilterUpcoming:
		q = q.Where("care_plans.review_date > ? AND care_plans.review_date <= ?",
			now, now.Add(lifecycle.UpcomingWindow))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count care plans", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count care plans: %w", err)
	}

	var plans []model.CarePlan
	err := q.Preload("Client").
		Order("care_plans.created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&plans).Error
	if err != nil {
		r.logger.Error("Failed to list care plans", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list care plans: %w", err)
	}

	return plans, total, nil
}

// CreateVersion assigns max(version_number)+1 for the plan inside one
// transaction so concurrent creations never share a number.
func (r *carePlanRepository) CreateVersion(ctx context.Context, version *model.CarePlanVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxNumber int
		err := tx.Model(&model.CarePlanVersion{}).
			Where("care_plan_id = ?", version.CarePlanID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxNumber).Error
		if err != nil {
			return fmt.Errorf("failed to determine next version number: %w", err)
		}

		version.VersionNumber = maxNumber + 1
		if err := tx.Create(version).Error; err != nil {
			r.logger.Error("Failed to create care plan version",
				zap.String("care_plan_id", version.CarePlanID.String()),
				zap.Error(err))
			return fmt.Errorf("failed to create care plan version: %w", err)
		}
		return nil
	})
}

func (r *carePlanRepository) GetVersion(ctx context.Context, id uuid.UUID) (*model.CarePlanVersion, error) {
	var version model.CarePlanVersion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get care plan version: %w", err)
	}
	return &version, nil
}

func (r *carePlanRepository) GetActiveVersion(ctx context.Context, carePlanID uuid.UUID) (*model.CarePlanVersion, error) {
	var version model.CarePlanVersion
	err := r.db.WithContext(ctx).
		Where("care_plan_id = ? AND is_active = ?", carePlanID, true).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get active version: %w", err)
	}
	return &version, nil
}

func (r *carePlanRepository) ListVersions(ctx context.Context, carePlanID uuid.UUID) ([]model.CarePlanVersion, error) {
	var versions []model.CarePlanVersion
	err := r.db.WithContext(ctx).
		Where("care_plan_id = ?", carePlanID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list care plan versions: %w", err)
	}
	return versions, nil
}

// ActivateVersion publishes a version. The archive of the previously active
// version and the activation of the new one land in the same transaction, so
// a reader can never observe two active versions for one plan. The archive
// targets whatever is active at commit time, not a value read earlier.
func (r *carePlanRepository) ActivateVersion(ctx context.Context, versionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var version model.CarePlanVersion
		if err := tx.Where("id = ?", versionID).First(&version).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRecordNotFound
			}
			return fmt.Errorf("failed to load version: %w", err)
		}

		err := tx.Model(&model.CarePlanVersion{}).
			Where("care_plan_id = ? AND is_active = ? AND id <> ?", version.CarePlanID, true, versionID).
			Updates(map[string]interface{}{
				"status":    model.VersionStatusArchived,
				"is_active": false,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to archive previous active version: %w", err)
		}

		err = tx.Model(&model.CarePlanVersion{}).
			Where("id = ?", versionID).
			Updates(map[string]interface{}{
				"status":    model.VersionStatusActive,
				"is_active": true,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to activate version: %w", err)
		}

		r.logger.Info("Care plan version activated",
			zap.String("care_plan_id", version.CarePlanID.String()),
			zap.String("version_id", versionID.String()),
			zap.Int("version_number", version.VersionNumber))
		return nil
	})
}

func (r *carePlanRepository) UpdateVersionStatus(ctx context.Context, versionID uuid.UUID, status model.VersionStatus, active bool) error {
	err := r.db.WithContext(ctx).
		Model(&model.CarePlanVersion{}).
		Where("id = ?", versionID).
		Updates(map[string]interface{}{
			"status":    status,
			"is_active": active,
		}).Error
	if err != nil {
		r.logger.Error("Failed to update version status",
			zap.String("version_id", versionID.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to update version status: %w", err)
	}
	return nil
}

func (r *carePlanRepository) CreateTask(ctx context.Context, task *model.CarePlanTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.logger.Error("Failed to create care plan task",
			zap.String("version_id", task.CarePlanVersionID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create care plan task: %w", err)
	}
	return nil
}

func (r *carePlanRepository) GetTask(ctx context.Context, id uuid.UUID) (*model.CarePlanTask, error) {
	var task model.CarePlanTask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get care plan task: %w", err)
	}
	return &task, nil
}

func (r *carePlanRepository) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus) error {
	err := r.db.WithContext(ctx).
		Model(&model.CarePlanTask{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.String("task_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

func (r *carePlanRepository) ListTasks(ctx context.Context, scope entity.Scope, filter entity.TaskFilter) ([]model.CarePlanTask, int64, error) {
	if scope.Empty() {
		return nil, 0, nil
	}
	filter.Validate()

	q := r.db.WithContext(ctx).Model(&model.CarePlanTask{}).
		Joins("JOIN care_plan_versions ON care_plan_versions.id = care_plan_tasks.care_plan_version_id").
		Joins("JOIN care_plans ON care_plans.id = care_plan_versions.care_plan_id").
		Joins("JOIN clients ON clients.id = care_plans.client_id")
	q = applyScope(q, scope, "clients.care_home_id")
	if filter.VersionID != nil {
		q = q.Where("care_plan_tasks.care_plan_version_id = ?", *filter.VersionID)
	}
	if filter.Status != nil {
		q = q.Where("care_plan_tasks.status = ?", *filter.Status)
	}
	if filter.AssignedTo != nil {
		q = q.Where("care_plan_tasks.assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []model.CarePlanTask
	err := q.Select("care_plan_tasks.*").
		Order("care_plan_tasks.created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

func (r *carePlanRepository) CountOverdueTasks(ctx context.Context, scope entity.Scope, now time.Time) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}

	q := r.db.WithContext(ctx).Model(&model.CarePlanTask{}).
		Joins("JOIN care_plan_versions ON care_plan_versions.id = care_plan_tasks.care_plan_version_id").
		Joins("JOIN care_plans ON care_plans.id = care_plan_versions.care_plan_id").
		Joins("JOIN clients ON clients.id = care_plans.client_id").
		Where("care_plan_tasks.due_date IS NOT NULL AND care_plan_tasks.due_date <= ?", now).
		Where("care_plan_tasks.status NOT IN ?", []model.TaskStatus{model.TaskStatusCompleted, model.TaskStatusCancelled})
	if !scope.Unrestricted {
		q = q.Where("clients.care_home_id IN ?", scope.CareHomeIDs)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return total, nil
}

func (r *carePlanRepository) CreateReview(ctx context.Context, review *model.CarePlanReview) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		r.logger.Error("Failed to create care plan review",
			zap.String("care_plan_id", review.CarePlanID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create care plan review: %w", err)
	}
	return nil
}

func (r *carePlanRepository) GetReview(ctx context.Context, id uuid.UUID) (*model.CarePlanReview, error) {
	var review model.CarePlanReview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get care plan review: %w", err)
	}
	return &review, nil
}

func (r *carePlanRepository) UpdateReview(ctx context.Context, review *model.CarePlanReview) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		r.logger.Error("Failed to update care plan review",
			zap.String("review_id", review.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update care plan review: %w", err)
	}
	return nil
}

// scopedReviews joins reviews through plans and clients for the allow-set.
func (r *carePlanRepository) scopedReviews(ctx context.Context, scope entity.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.CarePlanReview{}).
		Joins("JOIN care_plans ON care_plans.id = care_plan_reviews.care_plan_id").
		Joins("JOIN clients ON clients.id = care_plans.client_id")
	if !scope.Unrestricted {
		q = q.Where("clients.care_home_id IN ?", scope.CareHomeIDs)
	}
	return q
}

func (r *carePlanRepository) ListReviews(ctx context.Context, scope entity.Scope, filter entity.ReviewFilter) ([]model.CarePlanReview, int64, error) {
	if scope.Empty() {
		return []model.CarePlanReview{}, 0, nil
	}

	filter.Validate()

	q := r.scopedReviews(ctx, scope)
	if filter.CarePlanID != nil {
		q = q.Where("care_plan_reviews.care_plan_id = ?", *filter.CarePlanID)
	}
	if filter.Status != nil {
		q = q.Where("care_plan_reviews.status = ?", *filter.Status)
	}
	q = applyReviewDateFilter(q, filter.Due, time.Now())

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []model.CarePlanReview
	err := q.Order("care_plan_reviews.scheduled_for DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&reviews).Error
	if err != nil {
		r.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *carePlanRepository) CountReviewsByClass(ctx context.Context, scope entity.Scope, class entity.DateFilter, now time.Time) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}

	q := applyReviewDateFilter(r.scopedReviews(ctx, scope), class, now)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return total, nil
}

// applyReviewDateFilter reproduces the inclusive due/upcoming boundaries:
// due is scheduled_for <= now, upcoming is now < scheduled_for <= now+30d,
// both excluding completed and cancelled reviews.
func applyReviewDateFilter(q *gorm.DB, class entity.DateFilter, now time.Time) *gorm.DB {
	settled := []model.ReviewStatus{model.ReviewStatusCompleted, model.ReviewStatusCancelled}
	switch class {
	case entity.DateFilterDue:
		q = q.Where("care_plan_reviews.scheduled_for <= ?", now).
			Where("care_plan_reviews.status NOT IN ?", settled)
	case entity.DateFilterUpcoming:
		q = q.Where("care_plan_reviews.scheduled_for > ? AND care_plan_reviews.scheduled_for <= ?",
			now, now.Add(lifecycle.UpcomingWindow)).
			Where("care_plan_reviews.status NOT IN ?", settled)
	}
	return q
}
