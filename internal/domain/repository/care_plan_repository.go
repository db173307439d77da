package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// CarePlanRepository provides access to care plans, their versions, tasks
// and reviews. Plans reach care homes through their client, so scoped reads
// join through the clients table.
type CarePlanRepository interface {
	CreatePlan(ctx context.Context, plan *model.CarePlan) error
	GetPlan(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.CarePlan, error)
	UpdatePlan(ctx context.Context, plan *model.CarePlan) error
	ListPlans(ctx context.Context, scope entity.Scope, filter entity.CarePlanFilter) ([]model.CarePlan, int64, error)

	// CreateVersion assigns the next version number for the plan.
	CreateVersion(ctx context.Context, version *model.CarePlanVersion) error
	GetVersion(ctx context.Context, id uuid.UUID) (*model.CarePlanVersion, error)
	GetActiveVersion(ctx context.Context, carePlanID uuid.UUID) (*model.CarePlanVersion, error)
	ListVersions(ctx context.Context, carePlanID uuid.UUID) ([]model.CarePlanVersion, error)
	// ActivateVersion publishes the version and archives whatever version
	// is active for the same plan at commit time, in one transaction.
	ActivateVersion(ctx context.Context, versionID uuid.UUID) error
	UpdateVersionStatus(ctx context.Context, versionID uuid.UUID, status model.VersionStatus, active bool) error

	CreateTask(ctx context.Context, task *model.CarePlanTask) error
	GetTask(ctx context.Context, id uuid.UUID) (*model.CarePlanTask, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus) error
	ListTasks(ctx context.Context, scope entity.Scope, filter entity.TaskFilter) ([]model.CarePlanTask, int64, error)
	CountOverdueTasks(ctx context.Context, scope entity.Scope, now time.Time) (int64, error)

	CreateReview(ctx context.Context, review *model.CarePlanReview) error
	GetReview(ctx context.Context, id uuid.UUID) (*model.CarePlanReview, error)
	UpdateReview(ctx context.Context, review *model.CarePlanReview) error
	ListReviews(ctx context.Context, scope entity.Scope, filter entity.ReviewFilter) ([]model.CarePlanReview, int64, error)
	CountReviewsByClass(ctx context.Context, scope entity.Scope, class entity.DateFilter, now time.Time) (int64, error)
}
