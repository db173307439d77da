package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/lifecycle"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// CarePlanInput carries the writable plan fields.
type CarePlanInput struct {
	ClientID    uuid.UUID
	Title       string
	Description string
	ReviewDate  *time.Time
}

// VersionInput carries the writable version fields. Activate publishes the
// version immediately instead of leaving it as a draft.
type VersionInput struct {
	Summary  string
	Goals    string
	Activate bool
}

// TaskInput carries the writable task fields.
type TaskInput struct {
	Title       string
	Description string
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

// CarePlanService manages care plans, their versioned content, tasks and
// reviews. All roles may record care; scope narrows which clients' plans
// an actor can reach at all.
type CarePlanService struct {
	planRepo   domainRepo.CarePlanRepository
	clientRepo domainRepo.ClientRepository
	scopes     *AccessScopeService
	audit      *AuditService
	logger     *zap.Logger
	now        func() time.Time
}

// NewCarePlanService creates a new care plan service
func NewCarePlanService(
	planRepo domainRepo.CarePlanRepository,
	clientRepo domainRepo.ClientRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	logger *zap.Logger,
) *CarePlanService {
	return &CarePlanService{
		planRepo:   planRepo,
		clientRepo: clientRepo,
		scopes:     scopes,
		audit:      audit,
		logger:     logger,
		now:        time.Now,
	}
}

// Create creates a care plan for a client in the actor's scope.
func (s *CarePlanService) Create(ctx context.Context, actor entity.Actor, input CarePlanInput) (*model.CarePlan, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if input.Title == "" {
		return nil, domainerrors.NewValidationError("care plan title is required")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.GetByID(ctx, scope, input.ClientID); err != nil {
		return nil, err
	}

	plan := &model.CarePlan{
		ID:          uuid.New(),
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		ReviewDate:  input.ReviewDate,
		IsActive:    true,
		CreatedBy:   actor.ID,
	}

	if err := s.planRepo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "care_plan", plan.ID, "created",
		"Care plan "+plan.Title+" created", map[string]interface{}{
			"client_id": plan.ClientID.String(),
		})

	return plan, nil
}

// Get returns a care plan visible to the actor.
func (s *CarePlanService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.CarePlan, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetPlan(ctx, scope, id)
}

// List returns care plans visible to the actor.
func (s *CarePlanService) List(ctx context.Context, actor entity.Actor, filter entity.CarePlanFilter) ([]model.CarePlan, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	plans, total, err := s.planRepo.ListPlans(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return plans, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Update edits the plan header fields.
func (s *CarePlanService) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, input CarePlanInput) (*model.CarePlan, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if input.Title == "" {
		return nil, domainerrors.NewValidationError("care plan title is required")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetPlan(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	plan.Title = input.Title
	plan.Description = input.Description
	plan.ReviewDate = input.ReviewDate

	if err := s.planRepo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "care_plan", plan.ID, "updated",
		"Care plan "+plan.Title+" updated", nil)

	return plan, nil
}

// CreateVersion adds a new version to a plan. The repository assigns the
// next version number. When input.Activate is set the version is published
// immediately, archiving the previously active one.
func (s *CarePlanService) CreateVersion(ctx context.Context, actor entity.Actor, planID uuid.UUID, input VersionInput) (*model.CarePlanVersion, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, planID); err != nil {
		return nil, err
	}

	version := &model.CarePlanVersion{
		ID:         uuid.New(),
		CarePlanID: planID,
		Status:     model.VersionStatusDraft,
		Summary:    input.Summary,
		Goals:      input.Goals,
		CreatedBy:  actor.ID,
	}

	if err := s.planRepo.CreateVersion(ctx, version); err != nil {
		return nil, err
	}

	if input.Activate {
		if err := s.planRepo.ActivateVersion(ctx, version.ID); err != nil {
			return nil, err
		}
		version.Status = model.VersionStatusActive
		version.IsActive = true
	}

	s.audit.Record(ctx, actor, "care_plan", planID, "version_created",
		"Care plan version created", map[string]interface{}{
			"version_id": version.ID.String(),
			"version":    version.VersionNumber,
			"activated":  input.Activate,
		})

	return version, nil
}

// ListVersions returns a plan's versions, newest first.
func (s *CarePlanService) ListVersions(ctx context.Context, actor entity.Actor, planID uuid.UUID) ([]model.CarePlanVersion, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, planID); err != nil {
		return nil, err
	}
	return s.planRepo.ListVersions(ctx, planID)
}

// ActivateVersion publishes a draft version. The previously active version
// of the same plan is archived in the same transaction, keeping at most
// one version active per plan. Activating an already active version is a
// no-op.
func (s *CarePlanService) ActivateVersion(ctx context.Context, actor entity.Actor, versionID uuid.UUID) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	version, err := s.versionInScope(ctx, actor, versionID)
	if err != nil {
		return err
	}
	if version.IsActive {
		return nil
	}
	if err := lifecycle.ValidateVersionTransition(version.Status, model.VersionStatusActive); err != nil {
		return err
	}

	if err := s.planRepo.ActivateVersion(ctx, versionID); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "care_plan", version.CarePlanID, "version_activated",
		"Care plan version activated", map[string]interface{}{
			"version_id": versionID.String(),
			"version":    version.VersionNumber,
		})
	return nil
}

// ArchiveVersion retires a version without publishing a replacement.
func (s *CarePlanService) ArchiveVersion(ctx context.Context, actor entity.Actor, versionID uuid.UUID) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	version, err := s.versionInScope(ctx, actor, versionID)
	if err != nil {
		return err
	}
	if err := lifecycle.ValidateVersionTransition(version.Status, model.VersionStatusArchived); err != nil {
		return err
	}
	if version.Status == model.VersionStatusArchived {
		return nil
	}

	if err := s.planRepo.UpdateVersionStatus(ctx, versionID, model.VersionStatusArchived, false); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "care_plan", version.CarePlanID, "version_archived",
		"Care plan version archived", map[string]interface{}{
			"version_id": versionID.String(),
		})
	return nil
}

// CreateTask attaches a task to the plan's active version. A plan with no
// active version cannot accept tasks.
func (s *CarePlanService) CreateTask(ctx context.Context, actor entity.Actor, planID uuid.UUID, input TaskInput) (*model.CarePlanTask, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if input.Title == "" {
		return nil, domainerrors.NewValidationError("task title is required")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, planID); err != nil {
		return nil, err
	}

	active, err := s.planRepo.GetActiveVersion(ctx, planID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrRecordNotFound) {
			return nil, domainerrors.ErrNoActiveVersion
		}
		return nil, err
	}

	task := &model.CarePlanTask{
		ID:                uuid.New(),
		CarePlanVersionID: active.ID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            model.TaskStatusPending,
		AssignedTo:        input.AssignedTo,
		DueDate:           input.DueDate,
	}

	if err := s.planRepo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "care_plan", planID, "task_created",
		"Task "+task.Title+" created", map[string]interface{}{
			"task_id":    task.ID.String(),
			"version_id": active.ID.String(),
		})

	return task, nil
}

// TransitionTask moves a task between statuses. Same-status calls are
// accepted and change nothing.
func (s *CarePlanService) TransitionTask(ctx context.Context, actor entity.Actor, taskID uuid.UUID, to model.TaskStatus) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	task, err := s.taskInScope(ctx, actor, taskID)
	if err != nil {
		return err
	}
	if err := lifecycle.ValidateTaskTransition(task.Status, to); err != nil {
		return err
	}
	if task.Status == to {
		return nil
	}

	if err := s.planRepo.UpdateTaskStatus(ctx, taskID, to); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "care_plan_task", taskID, "status_changed",
		"Task moved to "+string(to), map[string]interface{}{
			"from": string(task.Status),
			"to":   string(to),
		})
	return nil
}

// ListTasks returns tasks matching the filter, narrowed to the plans the
// actor can see.
func (s *CarePlanService) ListTasks(ctx context.Context, actor entity.Actor, filter entity.TaskFilter) ([]model.CarePlanTask, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	tasks, total, err := s.planRepo.ListTasks(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return tasks, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// ScheduleReview schedules a review for a care plan.
func (s *CarePlanService) ScheduleReview(ctx context.Context, actor entity.Actor, planID uuid.UUID, scheduledFor time.Time, notes string) (*model.CarePlanReview, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if scheduledFor.IsZero() {
		return nil, domainerrors.NewValidationError("review date is required")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, planID); err != nil {
		return nil, err
	}

	review := &model.CarePlanReview{
		ID:           uuid.New(),
		CarePlanID:   planID,
		ScheduledFor: scheduledFor,
		Status:       model.ReviewStatusScheduled,
		Notes:        notes,
	}

	if err := s.planRepo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "care_plan", planID, "review_scheduled",
		"Review scheduled", map[string]interface{}{
			"review_id":     review.ID.String(),
			"scheduled_for": scheduledFor.Format(time.RFC3339),
		})

	return review, nil
}

// TransitionReview moves a review between statuses. Completing a review
// stamps who completed it and when. Overdue is derived from the schedule
// and is never a transition target.
func (s *CarePlanService) TransitionReview(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, to model.ReviewStatus, notes string) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	review, err := s.planRepo.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, review.CarePlanID); err != nil {
		return err
	}
	if err := lifecycle.ValidateReviewTransition(review.Status, to); err != nil {
		return err
	}
	if review.Status == to {
		return nil
	}

	review.Status = to
	if notes != "" {
		review.Notes = notes
	}
	if to == model.ReviewStatusCompleted {
		now := s.now()
		review.CompletedAt = &now
		review.CompletedBy = &actor.ID
	}

	if err := s.planRepo.UpdateReview(ctx, review); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "care_plan_review", reviewID, "status_changed",
		"Review moved to "+string(to), map[string]interface{}{
			"care_plan_id": review.CarePlanID.String(),
			"to":           string(to),
		})
	return nil
}

// ListReviews returns reviews visible to the actor. The due filter uses
// the shared date classification, so "due" and "upcoming" here match the
// dashboard counts exactly.
func (s *CarePlanService) ListReviews(ctx context.Context, actor entity.Actor, filter entity.ReviewFilter) ([]model.CarePlanReview, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	reviews, total, err := s.planRepo.ListReviews(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return reviews, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// taskInScope loads a task and checks the owning plan is visible to the
// actor, masking out-of-scope tasks as not found.
func (s *CarePlanService) taskInScope(ctx context.Context, actor entity.Actor, taskID uuid.UUID) (*model.CarePlanTask, error) {
	task, err := s.planRepo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	version, err := s.planRepo.GetVersion(ctx, task.CarePlanVersionID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, version.CarePlanID); err != nil {
		return nil, err
	}
	return task, nil
}

// versionInScope loads a version and checks the owning plan is visible to
// the actor, masking out-of-scope versions as not found.
func (s *CarePlanService) versionInScope(ctx context.Context, actor entity.Actor, versionID uuid.UUID) (*model.CarePlanVersion, error) {
	version, err := s.planRepo.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.planRepo.GetPlan(ctx, scope, version.CarePlanID); err != nil {
		return nil, err
	}
	return version, nil
}
