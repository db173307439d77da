package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

func newAuditService(t *testing.T) *usecase.AuditService {
	t.Helper()
	mockAudit := new(MockAuditRepository)
	mockAudit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditEvent")).Return(nil).Maybe()
	return usecase.NewAuditService(mockAudit, newUnrestrictedScopes(), zap.NewNop())
}

func newUnrestrictedScopes() *usecase.AccessScopeService {
	return usecase.NewAccessScopeService(new(MockAssignmentRepository), nil, zap.NewNop())
}

func TestCarePlanService_CreateTask(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}
	scope := entity.UnrestrictedScope()

	t.Run("task attaches to the active version", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		active := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusActive, IsActive: true}

		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)
		mockPlans.On("GetActiveVersion", ctx, planID).Return(active, nil)
		mockPlans.On("CreateTask", ctx, mock.AnythingOfType("*model.CarePlanTask")).Return(nil)

		task, err := service.CreateTask(ctx, owner, planID, usecase.TaskInput{Title: "Morning medication"})

		assert.NoError(t, err)
		assert.Equal(t, active.ID, task.CarePlanVersionID)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		mockPlans.AssertExpectations(t)
	})

	t.Run("no active version is a conflict", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)
		mockPlans.On("GetActiveVersion", ctx, planID).Return(nil, domainerrors.ErrRecordNotFound)

		_, err := service.CreateTask(ctx, owner, planID, usecase.TaskInput{Title: "Morning medication"})

		assert.ErrorIs(t, err, domainerrors.ErrNoActiveVersion)
		mockPlans.AssertNotCalled(t, "CreateTask")
	})

	t.Run("empty title rejected", func(t *testing.T) {
		service := usecase.NewCarePlanService(new(MockCarePlanRepository), new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		_, err := service.CreateTask(ctx, owner, uuid.New(), usecase.TaskInput{})

		assert.True(t, domainerrors.IsValidation(err))
	})
}

func TestCarePlanService_ActivateVersion(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}
	scope := entity.UnrestrictedScope()

	t.Run("draft version activates", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		version := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusDraft}

		mockPlans.On("GetVersion", ctx, version.ID).Return(version, nil)
		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)
		mockPlans.On("ActivateVersion", ctx, version.ID).Return(nil)

		err := service.ActivateVersion(ctx, owner, version.ID)

		assert.NoError(t, err)
		mockPlans.AssertExpectations(t)
	})

	t.Run("activating the active version is a no-op", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		version := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusActive, IsActive: true}

		mockPlans.On("GetVersion", ctx, version.ID).Return(version, nil)
		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)

		err := service.ActivateVersion(ctx, owner, version.ID)

		assert.NoError(t, err)
		mockPlans.AssertNotCalled(t, "ActivateVersion")
	})

	t.Run("archived version cannot be reactivated", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		version := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusArchived}

		mockPlans.On("GetVersion", ctx, version.ID).Return(version, nil)
		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)

		err := service.ActivateVersion(ctx, owner, version.ID)

		var transitionErr *domainerrors.TransitionError
		assert.ErrorAs(t, err, &transitionErr)
		mockPlans.AssertNotCalled(t, "ActivateVersion")
	})

	t.Run("version of an out-of-scope plan reads as not found", func(t *testing.T) {
		mockAssignments := new(MockAssignmentRepository)
		mockPlans := new(MockCarePlanRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), scopes, newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		assignedHome := uuid.New()
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{assignedHome}, nil)

		planID := uuid.New()
		version := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusDraft}
		restricted := entity.RestrictedScope([]uuid.UUID{assignedHome})

		mockPlans.On("GetVersion", ctx, version.ID).Return(version, nil)
		mockPlans.On("GetPlan", ctx, restricted, planID).Return(nil, domainerrors.ErrRecordNotFound)

		err := service.ActivateVersion(ctx, manager, version.ID)

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
		mockPlans.AssertNotCalled(t, "ActivateVersion")
	})
}

func TestCarePlanService_CreateVersion(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}
	scope := entity.UnrestrictedScope()

	t.Run("new version starts as draft", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)
		mockPlans.On("CreateVersion", ctx, mock.AnythingOfType("*model.CarePlanVersion")).Return(nil)

		version, err := service.CreateVersion(ctx, owner, planID, usecase.VersionInput{Summary: "Updated goals"})

		assert.NoError(t, err)
		assert.Equal(t, model.VersionStatusDraft, version.Status)
		assert.False(t, version.IsActive)
		mockPlans.AssertNotCalled(t, "ActivateVersion")
	})

	t.Run("activate flag publishes immediately", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		mockPlans.On("GetPlan", ctx, scope, planID).Return(&model.CarePlan{ID: planID}, nil)
		mockPlans.On("CreateVersion", ctx, mock.AnythingOfType("*model.CarePlanVersion")).Return(nil)
		mockPlans.On("ActivateVersion", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

		version, err := service.CreateVersion(ctx, owner, planID, usecase.VersionInput{Summary: "Updated goals", Activate: true})

		assert.NoError(t, err)
		assert.Equal(t, model.VersionStatusActive, version.Status)
		assert.True(t, version.IsActive)
		mockPlans.AssertExpectations(t)
	})
}

func TestCarePlanService_TransitionReview(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}

	t.Run("completing stamps who and when", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		review := &model.CarePlanReview{ID: uuid.New(), CarePlanID: uuid.New(), Status: model.ReviewStatusScheduled}
		mockPlans.On("GetReview", ctx, review.ID).Return(review, nil)
		mockPlans.On("GetPlan", ctx, entity.UnrestrictedScope(), review.CarePlanID).Return(&model.CarePlan{ID: review.CarePlanID}, nil)
		mockPlans.On("UpdateReview", ctx, mock.MatchedBy(func(r *model.CarePlanReview) bool {
			return r.Status == model.ReviewStatusCompleted && r.CompletedAt != nil && r.CompletedBy != nil && *r.CompletedBy == carer.ID
		})).Return(nil)

		err := service.TransitionReview(ctx, carer, review.ID, model.ReviewStatusCompleted, "all fine")

		assert.NoError(t, err)
		mockPlans.AssertExpectations(t)
	})

	t.Run("overdue is not a settable status", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		review := &model.CarePlanReview{ID: uuid.New(), CarePlanID: uuid.New(), Status: model.ReviewStatusScheduled}
		mockPlans.On("GetReview", ctx, review.ID).Return(review, nil)
		mockPlans.On("GetPlan", ctx, entity.UnrestrictedScope(), review.CarePlanID).Return(&model.CarePlan{ID: review.CarePlanID}, nil)

		err := service.TransitionReview(ctx, carer, review.ID, model.ReviewStatusOverdue, "")

		assert.True(t, domainerrors.IsValidation(err))
		mockPlans.AssertNotCalled(t, "UpdateReview")
	})

	t.Run("review of an out-of-scope plan reads as not found", func(t *testing.T) {
		mockAssignments := new(MockAssignmentRepository)
		mockPlans := new(MockCarePlanRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), scopes, newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		assignedHome := uuid.New()
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{assignedHome}, nil)
		restricted := entity.RestrictedScope([]uuid.UUID{assignedHome})

		review := &model.CarePlanReview{ID: uuid.New(), CarePlanID: uuid.New(), Status: model.ReviewStatusScheduled}
		mockPlans.On("GetReview", ctx, review.ID).Return(review, nil)
		mockPlans.On("GetPlan", ctx, restricted, review.CarePlanID).Return(nil, domainerrors.ErrRecordNotFound)

		err := service.TransitionReview(ctx, manager, review.ID, model.ReviewStatusCompleted, "")

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
		mockPlans.AssertNotCalled(t, "UpdateReview")
	})
}

func TestCarePlanService_TransitionTask(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}

	t.Run("in-scope task transitions", func(t *testing.T) {
		mockPlans := new(MockCarePlanRepository)
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		planID := uuid.New()
		version := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusActive}
		task := &model.CarePlanTask{ID: uuid.New(), CarePlanVersionID: version.ID, Status: model.TaskStatusPending}

		mockPlans.On("GetTask", ctx, task.ID).Return(task, nil)
		mockPlans.On("GetVersion", ctx, version.ID).Return(version, nil)
		mockPlans.On("GetPlan", ctx, entity.UnrestrictedScope(), planID).Return(&model.CarePlan{ID: planID}, nil)
		mockPlans.On("UpdateTaskStatus", ctx, task.ID, model.TaskStatusInProgress).Return(nil)

		err := service.TransitionTask(ctx, carer, task.ID, model.TaskStatusInProgress)

		assert.NoError(t, err)
		mockPlans.AssertExpectations(t)
	})

	t.Run("task of an out-of-scope plan reads as not found", func(t *testing.T) {
		mockAssignments := new(MockAssignmentRepository)
		mockPlans := new(MockCarePlanRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), scopes, newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		assignedHome := uuid.New()
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{assignedHome}, nil)
		restricted := entity.RestrictedScope([]uuid.UUID{assignedHome})

		planID := uuid.New()
		version := &model.CarePlanVersion{ID: uuid.New(), CarePlanID: planID, Status: model.VersionStatusActive}
		task := &model.CarePlanTask{ID: uuid.New(), CarePlanVersionID: version.ID, Status: model.TaskStatusPending}

		mockPlans.On("GetTask", ctx, task.ID).Return(task, nil)
		mockPlans.On("GetVersion", ctx, version.ID).Return(version, nil)
		mockPlans.On("GetPlan", ctx, restricted, planID).Return(nil, domainerrors.ErrRecordNotFound)

		err := service.TransitionTask(ctx, manager, task.ID, model.TaskStatusCancelled)

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
		mockPlans.AssertNotCalled(t, "UpdateTaskStatus")
	})
}

func TestCarePlanService_ListTasks(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("manager scope narrows the query", func(t *testing.T) {
		mockAssignments := new(MockAssignmentRepository)
		mockPlans := new(MockCarePlanRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), scopes, newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		assignedHome := uuid.New()
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{assignedHome}, nil)
		restricted := entity.RestrictedScope([]uuid.UUID{assignedHome})

		mockPlans.On("ListTasks", ctx, restricted, mock.AnythingOfType("entity.TaskFilter")).
			Return([]model.CarePlanTask{{ID: uuid.New()}}, int64(1), nil)

		tasks, meta, err := service.ListTasks(ctx, manager, entity.TaskFilter{})

		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
		assert.Equal(t, int64(1), meta.Total)
		mockPlans.AssertExpectations(t)
	})

	t.Run("manager with no assignments sees nothing", func(t *testing.T) {
		mockAssignments := new(MockAssignmentRepository)
		mockPlans := new(MockCarePlanRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewCarePlanService(mockPlans, new(MockClientRepository), scopes, newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{}, nil)

		mockPlans.On("ListTasks", ctx, mock.MatchedBy(func(s entity.Scope) bool {
			return s.Empty()
		}), mock.AnythingOfType("entity.TaskFilter")).Return([]model.CarePlanTask(nil), int64(0), nil)

		tasks, meta, err := service.ListTasks(ctx, manager, entity.TaskFilter{})

		assert.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Equal(t, int64(0), meta.Total)
		mockPlans.AssertExpectations(t)
	})
}
