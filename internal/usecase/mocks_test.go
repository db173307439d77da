package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, filter entity.ProfileFilter) ([]model.Profile, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockProfileRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) CareHomeIDsForManager(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAssignmentRepository) Assign(ctx context.Context, managerID, careHomeID uuid.UUID) error {
	args := m.Called(ctx, managerID, careHomeID)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Unassign(ctx context.Context, managerID, careHomeID uuid.UUID) error {
	args := m.Called(ctx, managerID, careHomeID)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ManagersForCareHome(ctx context.Context, careHomeID uuid.UUID) ([]model.Profile, error) {
	args := m.Called(ctx, careHomeID)
	return args.Get(0).([]model.Profile), args.Error(1)
}

// MockCareHomeRepository is a mock implementation of CareHomeRepository
type MockCareHomeRepository struct {
	mock.Mock
}

func (m *MockCareHomeRepository) Create(ctx context.Context, home *model.CareHome) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockCareHomeRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.CareHome, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CareHome), args.Error(1)
}

func (m *MockCareHomeRepository) Update(ctx context.Context, home *model.CareHome) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockCareHomeRepository) List(ctx context.Context, scope entity.Scope, filter entity.CareHomeFilter) ([]model.CareHome, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.CareHome), args.Get(1).(int64), args.Error(2)
}

func (m *MockCareHomeRepository) Count(ctx context.Context, scope entity.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Client, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, scope entity.Scope, filter entity.ClientFilter) ([]model.Client, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) CountActive(ctx context.Context, scope entity.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

// MockCarePlanRepository is a mock implementation of CarePlanRepository
type MockCarePlanRepository struct {
	mock.Mock
}

func (m *MockCarePlanRepository) CreatePlan(ctx context.Context, plan *model.CarePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockCarePlanRepository) GetPlan(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.CarePlan, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CarePlan), args.Error(1)
}

func (m *MockCarePlanRepository) UpdatePlan(ctx context.Context, plan *model.CarePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockCarePlanRepository) ListPlans(ctx context.Context, scope entity.Scope, filter entity.CarePlanFilter) ([]model.CarePlan, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.CarePlan), args.Get(1).(int64), args.Error(2)
}

func (m *MockCarePlanRepository) CreateVersion(ctx context.Context, version *model.CarePlanVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockCarePlanRepository) GetVersion(ctx context.Context, id uuid.UUID) (*model.CarePlanVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CarePlanVersion), args.Error(1)
}

func (m *MockCarePlanRepository) GetActiveVersion(ctx context.Context, carePlanID uuid.UUID) (*model.CarePlanVersion, error) {
	args := m.Called(ctx, carePlanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CarePlanVersion), args.Error(1)
}

func (m *MockCarePlanRepository) ListVersions(ctx context.Context, carePlanID uuid.UUID) ([]model.CarePlanVersion, error) {
	args := m.Called(ctx, carePlanID)
	return args.Get(0).([]model.CarePlanVersion), args.Error(1)
}

func (m *MockCarePlanRepository) ActivateVersion(ctx context.Context, versionID uuid.UUID) error {
	args := m.Called(ctx, versionID)
	return args.Error(0)
}

func (m *MockCarePlanRepository) UpdateVersionStatus(ctx context.Context, versionID uuid.UUID, status model.VersionStatus, active bool) error {
	args := m.Called(ctx, versionID, status, active)
	return args.Error(0)
}

func (m *MockCarePlanRepository) CreateTask(ctx context.Context, task *model.CarePlanTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockCarePlanRepository) GetTask(ctx context.Context, id uuid.UUID) (*model.CarePlanTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CarePlanTask), args.Error(1)
}

func (m *MockCarePlanRepository) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCarePlanRepository) ListTasks(ctx context.Context, scope entity.Scope, filter entity.TaskFilter) ([]model.CarePlanTask, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.CarePlanTask), args.Get(1).(int64), args.Error(2)
}

func (m *MockCarePlanRepository) CountOverdueTasks(ctx context.Context, scope entity.Scope, now time.Time) (int64, error) {
	args := m.Called(ctx, scope, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarePlanRepository) CreateReview(ctx context.Context, review *model.CarePlanReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockCarePlanRepository) GetReview(ctx context.Context, id uuid.UUID) (*model.CarePlanReview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CarePlanReview), args.Error(1)
}

func (m *MockCarePlanRepository) UpdateReview(ctx context.Context, review *model.CarePlanReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockCarePlanRepository) ListReviews(ctx context.Context, scope entity.Scope, filter entity.ReviewFilter) ([]model.CarePlanReview, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.CarePlanReview), args.Get(1).(int64), args.Error(2)
}

func (m *MockCarePlanRepository) CountReviewsByClass(ctx context.Context, scope entity.Scope, class entity.DateFilter, now time.Time) (int64, error) {
	args := m.Called(ctx, scope, class, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockIncidentRepository is a mock implementation of IncidentRepository
type MockIncidentRepository struct {
	mock.Mock
}

func (m *MockIncidentRepository) Create(ctx context.Context, incident *model.Incident) error {
	args := m.Called(ctx, incident)
	return args.Error(0)
}

func (m *MockIncidentRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Incident, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Incident), args.Error(1)
}

func (m *MockIncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.IncidentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockIncidentRepository) List(ctx context.Context, scope entity.Scope, filter entity.IncidentFilter) ([]model.Incident, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.Incident), args.Get(1).(int64), args.Error(2)
}

func (m *MockIncidentRepository) CountBySeverity(ctx context.Context, scope entity.Scope, openOnly bool) (map[string]int64, error) {
	args := m.Called(ctx, scope, openOnly)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockIncidentRepository) CreateAction(ctx context.Context, action *model.IncidentAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockIncidentRepository) GetAction(ctx context.Context, id uuid.UUID) (*model.IncidentAction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IncidentAction), args.Error(1)
}

func (m *MockIncidentRepository) UpdateActionStatus(ctx context.Context, id uuid.UUID, status model.ActionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockIncidentRepository) ListActions(ctx context.Context, incidentID uuid.UUID) ([]model.IncidentAction, error) {
	args := m.Called(ctx, incidentID)
	return args.Get(0).([]model.IncidentAction), args.Error(1)
}

func (m *MockIncidentRepository) CreateFollowup(ctx context.Context, followup *model.IncidentFollowup) error {
	args := m.Called(ctx, followup)
	return args.Error(0)
}

func (m *MockIncidentRepository) ListFollowups(ctx context.Context, incidentID uuid.UUID) ([]model.IncidentFollowup, error) {
	args := m.Called(ctx, incidentID)
	return args.Get(0).([]model.IncidentFollowup), args.Error(1)
}

// MockHandoverRepository is a mock implementation of HandoverRepository
type MockHandoverRepository struct {
	mock.Mock
}

func (m *MockHandoverRepository) Create(ctx context.Context, handover *model.Handover) error {
	args := m.Called(ctx, handover)
	return args.Error(0)
}

func (m *MockHandoverRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Handover, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Handover), args.Error(1)
}

func (m *MockHandoverRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHandoverRepository) List(ctx context.Context, scope entity.Scope, filter entity.HandoverFilter) ([]model.Handover, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.Handover), args.Get(1).(int64), args.Error(2)
}

func (m *MockHandoverRepository) CountIncomplete(ctx context.Context, scope entity.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationQueueEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationQueueEntry), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, filter entity.NotificationFilter) ([]model.NotificationQueueEntry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.NotificationQueueEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockNotificationRepository) ClaimQueued(ctx context.Context, limit int) ([]model.NotificationQueueEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.NotificationQueueEntry), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, event *model.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, scope entity.Scope, filter entity.AuditFilter) ([]model.AuditEvent, int64, error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).([]model.AuditEvent), args.Get(1).(int64), args.Error(2)
}

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) List(ctx context.Context, prefix string) ([]usecase.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]usecase.ObjectInfo), args.Error(1)
}

func (m *MockObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

// MockChannelSender is a mock implementation of ChannelSender
type MockChannelSender struct {
	mock.Mock
}

func (m *MockChannelSender) Send(ctx context.Context, entry *model.NotificationQueueEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
