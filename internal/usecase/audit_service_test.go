package usecase_test

import (
	"context"
	"errors"
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

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reads the full feed", func(t *testing.T) {
		mockAudit := new(MockAuditRepository)
		service := usecase.NewAuditService(mockAudit, newUnrestrictedScopes(), zap.NewNop())

		owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}
		mockAudit.On("List", ctx, entity.UnrestrictedScope(), mock.AnythingOfType("entity.AuditFilter")).
			Return([]model.AuditEvent{{ID: uuid.New()}, {ID: uuid.New()}}, int64(2), nil)

		events, meta, err := service.List(ctx, owner, entity.AuditFilter{})

		assert.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, int64(2), meta.Total)
		mockAudit.AssertExpectations(t)
	})

	t.Run("manager feed is narrowed to the assigned homes", func(t *testing.T) {
		mockAudit := new(MockAuditRepository)
		mockAssignments := new(MockAssignmentRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewAuditService(mockAudit, scopes, zap.NewNop())

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		assignedHome := uuid.New()
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{assignedHome}, nil)
		restricted := entity.RestrictedScope([]uuid.UUID{assignedHome})

		mockAudit.On("List", ctx, restricted, mock.AnythingOfType("entity.AuditFilter")).
			Return([]model.AuditEvent{{ID: uuid.New()}}, int64(1), nil)

		events, _, err := service.List(ctx, manager, entity.AuditFilter{})

		assert.NoError(t, err)
		assert.Len(t, events, 1)
		mockAudit.AssertExpectations(t)
	})

	t.Run("manager with no assignments gets an empty scope", func(t *testing.T) {
		mockAudit := new(MockAuditRepository)
		mockAssignments := new(MockAssignmentRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewAuditService(mockAudit, scopes, zap.NewNop())

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{}, nil)

		mockAudit.On("List", ctx, mock.MatchedBy(func(s entity.Scope) bool {
			return s.Empty()
		}), mock.AnythingOfType("entity.AuditFilter")).Return([]model.AuditEvent(nil), int64(0), nil)

		events, meta, err := service.List(ctx, manager, entity.AuditFilter{})

		assert.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, int64(0), meta.Total)
	})

	t.Run("carer has no feed access", func(t *testing.T) {
		mockAudit := new(MockAuditRepository)
		service := usecase.NewAuditService(mockAudit, newUnrestrictedScopes(), zap.NewNop())

		carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
		_, _, err := service.List(ctx, carer, entity.AuditFilter{})

		assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)
		mockAudit.AssertNotCalled(t, "List")
	})

	t.Run("scope failure aborts the read", func(t *testing.T) {
		mockAudit := new(MockAuditRepository)
		mockAssignments := new(MockAssignmentRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewAuditService(mockAudit, scopes, zap.NewNop())

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).
			Return(nil, errors.New("connection refused"))

		_, _, err := service.List(ctx, manager, entity.AuditFilter{})

		assert.ErrorIs(t, err, domainerrors.ErrScopeUnavailable)
		mockAudit.AssertNotCalled(t, "List")
	})
}
