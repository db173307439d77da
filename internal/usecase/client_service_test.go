package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

func TestClientTypeForBirthDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("under eighteen is a child", func(t *testing.T) {
		dob := now.AddDate(-17, 0, 0)
		assert.Equal(t, model.ClientTypeChild, model.ClientTypeForBirthDate(dob, now))
	})

	t.Run("eighteen and over is an adult", func(t *testing.T) {
		dob := now.AddDate(-18, 0, 0)
		assert.Equal(t, model.ClientTypeAdult, model.ClientTypeForBirthDate(dob, now))
	})

	t.Run("day before eighteenth birthday is still a child", func(t *testing.T) {
		dob := now.AddDate(-18, 0, 1)
		assert.Equal(t, model.ClientTypeChild, model.ClientTypeForBirthDate(dob, now))
	})
}

func TestClientService_Create(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}
	scope := entity.UnrestrictedScope()

	t.Run("type derived from date of birth", func(t *testing.T) {
		mockClients := new(MockClientRepository)
		mockHomes := new(MockCareHomeRepository)
		service := usecase.NewClientService(mockClients, mockHomes, newUnrestrictedScopes(), newAuditService(t), logger)

		homeID := uuid.New()
		mockHomes.On("GetByID", ctx, scope, homeID).Return(&model.CareHome{ID: homeID}, nil)
		mockClients.On("Create", ctx, mock.AnythingOfType("*model.Client")).Return(nil)

		client, err := service.Create(ctx, owner, usecase.ClientInput{
			CareHomeID:  homeID,
			FirstName:   "Ada",
			LastName:    "Byron",
			DateOfBirth: time.Now().AddDate(-70, 0, 0),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.ClientTypeAdult, client.ClientType)
		assert.True(t, client.IsActive)
	})

	t.Run("explicit type overrides derivation", func(t *testing.T) {
		mockClients := new(MockClientRepository)
		mockHomes := new(MockCareHomeRepository)
		service := usecase.NewClientService(mockClients, mockHomes, newUnrestrictedScopes(), newAuditService(t), logger)

		homeID := uuid.New()
		childType := model.ClientTypeChild
		mockHomes.On("GetByID", ctx, scope, homeID).Return(&model.CareHome{ID: homeID}, nil)
		mockClients.On("Create", ctx, mock.AnythingOfType("*model.Client")).Return(nil)

		client, err := service.Create(ctx, owner, usecase.ClientInput{
			CareHomeID:  homeID,
			FirstName:   "Ada",
			LastName:    "Byron",
			DateOfBirth: time.Now().AddDate(-70, 0, 0),
			ClientType:  &childType,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.ClientTypeChild, client.ClientType)
	})

	t.Run("carer may not create clients", func(t *testing.T) {
		service := usecase.NewClientService(new(MockClientRepository), new(MockCareHomeRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
		_, err := service.Create(ctx, carer, usecase.ClientInput{
			CareHomeID:  uuid.New(),
			FirstName:   "Ada",
			LastName:    "Byron",
			DateOfBirth: time.Now().AddDate(-70, 0, 0),
		})

		assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)
	})

	t.Run("manager cannot place a client outside scope", func(t *testing.T) {
		mockAssignments := new(MockAssignmentRepository)
		scopes := usecase.NewAccessScopeService(mockAssignments, nil, zap.NewNop())
		service := usecase.NewClientService(new(MockClientRepository), new(MockCareHomeRepository), scopes, newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		mockAssignments.On("CareHomeIDsForManager", ctx, manager.ID).Return([]uuid.UUID{uuid.New()}, nil)

		_, err := service.Create(ctx, manager, usecase.ClientInput{
			CareHomeID:  uuid.New(),
			FirstName:   "Ada",
			LastName:    "Byron",
			DateOfBirth: time.Now().AddDate(-70, 0, 0),
		})

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
	})
}

func TestClientService_Update(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}
	scope := entity.UnrestrictedScope()

	t.Run("client type not re-derived from new birth date", func(t *testing.T) {
		mockClients := new(MockClientRepository)
		service := usecase.NewClientService(mockClients, new(MockCareHomeRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		homeID := uuid.New()
		existing := &model.Client{
			ID:         uuid.New(),
			CareHomeID: homeID,
			ClientType: model.ClientTypeChild,
		}
		mockClients.On("GetByID", ctx, scope, existing.ID).Return(existing, nil)
		mockClients.On("Update", ctx, mock.MatchedBy(func(c *model.Client) bool {
			return c.ClientType == model.ClientTypeChild
		})).Return(nil)

		// New date of birth would derive adult; stored type must survive.
		updated, err := service.Update(ctx, owner, existing.ID, usecase.ClientInput{
			CareHomeID:  homeID,
			FirstName:   "Ada",
			LastName:    "Byron",
			DateOfBirth: time.Now().AddDate(-30, 0, 0),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.ClientTypeChild, updated.ClientType)
	})
}
