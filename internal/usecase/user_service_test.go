package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

func TestUserService_ChangeRole(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}

	t.Run("owner changes a role", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		targetID := uuid.New()
		mockProfiles.On("GetByID", ctx, targetID).Return(&model.Profile{ID: targetID, Role: model.RoleCarer}, nil)
		mockProfiles.On("UpdateRole", ctx, targetID, model.RoleManager).Return(nil)

		err := service.ChangeRole(ctx, owner, targetID, model.RoleManager)

		assert.NoError(t, err)
		mockProfiles.AssertExpectations(t)
	})

	t.Run("cannot change own role", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		err := service.ChangeRole(ctx, owner, owner.ID, model.RoleCarer)

		assert.True(t, domainerrors.IsValidation(err))
		mockProfiles.AssertNotCalled(t, "UpdateRole")
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		targetID := uuid.New()
		mockProfiles.On("GetByID", ctx, targetID).Return(&model.Profile{ID: targetID, Role: model.RoleManager}, nil)

		err := service.ChangeRole(ctx, owner, targetID, model.RoleManager)

		assert.NoError(t, err)
		mockProfiles.AssertNotCalled(t, "UpdateRole")
	})

	t.Run("manager cannot administer users", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		manager := entity.Actor{ID: uuid.New(), Role: model.RoleManager}
		err := service.ChangeRole(ctx, manager, uuid.New(), model.RoleCarer)

		assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)
	})
}

func TestUserService_SetActive(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}

	t.Run("owner deactivates a profile", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		targetID := uuid.New()
		mockProfiles.On("SetActive", ctx, targetID, false).Return(nil)

		err := service.SetActive(ctx, owner, targetID, false)

		assert.NoError(t, err)
		mockProfiles.AssertExpectations(t)
	})

	t.Run("cannot deactivate yourself", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		err := service.SetActive(ctx, owner, owner.ID, false)

		assert.True(t, domainerrors.IsValidation(err))
		mockProfiles.AssertNotCalled(t, "SetActive")
	})

	t.Run("reactivating yourself is allowed", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		mockProfiles.On("SetActive", ctx, owner.ID, true).Return(nil)

		err := service.SetActive(ctx, owner, owner.ID, true)

		assert.NoError(t, err)
	})
}

func TestUserService_Get(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("carer may read own profile", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
		mockProfiles.On("GetByID", ctx, carer.ID).Return(&model.Profile{ID: carer.ID}, nil)

		profile, err := service.Get(ctx, carer, carer.ID)

		assert.NoError(t, err)
		assert.Equal(t, carer.ID, profile.ID)
	})

	t.Run("carer may not read other profiles", func(t *testing.T) {
		mockProfiles := new(MockProfileRepository)
		service := usecase.NewUserService(mockProfiles, newUnrestrictedScopes(), newAuditService(t), logger)

		carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
		_, err := service.Get(ctx, carer, uuid.New())

		assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)
		mockProfiles.AssertNotCalled(t, "GetByID")
	})
}
