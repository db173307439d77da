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

func TestNotificationService_OwnerOnly(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	for _, role := range []model.Role{model.RoleManager, model.RoleCarer} {
		t.Run(string(role)+" cannot administer the queue", func(t *testing.T) {
			mockQueue := new(MockNotificationRepository)
			service := usecase.NewNotificationService(mockQueue, newAuditService(t), logger)
			actor := entity.Actor{ID: uuid.New(), Role: role}

			_, err := service.Get(ctx, actor, uuid.New())
			assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)

			_, _, err = service.List(ctx, actor, entity.NotificationFilter{})
			assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)

			err = service.Retry(ctx, actor, uuid.New())
			assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)

			err = service.Cancel(ctx, actor, uuid.New())
			assert.ErrorIs(t, err, domainerrors.ErrNotPermitted)

			mockQueue.AssertNotCalled(t, "GetByID")
		})
	}
}

func TestNotificationService_Retry(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}

	t.Run("failed entry requeues", func(t *testing.T) {
		mockQueue := new(MockNotificationRepository)
		service := usecase.NewNotificationService(mockQueue, newAuditService(t), logger)

		entry := &model.NotificationQueueEntry{ID: uuid.New(), Status: model.NotificationStatusFailed}
		mockQueue.On("GetByID", ctx, entry.ID).Return(entry, nil)
		mockQueue.On("UpdateStatus", ctx, entry.ID, model.NotificationStatusQueued).Return(nil)

		err := service.Retry(ctx, owner, entry.ID)

		assert.NoError(t, err)
		mockQueue.AssertExpectations(t)
	})

	t.Run("sent entry cannot be retried", func(t *testing.T) {
		mockQueue := new(MockNotificationRepository)
		service := usecase.NewNotificationService(mockQueue, newAuditService(t), logger)

		entry := &model.NotificationQueueEntry{ID: uuid.New(), Status: model.NotificationStatusSent}
		mockQueue.On("GetByID", ctx, entry.ID).Return(entry, nil)

		err := service.Retry(ctx, owner, entry.ID)

		var transitionErr *domainerrors.TransitionError
		assert.ErrorAs(t, err, &transitionErr)
		mockQueue.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestNotificationService_MarkSent(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: model.RoleBusinessOwner}

	t.Run("sending entry marked sent with timestamp", func(t *testing.T) {
		mockQueue := new(MockNotificationRepository)
		service := usecase.NewNotificationService(mockQueue, newAuditService(t), logger)

		entry := &model.NotificationQueueEntry{ID: uuid.New(), Status: model.NotificationStatusSending}
		mockQueue.On("GetByID", ctx, entry.ID).Return(entry, nil)
		mockQueue.On("MarkSent", ctx, entry.ID, mock.AnythingOfType("time.Time")).Return(nil)

		err := service.MarkSent(ctx, owner, entry.ID)

		assert.NoError(t, err)
		mockQueue.AssertExpectations(t)
	})

	t.Run("marking sent twice is a no-op", func(t *testing.T) {
		mockQueue := new(MockNotificationRepository)
		service := usecase.NewNotificationService(mockQueue, newAuditService(t), logger)

		entry := &model.NotificationQueueEntry{ID: uuid.New(), Status: model.NotificationStatusSent}
		mockQueue.On("GetByID", ctx, entry.ID).Return(entry, nil)

		err := service.MarkSent(ctx, owner, entry.ID)

		assert.NoError(t, err)
		mockQueue.AssertNotCalled(t, "MarkSent")
	})
}
