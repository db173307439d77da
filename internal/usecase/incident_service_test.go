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

func TestIncidentService_Create(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
	scope := entity.UnrestrictedScope()

	t.Run("care home comes from the client", func(t *testing.T) {
		mockIncidents := new(MockIncidentRepository)
		mockClients := new(MockClientRepository)
		service := usecase.NewIncidentService(mockIncidents, mockClients, newUnrestrictedScopes(), newAuditService(t), logger)

		client := &model.Client{ID: uuid.New(), CareHomeID: uuid.New()}
		mockClients.On("GetByID", ctx, scope, client.ID).Return(client, nil)
		mockIncidents.On("Create", ctx, mock.AnythingOfType("*model.Incident")).Return(nil)

		incident, err := service.Create(ctx, carer, usecase.IncidentInput{
			ClientID:   client.ID,
			Title:      "Fall in hallway",
			OccurredAt: time.Now().Add(-time.Hour),
		})

		assert.NoError(t, err)
		assert.Equal(t, client.CareHomeID, incident.CareHomeID)
		assert.Equal(t, model.IncidentStatusOpen, incident.Status)
		assert.Equal(t, model.SeverityLow, incident.Severity)
		assert.Equal(t, carer.ID, incident.ReportedBy)
	})

	t.Run("future occurrence rejected", func(t *testing.T) {
		service := usecase.NewIncidentService(new(MockIncidentRepository), new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		_, err := service.Create(ctx, carer, usecase.IncidentInput{
			ClientID:   uuid.New(),
			Title:      "Fall in hallway",
			OccurredAt: time.Now().Add(time.Hour),
		})

		assert.True(t, domainerrors.IsValidation(err))
	})

	t.Run("out-of-scope client reads as not found", func(t *testing.T) {
		mockClients := new(MockClientRepository)
		service := usecase.NewIncidentService(new(MockIncidentRepository), mockClients, newUnrestrictedScopes(), newAuditService(t), logger)

		clientID := uuid.New()
		mockClients.On("GetByID", ctx, scope, clientID).Return(nil, domainerrors.ErrRecordNotFound)

		_, err := service.Create(ctx, carer, usecase.IncidentInput{
			ClientID:   clientID,
			Title:      "Fall in hallway",
			OccurredAt: time.Now().Add(-time.Hour),
		})

		assert.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
	})
}

func TestIncidentService_Transition(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
	scope := entity.UnrestrictedScope()

	t.Run("forward transition succeeds", func(t *testing.T) {
		mockIncidents := new(MockIncidentRepository)
		service := usecase.NewIncidentService(mockIncidents, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		incident := &model.Incident{ID: uuid.New(), Status: model.IncidentStatusOpen}
		mockIncidents.On("GetByID", ctx, scope, incident.ID).Return(incident, nil)
		mockIncidents.On("UpdateStatus", ctx, incident.ID, model.IncidentStatusInvestigating).Return(nil)

		err := service.Transition(ctx, carer, incident.ID, model.IncidentStatusInvestigating)

		assert.NoError(t, err)
		mockIncidents.AssertExpectations(t)
	})

	t.Run("backward transition rejected", func(t *testing.T) {
		mockIncidents := new(MockIncidentRepository)
		service := usecase.NewIncidentService(mockIncidents, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		incident := &model.Incident{ID: uuid.New(), Status: model.IncidentStatusResolved}
		mockIncidents.On("GetByID", ctx, scope, incident.ID).Return(incident, nil)

		err := service.Transition(ctx, carer, incident.ID, model.IncidentStatusOpen)

		var transitionErr *domainerrors.TransitionError
		assert.ErrorAs(t, err, &transitionErr)
		mockIncidents.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("same status is an accepted no-op", func(t *testing.T) {
		mockIncidents := new(MockIncidentRepository)
		service := usecase.NewIncidentService(mockIncidents, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		incident := &model.Incident{ID: uuid.New(), Status: model.IncidentStatusClosed}
		mockIncidents.On("GetByID", ctx, scope, incident.ID).Return(incident, nil)

		err := service.Transition(ctx, carer, incident.ID, model.IncidentStatusClosed)

		assert.NoError(t, err)
		mockIncidents.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestIncidentService_AddFollowup(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	carer := entity.Actor{ID: uuid.New(), Role: model.RoleCarer}
	scope := entity.UnrestrictedScope()

	t.Run("followup stamps recorder and time", func(t *testing.T) {
		mockIncidents := new(MockIncidentRepository)
		service := usecase.NewIncidentService(mockIncidents, new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		incidentID := uuid.New()
		mockIncidents.On("GetByID", ctx, scope, incidentID).Return(&model.Incident{ID: incidentID}, nil)
		mockIncidents.On("CreateFollowup", ctx, mock.AnythingOfType("*model.IncidentFollowup")).Return(nil)

		followup, err := service.AddFollowup(ctx, carer, incidentID, "Reviewed with family", nil)

		assert.NoError(t, err)
		assert.Equal(t, carer.ID, followup.RecordedBy)
		assert.False(t, followup.RecordedAt.IsZero())
	})

	t.Run("empty note rejected", func(t *testing.T) {
		service := usecase.NewIncidentService(new(MockIncidentRepository), new(MockClientRepository), newUnrestrictedScopes(), newAuditService(t), logger)

		_, err := service.AddFollowup(ctx, carer, uuid.New(), "", nil)

		assert.True(t, domainerrors.IsValidation(err))
	})
}
