package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// IncidentRepository provides access to incidents, actions and followups.
type IncidentRepository interface {
	Create(ctx context.Context, incident *model.Incident) error
	GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.IncidentStatus) error
	List(ctx context.Context, scope entity.Scope, filter entity.IncidentFilter) ([]model.Incident, int64, error)
	CountBySeverity(ctx context.Context, scope entity.Scope, openOnly bool) (map[string]int64, error)

	CreateAction(ctx context.Context, action *model.IncidentAction) error
	GetAction(ctx context.Context, id uuid.UUID) (*model.IncidentAction, error)
	UpdateActionStatus(ctx context.Context, id uuid.UUID, status model.ActionStatus) error
	ListActions(ctx context.Context, incidentID uuid.UUID) ([]model.IncidentAction, error)

	// CreateFollowup appends to the incident timeline. Followups are
	// immutable once written.
	CreateFollowup(ctx context.Context, followup *model.IncidentFollowup) error
	ListFollowups(ctx context.Context, incidentID uuid.UUID) ([]model.IncidentFollowup, error)
}

// HandoverRepository provides access to shift handovers.
type HandoverRepository interface {
	Create(ctx context.Context, handover *model.Handover) error
	GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Handover, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope entity.Scope, filter entity.HandoverFilter) ([]model.Handover, int64, error)
	CountIncomplete(ctx context.Context, scope entity.Scope) (int64, error)
}
