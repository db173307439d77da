package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/lifecycle"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// IncidentInput carries the writable incident fields.
type IncidentInput struct {
	ClientID         uuid.UUID
	Title            string
	Description      string
	IncidentType     string
	Severity         model.Severity
	OccurredAt       time.Time
	FollowUpRequired bool
}

// ActionInput carries the writable incident action fields.
type ActionInput struct {
	Description string
	AssignedTo  *uuid.UUID
	DueAt       *time.Time
}

// IncidentService manages incidents, their remedial actions and the
// append-only follow-up timeline. Status transitions are forward-only.
type IncidentService struct {
	incidentRepo domainRepo.IncidentRepository
	clientRepo   domainRepo.ClientRepository
	scopes       *AccessScopeService
	audit        *AuditService
	logger       *zap.Logger
	now          func() time.Time
}

// NewIncidentService creates a new incident service
func NewIncidentService(
	incidentRepo domainRepo.IncidentRepository,
	clientRepo domainRepo.ClientRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	logger *zap.Logger,
) *IncidentService {
	return &IncidentService{
		incidentRepo: incidentRepo,
		clientRepo:   clientRepo,
		scopes:       scopes,
		audit:        audit,
		logger:       logger,
		now:          time.Now,
	}
}

// Create records a new incident against a client in the actor's scope.
// The incident's care home is taken from the client, not the caller.
func (s *IncidentService) Create(ctx context.Context, actor entity.Actor, input IncidentInput) (*model.Incident, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if input.Title == "" {
		return nil, domainerrors.NewValidationError("incident title is required")
	}
	if input.OccurredAt.IsZero() || input.OccurredAt.After(s.now()) {
		return nil, domainerrors.NewValidationError("occurrence time must be in the past")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, scope, input.ClientID)
	if err != nil {
		return nil, err
	}

	severity := input.Severity
	if severity == "" {
		severity = model.SeverityLow
	}

	incident := &model.Incident{
		ID:               uuid.New(),
		ClientID:         client.ID,
		CareHomeID:       client.CareHomeID,
		Title:            input.Title,
		Description:      input.Description,
		IncidentType:     input.IncidentType,
		Severity:         severity,
		Status:           model.IncidentStatusOpen,
		OccurredAt:       input.OccurredAt,
		ReportedBy:       actor.ID,
		FollowUpRequired: input.FollowUpRequired,
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "incident", incident.ID, "created",
		"Incident "+incident.Title+" reported", map[string]interface{}{
			"client_id": incident.ClientID.String(),
			"severity":  string(incident.Severity),
		})

	return incident, nil
}

// Get returns an incident visible to the actor.
func (s *IncidentService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.Incident, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.incidentRepo.GetByID(ctx, scope, id)
}

// List returns incidents visible to the actor.
func (s *IncidentService) List(ctx context.Context, actor entity.Actor, filter entity.IncidentFilter) ([]model.Incident, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	incidents, total, err := s.incidentRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return incidents, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Transition moves an incident along open -> investigating -> resolved ->
// closed. Backward moves are rejected; same-status calls succeed without
// changing anything.
func (s *IncidentService) Transition(ctx context.Context, actor entity.Actor, id uuid.UUID, to model.IncidentStatus) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	incident, err := s.incidentRepo.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := lifecycle.ValidateIncidentTransition(incident.Status, to); err != nil {
		return err
	}
	if incident.Status == to {
		return nil
	}

	if err := s.incidentRepo.UpdateStatus(ctx, id, to); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "incident", id, "status_changed",
		"Incident moved to "+string(to), map[string]interface{}{
			"from": string(incident.Status),
			"to":   string(to),
		})
	return nil
}

// CreateAction attaches a remedial action to an incident.
func (s *IncidentService) CreateAction(ctx context.Context, actor entity.Actor, incidentID uuid.UUID, input ActionInput) (*model.IncidentAction, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if input.Description == "" {
		return nil, domainerrors.NewValidationError("action description is required")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.incidentRepo.GetByID(ctx, scope, incidentID); err != nil {
		return nil, err
	}

	action := &model.IncidentAction{
		ID:          uuid.New(),
		IncidentID:  incidentID,
		Description: input.Description,
		Status:      model.ActionStatusPending,
		AssignedTo:  input.AssignedTo,
		DueAt:       input.DueAt,
	}

	if err := s.incidentRepo.CreateAction(ctx, action); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "incident", incidentID, "action_created",
		"Incident action created", map[string]interface{}{
			"action_id": action.ID.String(),
		})

	return action, nil
}

// TransitionAction moves an incident action between statuses.
func (s *IncidentService) TransitionAction(ctx context.Context, actor entity.Actor, actionID uuid.UUID, to model.ActionStatus) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	action, err := s.incidentRepo.GetAction(ctx, actionID)
	if err != nil {
		return err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if _, err := s.incidentRepo.GetByID(ctx, scope, action.IncidentID); err != nil {
		return err
	}

	if err := lifecycle.ValidateActionTransition(action.Status, to); err != nil {
		return err
	}
	if action.Status == to {
		return nil
	}

	if err := s.incidentRepo.UpdateActionStatus(ctx, actionID, to); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "incident", action.IncidentID, "action_status_changed",
		"Incident action moved to "+string(to), map[string]interface{}{
			"action_id": actionID.String(),
			"to":        string(to),
		})
	return nil
}

// ListActions returns the actions attached to an incident.
func (s *IncidentService) ListActions(ctx context.Context, actor entity.Actor, incidentID uuid.UUID) ([]model.IncidentAction, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.incidentRepo.GetByID(ctx, scope, incidentID); err != nil {
		return nil, err
	}
	return s.incidentRepo.ListActions(ctx, incidentID)
}

// AddFollowup appends a follow-up note to the incident timeline. Followups
// are immutable: there is no update or delete.
func (s *IncidentService) AddFollowup(ctx context.Context, actor entity.Actor, incidentID uuid.UUID, note string, nextReviewAt *time.Time) (*model.IncidentFollowup, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if note == "" {
		return nil, domainerrors.NewValidationError("follow-up note is required")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.incidentRepo.GetByID(ctx, scope, incidentID); err != nil {
		return nil, err
	}

	followup := &model.IncidentFollowup{
		ID:           uuid.New(),
		IncidentID:   incidentID,
		Note:         note,
		RecordedBy:   actor.ID,
		RecordedAt:   s.now(),
		NextReviewAt: nextReviewAt,
	}

	if err := s.incidentRepo.CreateFollowup(ctx, followup); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "incident", incidentID, "followup_added",
		"Follow-up note added", map[string]interface{}{
			"followup_id": followup.ID.String(),
		})

	return followup, nil
}

// ListFollowups returns the incident's follow-up timeline.
func (s *IncidentService) ListFollowups(ctx context.Context, actor entity.Actor, incidentID uuid.UUID) ([]model.IncidentFollowup, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.incidentRepo.GetByID(ctx, scope, incidentID); err != nil {
		return nil, err
	}
	return s.incidentRepo.ListFollowups(ctx, incidentID)
}
