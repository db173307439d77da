package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// HandoverInput carries the writable handover fields.
type HandoverInput struct {
	CareHomeID   uuid.UUID
	ShiftDate    time.Time
	ShiftType    model.ShiftType
	HandoverFrom uuid.UUID
	HandoverTo   uuid.UUID
	Summary      string
}

// HandoverService manages shift handovers.
type HandoverService struct {
	handoverRepo domainRepo.HandoverRepository
	scopes       *AccessScopeService
	audit        *AuditService
	logger       *zap.Logger
}

// NewHandoverService creates a new handover service
func NewHandoverService(
	handoverRepo domainRepo.HandoverRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	logger *zap.Logger,
) *HandoverService {
	return &HandoverService{
		handoverRepo: handoverRepo,
		scopes:       scopes,
		audit:        audit,
		logger:       logger,
	}
}

// Create records a handover for a care home in the actor's scope.
func (s *HandoverService) Create(ctx context.Context, actor entity.Actor, input HandoverInput) (*model.Handover, error) {
	if !actor.Role.CanRecordCare() {
		return nil, domainerrors.ErrNotPermitted
	}
	if !input.ShiftType.Valid() {
		return nil, domainerrors.NewValidationError("unknown shift type %q", input.ShiftType)
	}
	if input.ShiftDate.IsZero() {
		return nil, domainerrors.NewValidationError("shift date is required")
	}
	if input.HandoverFrom == uuid.Nil || input.HandoverTo == uuid.Nil {
		return nil, domainerrors.NewValidationError("handover requires both staff members")
	}
	if input.HandoverFrom == input.HandoverTo {
		return nil, domainerrors.NewValidationError("handover cannot be to the same staff member")
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(input.CareHomeID) {
		return nil, domainerrors.ErrRecordNotFound
	}

	handover := &model.Handover{
		ID:           uuid.New(),
		CareHomeID:   input.CareHomeID,
		ShiftDate:    input.ShiftDate,
		ShiftType:    input.ShiftType,
		HandoverFrom: input.HandoverFrom,
		HandoverTo:   input.HandoverTo,
		Summary:      input.Summary,
	}

	if err := s.handoverRepo.Create(ctx, handover); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "handover", handover.ID, "created",
		"Handover recorded for "+string(handover.ShiftType)+" shift", map[string]interface{}{
			"care_home_id": handover.CareHomeID.String(),
			"shift_date":   handover.ShiftDate.Format("2006-01-02"),
		})

	return handover, nil
}

// Get returns a handover visible to the actor.
func (s *HandoverService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.Handover, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.handoverRepo.GetByID(ctx, scope, id)
}

// List returns handovers visible to the actor.
func (s *HandoverService) List(ctx context.Context, actor entity.Actor, filter entity.HandoverFilter) ([]model.Handover, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	handovers, total, err := s.handoverRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return handovers, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Complete marks a handover as completed. Completing an already completed
// handover succeeds without changing anything.
func (s *HandoverService) Complete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !actor.Role.CanRecordCare() {
		return domainerrors.ErrNotPermitted
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	handover, err := s.handoverRepo.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if handover.IsCompleted {
		return nil
	}

	if err := s.handoverRepo.MarkCompleted(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, "handover", id, "completed",
		"Handover completed", nil)
	return nil
}
