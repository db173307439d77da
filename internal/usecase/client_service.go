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

// ClientInput carries the writable client fields. ClientType is optional;
// when nil it is derived from the date of birth.
type ClientInput struct {
	CareHomeID  uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	ClientType  *model.ClientType
	RoomNumber  string
}

// ClientService manages clients (residents). Creation is restricted to
// owners and managers; managers may only place clients in care homes
// inside their own scope.
type ClientService struct {
	clientRepo   domainRepo.ClientRepository
	careHomeRepo domainRepo.CareHomeRepository
	scopes       *AccessScopeService
	audit        *AuditService
	logger       *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo domainRepo.ClientRepository,
	careHomeRepo domainRepo.CareHomeRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:   clientRepo,
		careHomeRepo: careHomeRepo,
		scopes:       scopes,
		audit:        audit,
		logger:       logger,
	}
}

func validateClientInput(input ClientInput, now time.Time) error {
	if input.FirstName == "" || input.LastName == "" {
		return domainerrors.NewValidationError("first name and last name are required")
	}
	if input.CareHomeID == uuid.Nil {
		return domainerrors.NewValidationError("care home is required")
	}
	if input.DateOfBirth.IsZero() || input.DateOfBirth.After(now) {
		return domainerrors.NewValidationError("date of birth must be in the past")
	}
	return nil
}

// Create registers a new client. The client type is derived from the date
// of birth unless the caller supplies an explicit override; once stored it
// is never recomputed.
func (s *ClientService) Create(ctx context.Context, actor entity.Actor, input ClientInput) (*model.Client, error) {
	if !actor.Role.CanCreateClients() {
		return nil, domainerrors.ErrNotPermitted
	}

	now := time.Now()
	if err := validateClientInput(input, now); err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(input.CareHomeID) {
		return nil, domainerrors.ErrRecordNotFound
	}
	if _, err := s.careHomeRepo.GetByID(ctx, scope, input.CareHomeID); err != nil {
		return nil, err
	}

	clientType := model.ClientTypeForBirthDate(input.DateOfBirth, now)
	if input.ClientType != nil {
		clientType = *input.ClientType
	}

	client := &model.Client{
		ID:          uuid.New(),
		CareHomeID:  input.CareHomeID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: input.DateOfBirth,
		ClientType:  clientType,
		RoomNumber:  input.RoomNumber,
		IsActive:    true,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "client", client.ID, "created",
		"Client "+client.FirstName+" "+client.LastName+" registered", map[string]interface{}{
			"care_home_id": client.CareHomeID.String(),
			"client_type":  string(client.ClientType),
		})

	return client, nil
}

// Get returns a client visible to the actor.
func (s *ClientService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.Client, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, scope, id)
}

// List returns clients visible to the actor, sorted by last name.
func (s *ClientService) List(ctx context.Context, actor entity.Actor, filter entity.ClientFilter) ([]model.Client, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	clients, total, err := s.clientRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return clients, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Update edits a client's details. The stored client type is kept unless
// explicitly overridden; it is not re-derived when the date of birth
// changes. Moving a client requires the target care home to be in scope.
func (s *ClientService) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, input ClientInput) (*model.Client, error) {
	if !actor.Role.CanCreateClients() {
		return nil, domainerrors.ErrNotPermitted
	}
	if err := validateClientInput(input, time.Now()); err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if input.CareHomeID != client.CareHomeID && !scope.Allows(input.CareHomeID) {
		return nil, domainerrors.ErrRecordNotFound
	}

	client.CareHomeID = input.CareHomeID
	client.FirstName = input.FirstName
	client.LastName = input.LastName
	client.DateOfBirth = input.DateOfBirth
	client.RoomNumber = input.RoomNumber
	if input.ClientType != nil {
		client.ClientType = *input.ClientType
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "client", client.ID, "updated",
		"Client "+client.FirstName+" "+client.LastName+" updated", nil)

	return client, nil
}

// SetActive soft-enables or soft-disables a client record.
func (s *ClientService) SetActive(ctx context.Context, actor entity.Actor, id uuid.UUID, active bool) error {
	if !actor.Role.CanCreateClients() {
		return domainerrors.ErrNotPermitted
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}

	client, err := s.clientRepo.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}

	client.IsActive = active
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return err
	}

	action := "deactivated"
	if active {
		action = "activated"
	}
	s.audit.Record(ctx, actor, "client", client.ID, action,
		"Client "+client.FirstName+" "+client.LastName+" "+action, nil)
	return nil
}
