package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// CareHomeInput carries the writable care home fields.
type CareHomeInput struct {
	Name             string
	AddressLine1     string
	AddressLine2     string
	City             string
	Postcode         string
	Phone            string
	Email            string
	Capacity         int
	CurrentOccupancy int
}

// CareHomeService manages care homes and manager assignments. Only the
// business owner may mutate either.
type CareHomeService struct {
	careHomeRepo   domainRepo.CareHomeRepository
	assignmentRepo domainRepo.AssignmentRepository
	profileRepo    domainRepo.ProfileRepository
	scopes         *AccessScopeService
	audit          *AuditService
	logger         *zap.Logger
}

// NewCareHomeService creates a new care home service
func NewCareHomeService(
	careHomeRepo domainRepo.CareHomeRepository,
	assignmentRepo domainRepo.AssignmentRepository,
	profileRepo domainRepo.ProfileRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	logger *zap.Logger,
) *CareHomeService {
	return &CareHomeService{
		careHomeRepo:   careHomeRepo,
		assignmentRepo: assignmentRepo,
		profileRepo:    profileRepo,
		scopes:         scopes,
		audit:          audit,
		logger:         logger,
	}
}

func validateCareHomeInput(input CareHomeInput) error {
	if input.Name == "" {
		return domainerrors.NewValidationError("care home name is required")
	}
	if input.Capacity < 0 {
		return domainerrors.NewValidationError("capacity cannot be negative")
	}
	if input.CurrentOccupancy < 0 {
		return domainerrors.NewValidationError("occupancy cannot be negative")
	}
	if input.CurrentOccupancy > input.Capacity {
		return domainerrors.NewValidationError(
			"occupancy %d exceeds capacity %d", input.CurrentOccupancy, input.Capacity)
	}
	return nil
}

// Create registers a new care home.
func (s *CareHomeService) Create(ctx context.Context, actor entity.Actor, input CareHomeInput) (*model.CareHome, error) {
	if !actor.Role.CanManageCareHomes() {
		return nil, domainerrors.ErrNotPermitted
	}
	if err := validateCareHomeInput(input); err != nil {
		return nil, err
	}

	home := &model.CareHome{
		ID:               uuid.New(),
		Name:             input.Name,
		AddressLine1:     input.AddressLine1,
		AddressLine2:     input.AddressLine2,
		City:             input.City,
		Postcode:         input.Postcode,
		Phone:            input.Phone,
		Email:            input.Email,
		Capacity:         input.Capacity,
		CurrentOccupancy: input.CurrentOccupancy,
		IsActive:         true,
	}

	if err := s.careHomeRepo.Create(ctx, home); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "care_home", home.ID, "created",
		"Care home "+home.Name+" created", map[string]interface{}{
			"capacity": home.Capacity,
		})

	return home, nil
}

// Get returns a care home visible to the actor.
func (s *CareHomeService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.CareHome, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.careHomeRepo.GetByID(ctx, scope, id)
}

// List returns care homes visible to the actor.
func (s *CareHomeService) List(ctx context.Context, actor entity.Actor, filter entity.CareHomeFilter) ([]model.CareHome, entity.PaginationMeta, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	filter.Validate()
	homes, total, err := s.careHomeRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return homes, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Update edits a care home. The occupancy/capacity invariant is checked
// against the updated values.
func (s *CareHomeService) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, input CareHomeInput) (*model.CareHome, error) {
	if !actor.Role.CanManageCareHomes() {
		return nil, domainerrors.ErrNotPermitted
	}
	if err := validateCareHomeInput(input); err != nil {
		return nil, err
	}

	home, err := s.careHomeRepo.GetByID(ctx, entity.UnrestrictedScope(), id)
	if err != nil {
		return nil, err
	}

	home.Name = input.Name
	home.AddressLine1 = input.AddressLine1
	home.AddressLine2 = input.AddressLine2
	home.City = input.City
	home.Postcode = input.Postcode
	home.Phone = input.Phone
	home.Email = input.Email
	home.Capacity = input.Capacity
	home.CurrentOccupancy = input.CurrentOccupancy

	if err := s.careHomeRepo.Update(ctx, home); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, "care_home", home.ID, "updated",
		"Care home "+home.Name+" updated", map[string]interface{}{
			"capacity":  home.Capacity,
			"occupancy": home.CurrentOccupancy,
		})

	return home, nil
}

// SetActive soft-enables or soft-disables a care home. Nothing is ever
// hard-deleted.
func (s *CareHomeService) SetActive(ctx context.Context, actor entity.Actor, id uuid.UUID, active bool) error {
	if !actor.Role.CanManageCareHomes() {
		return domainerrors.ErrNotPermitted
	}

	home, err := s.careHomeRepo.GetByID(ctx, entity.UnrestrictedScope(), id)
	if err != nil {
		return err
	}

	home.IsActive = active
	if err := s.careHomeRepo.Update(ctx, home); err != nil {
		return err
	}

	action := "deactivated"
	if active {
		action = "activated"
	}
	s.audit.Record(ctx, actor, "care_home", home.ID, action,
		"Care home "+home.Name+" "+action, nil)
	return nil
}

// AssignManager adds a manager to a care home's visibility set.
func (s *CareHomeService) AssignManager(ctx context.Context, actor entity.Actor, managerID, careHomeID uuid.UUID) error {
	if !actor.Role.CanManageCareHomes() {
		return domainerrors.ErrNotPermitted
	}

	manager, err := s.profileRepo.GetByID(ctx, managerID)
	if err != nil {
		return err
	}
	if manager.Role != model.RoleManager {
		return domainerrors.NewValidationError("profile %s is not a manager", managerID)
	}
	if _, err := s.careHomeRepo.GetByID(ctx, entity.UnrestrictedScope(), careHomeID); err != nil {
		return err
	}

	if err := s.assignmentRepo.Assign(ctx, managerID, careHomeID); err != nil {
		return err
	}

	s.scopes.Invalidate(ctx, managerID)
	s.audit.Record(ctx, actor, "care_home", careHomeID, "manager_assigned",
		"Manager assigned to care home", map[string]interface{}{
			"manager_id": managerID.String(),
		})
	return nil
}

// UnassignManager removes a manager from a care home's visibility set.
func (s *CareHomeService) UnassignManager(ctx context.Context, actor entity.Actor, managerID, careHomeID uuid.UUID) error {
	if !actor.Role.CanManageCareHomes() {
		return domainerrors.ErrNotPermitted
	}

	if err := s.assignmentRepo.Unassign(ctx, managerID, careHomeID); err != nil {
		return err
	}

	s.scopes.Invalidate(ctx, managerID)
	s.audit.Record(ctx, actor, "care_home", careHomeID, "manager_unassigned",
		"Manager unassigned from care home", map[string]interface{}{
			"manager_id": managerID.String(),
		})
	return nil
}

// Managers lists the managers assigned to a care home.
func (s *CareHomeService) Managers(ctx context.Context, actor entity.Actor, careHomeID uuid.UUID) ([]model.Profile, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.careHomeRepo.GetByID(ctx, scope, careHomeID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ManagersForCareHome(ctx, careHomeID)
}
