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

// UserService is the owner-only profile administration surface. Profiles
// are created by the hosted auth provider; this service only lists them,
// toggles activation and changes roles.
type UserService struct {
	profileRepo domainRepo.ProfileRepository
	scopes      *AccessScopeService
	audit       *AuditService
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	profileRepo domainRepo.ProfileRepository,
	scopes *AccessScopeService,
	audit *AuditService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		profileRepo: profileRepo,
		scopes:      scopes,
		audit:       audit,
		logger:      logger,
	}
}

// Get returns a profile.
func (s *UserService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*model.Profile, error) {
	if !actor.Role.CanManageUsers() && actor.ID != id {
		return nil, domainerrors.ErrNotPermitted
	}
	return s.profileRepo.GetByID(ctx, id)
}

// List returns profiles matching the filter.
func (s *UserService) List(ctx context.Context, actor entity.Actor, filter entity.ProfileFilter) ([]model.Profile, entity.PaginationMeta, error) {
	if !actor.Role.CanManageUsers() {
		return nil, entity.PaginationMeta{}, domainerrors.ErrNotPermitted
	}

	filter.Validate()
	profiles, total, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return profiles, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// ChangeRole changes a profile's role. The actor cannot demote themselves,
// so an installation always keeps at least one business owner. Scope cache
// entries for the target are invalidated because the role determines how
// scope is resolved.
func (s *UserService) ChangeRole(ctx context.Context, actor entity.Actor, id uuid.UUID, role model.Role) error {
	if !actor.Role.CanManageUsers() {
		return domainerrors.ErrNotPermitted
	}
	if !role.Valid() {
		return domainerrors.NewValidationError("unknown role %q", role)
	}
	if actor.ID == id {
		return domainerrors.NewValidationError("cannot change your own role")
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if profile.Role == role {
		return nil
	}

	if err := s.profileRepo.UpdateRole(ctx, id, role); err != nil {
		return err
	}

	s.scopes.Invalidate(ctx, id)
	s.audit.Record(ctx, actor, "profile", id, "role_changed",
		"Role changed to "+string(role), map[string]interface{}{
			"from": string(profile.Role),
			"to":   string(role),
		})
	return nil
}

// SetActive enables or disables a profile. Disabled profiles fail
// authentication even with a valid token.
func (s *UserService) SetActive(ctx context.Context, actor entity.Actor, id uuid.UUID, active bool) error {
	if !actor.Role.CanManageUsers() {
		return domainerrors.ErrNotPermitted
	}
	if actor.ID == id && !active {
		return domainerrors.NewValidationError("cannot deactivate your own profile")
	}

	if err := s.profileRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	action := "deactivated"
	if active {
		action = "activated"
	}
	s.audit.Record(ctx, actor, "profile", id, action, "Profile "+action, nil)
	return nil
}
