package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// ProfileRepository provides access to profiles and manager assignments.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	List(ctx context.Context, filter entity.ProfileFilter) ([]model.Profile, int64, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// AssignmentRepository manages the manager -> care home visibility edges.
type AssignmentRepository interface {
	// CareHomeIDsForManager returns the ids of care homes assigned to the
	// manager. A backend failure must be returned as an error, never as an
	// empty slice.
	CareHomeIDsForManager(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
	Assign(ctx context.Context, managerID, careHomeID uuid.UUID) error
	Unassign(ctx context.Context, managerID, careHomeID uuid.UUID) error
	ManagersForCareHome(ctx context.Context, careHomeID uuid.UUID) ([]model.Profile, error)
}
