package entity

import (
	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// Actor is the authenticated profile performing an operation. It is passed
// explicitly into every core-layer call; there is no ambient identity.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}
