package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditEvent is an append-only activity record. Events are never updated
// or deleted once written.
type AuditEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ActorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	EntityType  string         `gorm:"not null;size:50;index:idx_audit_entity" json:"entity_type"`
	EntityID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	Action      string         `gorm:"not null;size:50" json:"action"`
	Description string         `json:"description"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (AuditEvent) TableName() string {
	return "audit_events"
}
