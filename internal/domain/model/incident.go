package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// Severity represents the severity of an incident
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Scan implements sql.Scanner interface
func (s *Severity) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = Severity(v)
	case []byte:
		*s = Severity(v)
	default:
		*s = SeverityLow
	}
	return nil
}

// Value implements driver.Valuer interface
func (s Severity) Value() (driver.Value, error) {
	return string(s), nil
}

// IncidentStatus represents the status of an incident
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusClosed        IncidentStatus = "closed"
)

// Scan implements sql.Scanner interface
func (s *IncidentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = IncidentStatus(v)
	case []byte:
		*s = IncidentStatus(v)
	default:
		*s = IncidentStatusOpen
	}
	return nil
}

// Value implements driver.Valuer interface
func (s IncidentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// ActionStatus represents the status of an incident action. Overdue is a
// derived display state computed from due_at, never persisted.
type ActionStatus string

const (
	ActionStatusPending    ActionStatus = "pending"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusCompleted  ActionStatus = "completed"
	ActionStatusOverdue    ActionStatus = "overdue"
	ActionStatusCancelled  ActionStatus = "cancelled"
)

// Scan implements sql.Scanner interface
func (s *ActionStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = ActionStatus(v)
	case []byte:
		*s = ActionStatus(v)
	default:
		*s = ActionStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s ActionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Incident represents a recorded incident involving a client
type Incident struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	CareHomeID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"care_home_id"`
	Title            string         `gorm:"not null;size:255" json:"title"`
	Description      string         `json:"description"`
	IncidentType     string         `gorm:"size:100" json:"incident_type"`
	Severity         Severity       `gorm:"type:incident_severity;not null;default:'low'" json:"severity"`
	Status           IncidentStatus `gorm:"type:incident_status;not null;default:'open'" json:"status"`
	OccurredAt       time.Time      `gorm:"not null" json:"occurred_at"`
	ReportedBy       uuid.UUID      `gorm:"type:uuid;not null" json:"reported_by"`
	FollowUpRequired bool           `gorm:"not null;default:false" json:"follow_up_required"`
	CreatedAt        time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:now()" json:"updated_at"`

	// Relations
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for GORM
func (Incident) TableName() string {
	return "incidents"
}

// IncidentAction is a remedial action attached to an incident
type IncidentAction struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IncidentID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"incident_id"`
	Description string       `gorm:"not null" json:"description"`
	Status      ActionStatus `gorm:"type:action_status;not null;default:'pending'" json:"status"`
	AssignedTo  *uuid.UUID   `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	DueAt       *time.Time   `json:"due_at,omitempty"`
	CreatedAt   time.Time    `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (IncidentAction) TableName() string {
	return "incident_actions"
}

// IncidentFollowup is an append-only follow-up note on an incident timeline
type IncidentFollowup struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IncidentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"incident_id"`
	Note         string     `gorm:"not null" json:"note"`
	RecordedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"recorded_by"`
	RecordedAt   time.Time  `gorm:"not null;default:now()" json:"recorded_at"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
}

// TableName specifies the table name for GORM
func (IncidentFollowup) TableName() string {
	return "incident_followups"
}
