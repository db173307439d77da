package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// VersionStatus represents the status of a care plan version
type VersionStatus string

const (
	VersionStatusDraft    VersionStatus = "draft"
	VersionStatusActive   VersionStatus = "active"
	VersionStatusArchived VersionStatus = "archived"
)

// Scan implements sql.Scanner interface
func (s *VersionStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = VersionStatus(v)
	case []byte:
		*s = VersionStatus(v)
	default:
		*s = VersionStatusDraft
	}
	return nil
}

// Value implements driver.Valuer interface
func (s VersionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// TaskStatus represents the status of a care plan task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Scan implements sql.Scanner interface
func (s *TaskStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = TaskStatus(v)
	case []byte:
		*s = TaskStatus(v)
	default:
		*s = TaskStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s TaskStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// ReviewStatus represents the status of a care plan review. Overdue is a
// derived display state and is never persisted as a transition target.
type ReviewStatus string

const (
	ReviewStatusScheduled  ReviewStatus = "scheduled"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
	ReviewStatusOverdue    ReviewStatus = "overdue"
	ReviewStatusCancelled  ReviewStatus = "cancelled"
)

// Scan implements sql.Scanner interface
func (s *ReviewStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = ReviewStatus(v)
	case []byte:
		*s = ReviewStatus(v)
	default:
		*s = ReviewStatusScheduled
	}
	return nil
}

// Value implements driver.Valuer interface
func (s ReviewStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// CarePlan represents a client's care plan aggregate
type CarePlan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	Title       string     `gorm:"not null;size:255" json:"title"`
	Description string     `json:"description"`
	ReviewDate  *time.Time `json:"review_date,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:now()" json:"updated_at"`

	// Relations
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for GORM
func (CarePlan) TableName() string {
	return "care_plans"
}

// CarePlanVersion is a versioned snapshot of a care plan. At most one
// version per plan is active; publishing a version archives the previous
// active one in the same transaction.
type CarePlanVersion struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CarePlanID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"care_plan_id"`
	VersionNumber int           `gorm:"not null" json:"version_number"`
	Status        VersionStatus `gorm:"type:version_status;not null;default:'draft'" json:"status"`
	Summary       string        `json:"summary"`
	Goals         string        `json:"goals"`
	IsActive      bool          `gorm:"not null;default:false" json:"is_active"`
	CreatedBy     uuid.UUID     `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CarePlanVersion) TableName() string {
	return "care_plan_versions"
}

// CarePlanTask is a task attached to a specific care plan version
type CarePlanTask struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CarePlanVersionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"care_plan_version_id"`
	Title             string     `gorm:"not null;size:255" json:"title"`
	Description       string     `json:"description"`
	Status            TaskStatus `gorm:"type:task_status;not null;default:'pending'" json:"status"`
	AssignedTo        *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	CreatedAt         time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CarePlanTask) TableName() string {
	return "care_plan_tasks"
}

// CarePlanReview is a scheduled review of a care plan
type CarePlanReview struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CarePlanID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"care_plan_id"`
	ScheduledFor time.Time    `gorm:"not null" json:"scheduled_for"`
	Status       ReviewStatus `gorm:"type:review_status;not null;default:'scheduled'" json:"status"`
	Notes        string       `json:"notes"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CompletedBy  *uuid.UUID   `gorm:"type:uuid" json:"completed_by,omitempty"`
	CreatedAt    time.Time    `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CarePlanReview) TableName() string {
	return "care_plan_reviews"
}
