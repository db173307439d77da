package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// DateFilter selects records by derived date urgency. "due" means the date
// has passed (inclusive of now); "upcoming" means within the next 30 days.
type DateFilter string

const (
	DateFilterNone     DateFilter = ""
	DateFilterDue      DateFilter = "due"
	DateFilterUpcoming DateFilter = "upcoming"
)

// CareHomeFilter is the list filter for the care homes screen.
type CareHomeFilter struct {
	PaginationParams
	Search          string
	IncludeInactive bool
}

// ClientFilter is the list filter for the clients screen. The clients
// list sorts ascending by last name, unlike every other screen.
type ClientFilter struct {
	PaginationParams
	Search          string
	CareHomeID      *uuid.UUID
	ClientType      *model.ClientType
	IncludeInactive bool
}

// CarePlanFilter is the list filter for the care plans screen. Free-text
// search matches the plan title and the client's first/last name.
type CarePlanFilter struct {
	PaginationParams
	Search    string
	ClientID  *uuid.UUID
	ReviewDue DateFilter
}

// TaskFilter is the list filter for care plan tasks.
type TaskFilter struct {
	PaginationParams
	VersionID  *uuid.UUID
	Status     *model.TaskStatus
	AssignedTo *uuid.UUID
}

// ReviewFilter is the list filter for care plan reviews.
type ReviewFilter struct {
	PaginationParams
	CarePlanID *uuid.UUID
	Status     *model.ReviewStatus
	Due        DateFilter
}

// IncidentFilter is the list filter for the incidents screen. Free-text
// search matches title, description, incident type and client name.
type IncidentFilter struct {
	PaginationParams
	Search          string
	ClientID        *uuid.UUID
	Severity        *model.Severity
	Statuses        []model.IncidentStatus
	ExcludeStatuses []model.IncidentStatus
	OccurredFrom    *time.Time
	OccurredTo      *time.Time
}

// HandoverFilter is the list filter for the handovers screen.
type HandoverFilter struct {
	PaginationParams
	CareHomeID     *uuid.UUID
	ShiftType      *model.ShiftType
	ShiftDateFrom  *time.Time
	ShiftDateTo    *time.Time
	OnlyIncomplete bool
}

// NotificationFilter is the list filter for the notification queue screen.
type NotificationFilter struct {
	PaginationParams
	Status      *model.NotificationStatus
	Channel     *model.NotificationChannel
	RecipientID *uuid.UUID
}

// AuditFilter is the list filter for the audit activity feed.
type AuditFilter struct {
	PaginationParams
	EntityType string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ProfileFilter is the list filter for the user admin screen.
type ProfileFilter struct {
	PaginationParams
	Search          string
	Role            *model.Role
	IncludeInactive bool
}
