// Package lifecycle holds the status transition tables for every record
// type that has one, plus the shared date classification used for derived
// overdue/upcoming states. Mutating operations consult these tables before
// anything reaches persistence.
package lifecycle

import (
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
)

var versionTransitions = map[model.VersionStatus][]model.VersionStatus{
	model.VersionStatusDraft:    {model.VersionStatusActive, model.VersionStatusArchived},
	model.VersionStatusActive:   {model.VersionStatusArchived},
	model.VersionStatusArchived: {},
}

var taskTransitions = map[model.TaskStatus][]model.TaskStatus{
	model.TaskStatusPending:    {model.TaskStatusInProgress, model.TaskStatusCancelled},
	model.TaskStatusInProgress: {model.TaskStatusCompleted, model.TaskStatusCancelled},
	model.TaskStatusCompleted:  {},
	model.TaskStatusCancelled:  {},
}

var reviewTransitions = map[model.ReviewStatus][]model.ReviewStatus{
	model.ReviewStatusScheduled:  {model.ReviewStatusInProgress, model.ReviewStatusCompleted, model.ReviewStatusCancelled},
	model.ReviewStatusInProgress: {model.ReviewStatusCompleted, model.ReviewStatusCancelled},
	model.ReviewStatusCompleted:  {},
	model.ReviewStatusCancelled:  {},
}

// Incident transitions are forward-only: once an incident moves along
// open -> investigating -> resolved -> closed it never moves back.
var incidentOrder = map[model.IncidentStatus]int{
	model.IncidentStatusOpen:          0,
	model.IncidentStatusInvestigating: 1,
	model.IncidentStatusResolved:      2,
	model.IncidentStatusClosed:        3,
}

var actionTransitions = map[model.ActionStatus][]model.ActionStatus{
	model.ActionStatusPending:    {model.ActionStatusInProgress, model.ActionStatusCancelled},
	model.ActionStatusInProgress: {model.ActionStatusCompleted, model.ActionStatusCancelled},
	model.ActionStatusCompleted:  {},
	model.ActionStatusCancelled:  {},
}

var notificationTransitions = map[model.NotificationStatus][]model.NotificationStatus{
	model.NotificationStatusQueued:    {model.NotificationStatusSending, model.NotificationStatusCancelled},
	model.NotificationStatusSending:   {model.NotificationStatusSent, model.NotificationStatusFailed},
	model.NotificationStatusFailed:    {model.NotificationStatusQueued, model.NotificationStatusCancelled},
	model.NotificationStatusSent:      {},
	model.NotificationStatusCancelled: {},
}

func contains[T comparable](list []T, target T) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// CanTransitionVersion reports whether a version may move from one status
// to another. Same-status transitions are always permitted as no-ops.
func CanTransitionVersion(from, to model.VersionStatus) bool {
	if from == to {
		return true
	}
	return contains(versionTransitions[from], to)
}

// ValidateVersionTransition validates a version status change.
func ValidateVersionTransition(from, to model.VersionStatus) error {
	if _, known := versionTransitions[to]; !known {
		return domainerrors.NewValidationError("unknown version status %q", to)
	}
	if !CanTransitionVersion(from, to) {
		return domainerrors.NewTransitionError("care_plan_version", string(from), string(to))
	}
	return nil
}

// CanTransitionTask reports whether a task may move between statuses.
func CanTransitionTask(from, to model.TaskStatus) bool {
	if from == to {
		return true
	}
	return contains(taskTransitions[from], to)
}

// ValidateTaskTransition validates a task status change.
func ValidateTaskTransition(from, to model.TaskStatus) error {
	if _, known := taskTransitions[to]; !known {
		return domainerrors.NewValidationError("unknown task status %q", to)
	}
	if !CanTransitionTask(from, to) {
		return domainerrors.NewTransitionError("care_plan_task", string(from), string(to))
	}
	return nil
}

// CanTransitionReview reports whether a review may move between statuses.
// Overdue is derived from scheduled_for and is not a transition target.
func CanTransitionReview(from, to model.ReviewStatus) bool {
	if from == to {
		return true
	}
	return contains(reviewTransitions[from], to)
}

// ValidateReviewTransition validates a review status change.
func ValidateReviewTransition(from, to model.ReviewStatus) error {
	if _, known := reviewTransitions[to]; !known {
		return domainerrors.NewValidationError("review status %q is not settable", to)
	}
	if !CanTransitionReview(from, to) {
		return domainerrors.NewTransitionError("care_plan_review", string(from), string(to))
	}
	return nil
}

// CanTransitionIncident reports whether an incident may move between
// statuses. Transitions are forward-only; skipping ahead is permitted.
func CanTransitionIncident(from, to model.IncidentStatus) bool {
	fromIdx, fromKnown := incidentOrder[from]
	toIdx, toKnown := incidentOrder[to]
	if !fromKnown || !toKnown {
		return false
	}
	return toIdx >= fromIdx
}

// ValidateIncidentTransition validates an incident status change.
func ValidateIncidentTransition(from, to model.IncidentStatus) error {
	if _, known := incidentOrder[to]; !known {
		return domainerrors.NewValidationError("unknown incident status %q", to)
	}
	if !CanTransitionIncident(from, to) {
		return domainerrors.NewTransitionError("incident", string(from), string(to))
	}
	return nil
}

// CanTransitionAction reports whether an incident action may move between
// statuses. Overdue is derived from due_at and is not a transition target.
func CanTransitionAction(from, to model.ActionStatus) bool {
	if from == to {
		return true
	}
	return contains(actionTransitions[from], to)
}

// ValidateActionTransition validates an incident action status change.
func ValidateActionTransition(from, to model.ActionStatus) error {
	if _, known := actionTransitions[to]; !known {
		return domainerrors.NewValidationError("action status %q is not settable", to)
	}
	if !CanTransitionAction(from, to) {
		return domainerrors.NewTransitionError("incident_action", string(from), string(to))
	}
	return nil
}

// CanTransitionNotification reports whether a queue entry may move between
// delivery statuses.
func CanTransitionNotification(from, to model.NotificationStatus) bool {
	if from == to {
		return true
	}
	return contains(notificationTransitions[from], to)
}

// ValidateNotificationTransition validates a queue entry status change.
func ValidateNotificationTransition(from, to model.NotificationStatus) error {
	if _, known := notificationTransitions[to]; !known {
		return domainerrors.NewValidationError("unknown notification status %q", to)
	}
	if !CanTransitionNotification(from, to) {
		return domainerrors.NewTransitionError("notification", string(from), string(to))
	}
	return nil
}
