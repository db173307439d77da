package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

type incidentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.IncidentRepository {
	return &incidentRepository{db: db, logger: logger}
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) error {
	if err := r.db.WithContext(ctx).Create(incident).Error; err != nil {
		r.logger.Error("Failed to create incident",
			zap.String("client_id", incident.ClientID.String()),
			zap.String("care_home_id", incident.CareHomeID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Incident, error) {
	if scope.Empty() {
		return nil, domainerrors.ErrRecordNotFound
	}

	var incident model.Incident
	q := applyScope(r.db.WithContext(ctx).Preload("Client"), scope, "care_home_id")
	if err := q.Where("id = ?", id).First(&incident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get incident",
			zap.String("incident_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	return &incident, nil
}

func (r *incidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.IncidentStatus) error {
	err := r.db.WithContext(ctx).
		Model(&model.Incident{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		r.logger.Error("Failed to update incident status",
			zap.String("incident_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("failed to update incident status: %w", err)
	}
	return nil
}

func (r *incidentRepository) List(ctx context.Context, scope entity.Scope, filter entity.IncidentFilter) ([]model.Incident, int64, error) {
	if scope.Empty() {
		return []model.Incident{}, 0, nil
	}

	filter.Validate()

	q := r.db.WithContext(ctx).Model(&model.Incident{}).
		Joins("JOIN clients ON clients.id = incidents.client_id")
	if !scope.Unrestricted {
		q = q.Where("incidents.care_home_id IN ?", scope.CareHomeIDs)
	}
	if filter.ClientID != nil {
		q = q.Where("incidents.client_id = ?", *filter.ClientID)
	}
	if filter.Severity != nil {
		q = q.Where("incidents.severity = ?", *filter.Severity)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("incidents.status IN ?", filter.Statuses)
	}
	if len(filter.ExcludeStatuses) > 0 {
		q = q.Where("incidents.status NOT IN ?", filter.ExcludeStatuses)
	}
	if filter.OccurredFrom != nil {
		q = q.Where("incidents.occurred_at >= ?", *filter.OccurredFrom)
	}
	if filter.OccurredTo != nil {
		q = q.Where("incidents.occurred_at <= ?", *filter.OccurredTo)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where(
			"incidents.title ILIKE ? OR incidents.description ILIKE ? OR incidents.incident_type ILIKE ? OR clients.first_name ILIKE ? OR clients.last_name ILIKE ?",
			term, term, term, term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count incidents", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	var incidents []model.Incident
	err := q.Preload("Client").
		Order("incidents.occurred_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&incidents).Error
	if err != nil {
		r.logger.Error("Failed to list incidents", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list incidents: %w", err)
	}

	return incidents, total, nil
}

func (r *incidentRepository) CountBySeverity(ctx context.Context, scope entity.Scope, openOnly bool) (map[string]int64, error) {
	counts := make(map[string]int64)
	if scope.Empty() {
		return counts, nil
	}

	q := applyScope(r.db.WithContext(ctx).Model(&model.Incident{}), scope, "care_home_id")
	if openOnly {
		q = q.Where("status NOT IN ?", []model.IncidentStatus{model.IncidentStatusResolved, model.IncidentStatusClosed})
	}

	var rows []struct {
		Severity string
		Count    int64
	}
	if err := q.Select("severity, COUNT(*) AS count").Group("severity").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count incidents by severity: %w", err)
	}

	for _, row := range rows {
		counts[row.Severity] = row.Count
	}
	return counts, nil
}

func (r *incidentRepository) CreateAction(ctx context.Context, action *model.IncidentAction) error {
	if err := r.db.WithContext(ctx).Create(action).Error; err != nil {
		r.logger.Error("Failed to create incident action",
			zap.String("incident_id", action.IncidentID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create incident action: %w", err)
	}
	return nil
}

func (r *incidentRepository) GetAction(ctx context.Context, id uuid.UUID) (*model.IncidentAction, error) {
	var action model.IncidentAction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&action).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get incident action: %w", err)
	}
	return &action, nil
}

func (r *incidentRepository) UpdateActionStatus(ctx context.Context, id uuid.UUID, status model.ActionStatus) error {
	err := r.db.WithContext(ctx).
		Model(&model.IncidentAction{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		r.logger.Error("Failed to update action status",
			zap.String("action_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update action status: %w", err)
	}
	return nil
}

func (r *incidentRepository) ListActions(ctx context.Context, incidentID uuid.UUID) ([]model.IncidentAction, error) {
	var actions []model.IncidentAction
	err := r.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list incident actions: %w", err)
	}
	return actions, nil
}

func (r *incidentRepository) CreateFollowup(ctx context.Context, followup *model.IncidentFollowup) error {
	if err := r.db.WithContext(ctx).Create(followup).Error; err != nil {
		r.logger.Error("Failed to create incident followup",
			zap.String("incident_id", followup.IncidentID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create incident followup: %w", err)
	}
	return nil
}

func (r *incidentRepository) ListFollowups(ctx context.Context, incidentID uuid.UUID) ([]model.IncidentFollowup, error) {
	var followups []model.IncidentFollowup
	err := r.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("recorded_at DESC").
		Find(&followups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list incident followups: %w", err)
	}
	return followups, nil
}
