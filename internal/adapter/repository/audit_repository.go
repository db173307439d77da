package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

type auditRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit event repository
func NewAuditRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AuditRepository {
	return &auditRepository{db: db, logger: logger}
}

// Create appends an audit event. There is no update or delete path.
func (r *auditRepository) Create(ctx context.Context, event *model.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.logger.Error("Failed to create audit event",
			zap.String("entity_type", event.EntityType),
			zap.String("action", event.Action),
			zap.Error(err))
		return fmt.Errorf("failed to create audit event: %w", err)
	}
	return nil
}

// scopeClause matches events whose entity lives in one of the given care
// homes. Audit rows carry no care_home_id themselves, so each entity type
// is resolved back to its home. Org-level entities (profiles, the
// notification queue) never match a restricted scope.
const scopeClause = `
	(entity_type IN ('care_home', 'care-homes') AND entity_id IN ?)
	OR (entity_type IN ('client', 'clients') AND entity_id IN (
		SELECT id FROM clients WHERE care_home_id IN ?))
	OR (entity_type = 'care_plan' AND entity_id IN (
		SELECT care_plans.id FROM care_plans
		JOIN clients ON clients.id = care_plans.client_id
		WHERE clients.care_home_id IN ?))
	OR (entity_type = 'care_plan_task' AND entity_id IN (
		SELECT care_plan_tasks.id FROM care_plan_tasks
		JOIN care_plan_versions ON care_plan_versions.id = care_plan_tasks.care_plan_version_id
		JOIN care_plans ON care_plans.id = care_plan_versions.care_plan_id
		JOIN clients ON clients.id = care_plans.client_id
		WHERE clients.care_home_id IN ?))
	OR (entity_type = 'care_plan_review' AND entity_id IN (
		SELECT care_plan_reviews.id FROM care_plan_reviews
		JOIN care_plans ON care_plans.id = care_plan_reviews.care_plan_id
		JOIN clients ON clients.id = care_plans.client_id
		WHERE clients.care_home_id IN ?))
	OR (entity_type = 'incident' AND entity_id IN (
		SELECT id FROM incidents WHERE care_home_id IN ?))
	OR (entity_type = 'handover' AND entity_id IN (
		SELECT id FROM handovers WHERE care_home_id IN ?))`

func (r *auditRepository) List(ctx context.Context, scope entity.Scope, filter entity.AuditFilter) ([]model.AuditEvent, int64, error) {
	if scope.Empty() {
		return nil, 0, nil
	}
	filter.Validate()

	q := r.db.WithContext(ctx).Model(&model.AuditEvent{})
	if !scope.Unrestricted {
		ids := scope.CareHomeIDs
		q = q.Where(scopeClause, ids, ids, ids, ids, ids, ids, ids)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.ActorID != nil {
		q = q.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count audit events", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	var events []model.AuditEvent
	err := q.Order("created_at DESC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&events).Error
	if err != nil {
		r.logger.Error("Failed to list audit events", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list audit events: %w", err)
	}

	return events, total, nil
}
