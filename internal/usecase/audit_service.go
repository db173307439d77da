package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// AuditService writes and reads the append-only activity feed. Every
// successful mutation in the other services records an event here.
type AuditService struct {
	auditRepo domainRepo.AuditRepository
	scopes    *AccessScopeService
	logger    *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo domainRepo.AuditRepository, scopes *AccessScopeService, logger *zap.Logger) *AuditService {
	return &AuditService{auditRepo: auditRepo, scopes: scopes, logger: logger}
}

// Record appends an audit event. Audit failures are logged but never fail
// the mutation they describe; the write already committed.
func (s *AuditService) Record(ctx context.Context, actor entity.Actor, entityType string, entityID uuid.UUID, action, description string, metadata map[string]interface{}) {
	event := &model.AuditEvent{
		ActorID:     actor.ID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			event.Metadata = datatypes.JSON(raw)
		}
	}

	if err := s.auditRepo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to record audit event",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

// List returns the audit feed page for the given filter. Owners read the
// full feed; managers only see events on entities inside their allow-set;
// carers have no feed access.
func (s *AuditService) List(ctx context.Context, actor entity.Actor, filter entity.AuditFilter) ([]model.AuditEvent, entity.PaginationMeta, error) {
	if !actor.Role.CanViewAuditFeed() {
		return nil, entity.PaginationMeta{}, domainerrors.ErrNotPermitted
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	events, total, err := s.auditRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return events, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}
