package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

const scopeCacheTTL = 60 * time.Second

// AccessScopeService computes the allow-set used to narrow every read and
// write. It is the single place that knows which roles see which rows.
type AccessScopeService struct {
	assignmentRepo domainRepo.AssignmentRepository
	redis          *redis.Client
	logger         *zap.Logger
}

// NewAccessScopeService creates a new access scope service. The redis
// client is optional; without it every resolve hits the database.
func NewAccessScopeService(
	assignmentRepo domainRepo.AssignmentRepository,
	redisClient *redis.Client,
	logger *zap.Logger,
) *AccessScopeService {
	return &AccessScopeService{
		assignmentRepo: assignmentRepo,
		redis:          redisClient,
		logger:         logger,
	}
}

// Resolve computes the actor's scope.
//
// Owners and carers read unrestricted; carer write capabilities are gated
// separately by role checks. Managers are restricted to their assigned
// care homes; a manager with no assignments gets an empty scope, which
// every repository turns into zero rows. If the assignment lookup fails
// the error is propagated: falling back to unrestricted would leak rows,
// falling back to empty would mask an outage as "no assignments".
func (s *AccessScopeService) Resolve(ctx context.Context, actor entity.Actor) (entity.Scope, error) {
	switch actor.Role {
	case model.RoleBusinessOwner, model.RoleCarer:
		return entity.UnrestrictedScope(), nil
	case model.RoleManager:
		if ids, ok := s.cachedScope(ctx, actor.ID); ok {
			return entity.RestrictedScope(ids), nil
		}

		ids, err := s.assignmentRepo.CareHomeIDsForManager(ctx, actor.ID)
		if err != nil {
			s.logger.Error("Scope resolution failed",
				zap.String("manager_id", actor.ID.String()),
				zap.Error(err))
			return entity.Scope{}, fmt.Errorf("%w: %v", domainerrors.ErrScopeUnavailable, err)
		}

		s.cacheScope(ctx, actor.ID, ids)
		return entity.RestrictedScope(ids), nil
	default:
		s.logger.Warn("Unknown role resolved to empty scope",
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", string(actor.Role)))
		return entity.RestrictedScope(nil), nil
	}
}

// Invalidate drops the cached allow-set after assignments change.
func (s *AccessScopeService) Invalidate(ctx context.Context, managerID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, scopeCacheKey(managerID)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate scope cache",
			zap.String("manager_id", managerID.String()),
			zap.Error(err))
	}
}

func scopeCacheKey(managerID uuid.UUID) string {
	return "scope:manager:" + managerID.String()
}

// cachedScope reads the allow-set from redis. Any cache failure is treated
// as a miss; the database remains authoritative, so an unreachable cache
// can never change visibility.
func (s *AccessScopeService) cachedScope(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, bool) {
	if s.redis == nil {
		return nil, false
	}

	raw, err := s.redis.Get(ctx, scopeCacheKey(managerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Scope cache read failed",
				zap.String("manager_id", managerID.String()),
				zap.Error(err))
		}
		return nil, false
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (s *AccessScopeService) cacheScope(ctx context.Context, managerID uuid.UUID, ids []uuid.UUID) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, scopeCacheKey(managerID), raw, scopeCacheTTL).Err(); err != nil {
		s.logger.Warn("Scope cache write failed",
			zap.String("manager_id", managerID.String()),
			zap.Error(err))
	}
}
