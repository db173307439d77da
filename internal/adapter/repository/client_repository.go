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

type clientRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ClientRepository {
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		r.logger.Error("Failed to create client",
			zap.String("care_home_id", client.CareHomeID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, scope entity.Scope, id uuid.UUID) (*model.Client, error) {
	if scope.Empty() {
		return nil, domainerrors.ErrRecordNotFound
	}

	var client model.Client
	q := applyScope(r.db.WithContext(ctx).Preload("CareHome"), scope, "care_home_id")
	if err := q.Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRecordNotFound
		}
		r.logger.Error("Failed to get client",
			zap.String("client_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		r.logger.Error("Failed to update client",
			zap.String("client_id", client.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// List returns clients sorted ascending by last name. This screen is the
// one alphabetical list; every other screen sorts most-recent-first.
func (r *clientRepository) List(ctx context.Context, scope entity.Scope, filter entity.ClientFilter) ([]model.Client, int64, error) {
	if scope.Empty() {
		return []model.Client{}, 0, nil
	}

	filter.Validate()

	q := applyScope(r.db.WithContext(ctx).Model(&model.Client{}), scope, "care_home_id")
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.CareHomeID != nil {
		q = q.Where("care_home_id = ?", *filter.CareHomeID)
	}
	if filter.ClientType != nil {
		q = q.Where("client_type = ?", *filter.ClientType)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR room_number ILIKE ?", term, term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count clients", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clients []model.Client
	err := q.Preload("CareHome").
		Order("last_name ASC, first_name ASC").
		Offset(filter.CalculateOffset()).
		Limit(filter.Limit).
		Find(&clients).Error
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, total, nil
}

func (r *clientRepository) CountActive(ctx context.Context, scope entity.Scope) (int64, error) {
	if scope.Empty() {
		return 0, nil
	}

	var total int64
	q := applyScope(r.db.WithContext(ctx).Model(&model.Client{}), scope, "care_home_id")
	if err := q.Where("is_active = ?", true).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return total, nil
}
