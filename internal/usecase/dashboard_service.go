package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// DashboardService computes the landing-screen summary. Every count runs
// through the same scope filtering as the screens it links to, so the
// numbers always match what the actor sees when they click through.
type DashboardService struct {
	careHomeRepo domainRepo.CareHomeRepository
	clientRepo   domainRepo.ClientRepository
	planRepo     domainRepo.CarePlanRepository
	incidentRepo domainRepo.IncidentRepository
	handoverRepo domainRepo.HandoverRepository
	scopes       *AccessScopeService
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	careHomeRepo domainRepo.CareHomeRepository,
	clientRepo domainRepo.ClientRepository,
	planRepo domainRepo.CarePlanRepository,
	incidentRepo domainRepo.IncidentRepository,
	handoverRepo domainRepo.HandoverRepository,
	scopes *AccessScopeService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		careHomeRepo: careHomeRepo,
		clientRepo:   clientRepo,
		planRepo:     planRepo,
		incidentRepo: incidentRepo,
		handoverRepo: handoverRepo,
		scopes:       scopes,
		logger:       logger,
		now:          time.Now,
	}
}

// Summary builds the dashboard for the actor.
func (s *DashboardService) Summary(ctx context.Context, actor entity.Actor) (*entity.DashboardSummary, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &entity.DashboardSummary{}

	if summary.CareHomes, err = s.careHomeRepo.Count(ctx, scope); err != nil {
		return nil, err
	}
	if summary.ActiveClients, err = s.clientRepo.CountActive(ctx, scope); err != nil {
		return nil, err
	}

	bySeverity, err := s.incidentRepo.CountBySeverity(ctx, scope, true)
	if err != nil {
		return nil, err
	}
	summary.IncidentsBySeverity = bySeverity
	for _, count := range bySeverity {
		summary.OpenIncidents += count
	}
	summary.CriticalIncidents = bySeverity[string(model.SeverityCritical)]

	if summary.ReviewsDue, err = s.planRepo.CountReviewsByClass(ctx, scope, entity.DateFilterDue, now); err != nil {
		return nil, err
	}
	if summary.ReviewsUpcoming, err = s.planRepo.CountReviewsByClass(ctx, scope, entity.DateFilterUpcoming, now); err != nil {
		return nil, err
	}
	if summary.OverdueTasks, err = s.planRepo.CountOverdueTasks(ctx, scope, now); err != nil {
		return nil, err
	}
	if summary.IncompleteHandovers, err = s.handoverRepo.CountIncomplete(ctx, scope); err != nil {
		return nil, err
	}

	return summary, nil
}
