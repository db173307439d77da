package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/adapter/repository"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Profile      domainRepo.ProfileRepository
	Assignment   domainRepo.AssignmentRepository
	CareHome     domainRepo.CareHomeRepository
	Client       domainRepo.ClientRepository
	CarePlan     domainRepo.CarePlanRepository
	Incident     domainRepo.IncidentRepository
	Handover     domainRepo.HandoverRepository
	Notification domainRepo.NotificationRepository
	Audit        domainRepo.AuditRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Profile:      repository.NewProfileRepository(db, logger),
		Assignment:   repository.NewAssignmentRepository(db, logger),
		CareHome:     repository.NewCareHomeRepository(db, logger),
		Client:       repository.NewClientRepository(db, logger),
		CarePlan:     repository.NewCarePlanRepository(db, logger),
		Incident:     repository.NewIncidentRepository(db, logger),
		Handover:     repository.NewHandoverRepository(db, logger),
		Notification: repository.NewNotificationRepository(db, logger),
		Audit:        repository.NewAuditRepository(db, logger),
	}
}
