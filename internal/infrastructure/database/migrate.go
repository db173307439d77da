package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	logger.Info("Creating PostgreSQL extensions...")
	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	// Custom types must exist BEFORE auto-migrate references them
	logger.Info("Creating custom PostgreSQL types...")
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	logger.Info("Running GORM auto-migrations...")
	err := db.AutoMigrate(
		&model.Profile{},
		&model.CareHome{},
		&model.ManagerCareHome{},
		&model.Client{},
		&model.CarePlan{},
		&model.CarePlanVersion{},
		&model.CarePlanTask{},
		&model.CarePlanReview{},
		&model.Incident{},
		&model.IncidentAction{},
		&model.IncidentFollowup{},
		&model.Handover{},
		&model.NotificationQueueEntry{},
		&model.AuditEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// createCustomIndexes creates indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Enforce at most one active version per care plan at the database
	// level, backing up the transactional activation path
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_active_version_per_care_plan ON care_plan_versions (care_plan_id) WHERE is_active`).Error; err != nil {
		return err
	}

	// A plan's version numbers never collide
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_version_number_per_care_plan ON care_plan_versions (care_plan_id, version_number)`).Error; err != nil {
		return err
	}

	// Dispatcher scans only queued entries
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_notification_queue_pending ON notification_queue (created_at) WHERE status = 'queued'`).Error; err != nil {
		return err
	}

	return nil
}

// createCustomTypes creates custom PostgreSQL enum types
func createCustomTypes(db *gorm.DB) error {
	types := map[string]string{
		"profile_role":          `CREATE TYPE profile_role AS ENUM ('carer', 'manager', 'business_owner')`,
		"client_type":           `CREATE TYPE client_type AS ENUM ('adult', 'child')`,
		"version_status":        `CREATE TYPE version_status AS ENUM ('draft', 'active', 'archived')`,
		"task_status":           `CREATE TYPE task_status AS ENUM ('pending', 'in_progress', 'completed', 'cancelled')`,
		"review_status":         `CREATE TYPE review_status AS ENUM ('scheduled', 'in_progress', 'completed', 'overdue', 'cancelled')`,
		"incident_severity":     `CREATE TYPE incident_severity AS ENUM ('low', 'medium', 'high', 'critical')`,
		"incident_status":       `CREATE TYPE incident_status AS ENUM ('open', 'investigating', 'resolved', 'closed')`,
		"action_status":         `CREATE TYPE action_status AS ENUM ('pending', 'in_progress', 'completed', 'overdue', 'cancelled')`,
		"shift_type":            `CREATE TYPE shift_type AS ENUM ('day', 'evening', 'night')`,
		"notification_channel":  `CREATE TYPE notification_channel AS ENUM ('in_app', 'email', 'sms', 'webhook')`,
		"notification_status":   `CREATE TYPE notification_status AS ENUM ('queued', 'sending', 'sent', 'failed', 'cancelled')`,
	}

	for name, ddl := range types {
		var exists bool
		db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = ?)`, name).Scan(&exists)
		if !exists {
			if err := db.Exec(ddl).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
