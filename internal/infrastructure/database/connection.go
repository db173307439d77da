package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/clearviewcare/carehome-server/pkg/errors"

	"github.com/clearviewcare/carehome-server/internal/config"
	"github.com/clearviewcare/carehome-server/pkg/logger"
)

// Queries slower than this are logged at warn level.
const slowQueryThreshold = 200 * time.Millisecond

// NewConnection opens the postgres connection, applies the configured pool
// limits and verifies the database is reachable before returning.
func NewConnection(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   logger.NewGormLogger(log, gormlogger.Warn, slowQueryThreshold, true),
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to access the connection pool")
	}
	cfg.ApplyPool(sqlDB)

	if err := sqlDB.Ping(); err != nil {
		return nil, apperrors.Wrap(err, "failed to ping database")
	}

	log.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name))

	return db, nil
}

// Close drains and closes the underlying connection pool.
func Close(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return apperrors.Wrap(err, "failed to access the connection pool")
	}
	if err := sqlDB.Close(); err != nil {
		return apperrors.Wrap(err, "failed to close database connection")
	}

	log.Info("Database connection closed")
	return nil
}
