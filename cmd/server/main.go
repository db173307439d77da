package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/config"
	"github.com/clearviewcare/carehome-server/internal/infrastructure/cache"
	"github.com/clearviewcare/carehome-server/internal/infrastructure/database"
	httpserver "github.com/clearviewcare/carehome-server/internal/infrastructure/http"
	"github.com/clearviewcare/carehome-server/internal/infrastructure/storage"
	"github.com/clearviewcare/carehome-server/internal/usecase"
	"github.com/clearviewcare/carehome-server/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting carehome server",
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version))

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db, zapLogger)

	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	objectStore, err := storage.NewS3Store(context.Background(), &cfg.Storage, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	repos := database.NewRepositories(db, zapLogger)

	scopes := usecase.NewAccessScopeService(repos.Assignment, redisClient, zapLogger)
	audit := usecase.NewAuditService(repos.Audit, scopes, zapLogger)

	services := &httpserver.Services{
		CareHome:     usecase.NewCareHomeService(repos.CareHome, repos.Assignment, repos.Profile, scopes, audit, zapLogger),
		Client:       usecase.NewClientService(repos.Client, repos.CareHome, scopes, audit, zapLogger),
		CarePlan:     usecase.NewCarePlanService(repos.CarePlan, repos.Client, scopes, audit, zapLogger),
		Incident:     usecase.NewIncidentService(repos.Incident, repos.Client, scopes, audit, zapLogger),
		Handover:     usecase.NewHandoverService(repos.Handover, scopes, audit, zapLogger),
		Notification: usecase.NewNotificationService(repos.Notification, audit, zapLogger),
		User:         usecase.NewUserService(repos.Profile, scopes, audit, zapLogger),
		Document:     usecase.NewDocumentService(objectStore, repos.Client, repos.CareHome, scopes, audit, cfg.Storage.PresignTTL, zapLogger),
		Dashboard:    usecase.NewDashboardService(repos.CareHome, repos.Client, repos.CarePlan, repos.Incident, repos.Handover, scopes, zapLogger),
		Audit:        audit,
		Profiles:     repos.Profile,
	}

	server := httpserver.NewServer(cfg, zapLogger, services)

	go func() {
		if err := server.Start(); err != nil {
			zapLogger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
