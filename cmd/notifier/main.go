package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/config"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/infrastructure/cache"
	"github.com/clearviewcare/carehome-server/internal/infrastructure/database"
	"github.com/clearviewcare/carehome-server/internal/infrastructure/notify"
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

	zapLogger.Info("Starting notification dispatcher",
		zap.String("environment", cfg.Service.Environment))

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db, zapLogger)

	redisClient, err := cache.NewRedisClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	repos := database.NewRepositories(db, zapLogger)

	// No sms sender is registered; queued sms entries fail with a
	// provider-not-configured reason until one exists.
	senders := map[model.NotificationChannel]usecase.ChannelSender{
		model.ChannelInApp:   notify.NewInAppSender(redisClient, cfg.Notifier.InAppChannel),
		model.ChannelEmail:   notify.NewEmailSender(&cfg.Email),
		model.ChannelWebhook: notify.NewWebhookSender(),
	}

	dispatcher := usecase.NewNotificationDispatcher(
		repos.Notification,
		senders,
		cfg.Notifier.PollInterval,
		cfg.Notifier.BatchSize,
		zapLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Error("Dispatcher stopped with error", zap.Error(err))
		os.Exit(1)
	}

	zapLogger.Info("Dispatcher exited")
}
