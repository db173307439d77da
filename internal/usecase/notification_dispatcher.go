package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/model"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// ChannelSender delivers one queue entry over a specific channel.
type ChannelSender interface {
	Send(ctx context.Context, entry *model.NotificationQueueEntry) error
}

// NotificationDispatcher drains the notification queue. Entries are
// claimed atomically, so several dispatcher instances can run against the
// same database without double-delivering.
type NotificationDispatcher struct {
	notificationRepo domainRepo.NotificationRepository
	senders          map[model.NotificationChannel]ChannelSender
	interval         time.Duration
	batchSize        int
	logger           *zap.Logger
}

// NewNotificationDispatcher creates a new dispatcher. Channels without a
// registered sender fail their entries with a configuration error.
func NewNotificationDispatcher(
	notificationRepo domainRepo.NotificationRepository,
	senders map[model.NotificationChannel]ChannelSender,
	interval time.Duration,
	batchSize int,
	logger *zap.Logger,
) *NotificationDispatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &NotificationDispatcher{
		notificationRepo: notificationRepo,
		senders:          senders,
		interval:         interval,
		batchSize:        batchSize,
		logger:           logger,
	}
}

// Run polls the queue until the context is cancelled.
func (d *NotificationDispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("Notification dispatcher started",
		zap.Duration("interval", d.interval),
		zap.Int("batch_size", d.batchSize))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Notification dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			if n, err := d.DispatchOnce(ctx); err != nil {
				d.logger.Error("Dispatch cycle failed", zap.Error(err))
			} else if n > 0 {
				d.logger.Info("Dispatched notifications", zap.Int("count", n))
			}
		}
	}
}

// DispatchOnce claims one batch of queued entries and delivers them,
// returning how many were attempted.
func (d *NotificationDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	entries, err := d.notificationRepo.ClaimQueued(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}

	for i := range entries {
		d.deliver(ctx, &entries[i])
	}
	return len(entries), nil
}

func (d *NotificationDispatcher) deliver(ctx context.Context, entry *model.NotificationQueueEntry) {
	sender, ok := d.senders[entry.Channel]
	if !ok {
		d.fail(ctx, entry, "no "+string(entry.Channel)+" provider configured")
		return
	}

	if err := sender.Send(ctx, entry); err != nil {
		d.fail(ctx, entry, err.Error())
		return
	}

	if err := d.notificationRepo.MarkSent(ctx, entry.ID, time.Now()); err != nil {
		d.logger.Error("Failed to mark notification sent",
			zap.String("notification_id", entry.ID.String()),
			zap.Error(err))
	}
}

func (d *NotificationDispatcher) fail(ctx context.Context, entry *model.NotificationQueueEntry, reason string) {
	d.logger.Warn("Notification delivery failed",
		zap.String("notification_id", entry.ID.String()),
		zap.String("channel", string(entry.Channel)),
		zap.String("reason", reason))

	if err := d.notificationRepo.MarkFailed(ctx, entry.ID, reason); err != nil {
		d.logger.Error("Failed to mark notification failed",
			zap.String("notification_id", entry.ID.String()),
			zap.Error(err))
	}
}
