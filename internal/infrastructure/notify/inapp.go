// Package notify implements the delivery channels used by the
// notification dispatcher.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clearviewcare/carehome-server/internal/domain/model"
	apperrors "github.com/clearviewcare/carehome-server/pkg/errors"
)

// InAppSender delivers in-app notifications over redis pub/sub. Each entry
// is published to the recipient's channel and to the shared firehose
// channel.
type InAppSender struct {
	client  *redis.Client
	channel string
}

// NewInAppSender creates a new in-app sender publishing on the given
// channel prefix.
func NewInAppSender(client *redis.Client, channel string) *InAppSender {
	if channel == "" {
		channel = "notifications"
	}
	return &InAppSender{client: client, channel: channel}
}

// Send publishes the entry.
func (s *InAppSender) Send(ctx context.Context, entry *model.NotificationQueueEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal notification")
	}

	recipientChannel := fmt.Sprintf("%s:%s", s.channel, entry.RecipientID)
	if err := s.client.Publish(ctx, recipientChannel, payload).Err(); err != nil {
		return apperrors.Wrap(err, "failed to publish notification")
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return apperrors.Wrap(err, "failed to publish to shared channel")
	}
	return nil
}
