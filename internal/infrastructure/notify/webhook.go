package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/clearviewcare/carehome-server/internal/domain/model"
	apperrors "github.com/clearviewcare/carehome-server/pkg/errors"
)

// webhookPayload is the expected shape of a webhook entry's payload.
type webhookPayload struct {
	URL    string          `json:"url"`
	Secret string          `json:"secret,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// WebhookSender delivers queue entries by POSTing to the payload's URL.
type WebhookSender struct {
	client *resty.Client
}

// NewWebhookSender creates a new webhook sender.
func NewWebhookSender() *WebhookSender {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)
	return &WebhookSender{client: client}
}

// Send posts the entry data. Non-2xx responses count as delivery failures.
func (s *WebhookSender) Send(ctx context.Context, entry *model.NotificationQueueEntry) error {
	var payload webhookPayload
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid webhook payload", err)
	}
	if payload.URL == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "webhook payload has no url", nil)
	}

	body := map[string]interface{}{
		"id":                  entry.ID,
		"subject":             entry.Subject,
		"related_entity_type": entry.RelatedEntityType,
		"related_entity_id":   entry.RelatedEntityID,
		"created_at":          entry.CreatedAt,
	}
	if len(payload.Data) > 0 {
		body["data"] = payload.Data
	}

	req := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if payload.Secret != "" {
		req.SetHeader("X-Webhook-Secret", payload.Secret)
	}

	resp, err := req.Post(payload.URL)
	if err != nil {
		return apperrors.Wrap(err, "webhook request failed")
	}
	if resp.IsError() {
		return apperrors.NewAppError(apperrors.ErrInternal, fmt.Sprintf("webhook returned status %d", resp.StatusCode()), nil)
	}
	return nil
}
