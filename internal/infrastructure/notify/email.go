package notify

import (
	"context"
	"encoding/json"

	"gopkg.in/gomail.v2"

	apperrors "github.com/clearviewcare/carehome-server/pkg/errors"

	"github.com/clearviewcare/carehome-server/internal/config"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
)

// emailPayload is the expected shape of an email entry's payload.
type emailPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
	HTML string `json:"html,omitempty"`
}

// EmailSender delivers queue entries over SMTP.
type EmailSender struct {
	cfg *config.EmailConfig
}

// NewEmailSender creates a new SMTP email sender.
func NewEmailSender(cfg *config.EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send delivers one entry. The recipient address and body come from the
// entry payload; the subject from the entry itself.
func (s *EmailSender) Send(_ context.Context, entry *model.NotificationQueueEntry) error {
	var payload emailPayload
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid email payload", err)
	}
	if payload.To == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "email payload has no recipient address", nil)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.FromAddress, s.cfg.FromName))
	m.SetHeader("To", payload.To)
	m.SetHeader("Subject", entry.Subject)
	if payload.HTML != "" {
		m.SetBody("text/html", payload.HTML)
	} else {
		m.SetBody("text/plain", payload.Body)
	}

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUsername, s.cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return apperrors.Wrap(err, "failed to send email")
	}
	return nil
}
