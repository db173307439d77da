package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationChannel represents the delivery channel of a queue entry
type NotificationChannel string

const (
	ChannelInApp   NotificationChannel = "in_app"
	ChannelEmail   NotificationChannel = "email"
	ChannelSMS     NotificationChannel = "sms"
	ChannelWebhook NotificationChannel = "webhook"
)

// Scan implements sql.Scanner interface
func (c *NotificationChannel) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*c = NotificationChannel(v)
	case []byte:
		*c = NotificationChannel(v)
	default:
		*c = ChannelInApp
	}
	return nil
}

// Value implements driver.Valuer interface
func (c NotificationChannel) Value() (driver.Value, error) {
	return string(c), nil
}

// NotificationStatus represents the delivery status of a queue entry
type NotificationStatus string

const (
	NotificationStatusQueued    NotificationStatus = "queued"
	NotificationStatusSending   NotificationStatus = "sending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusCancelled NotificationStatus = "cancelled"
)

// Scan implements sql.Scanner interface
func (s *NotificationStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = NotificationStatus(v)
	case []byte:
		*s = NotificationStatus(v)
	default:
		*s = NotificationStatusQueued
	}
	return nil
}

// Value implements driver.Valuer interface
func (s NotificationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// NotificationQueueEntry is a pending notification awaiting dispatch.
// Entries are produced by backend processes; the API surface only reads
// them and mutates their status (retry, cancel, mark-sent).
type NotificationQueueEntry struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RecipientID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Channel           NotificationChannel `gorm:"type:notification_channel;not null;default:'in_app'" json:"channel"`
	Status            NotificationStatus  `gorm:"type:notification_status;not null;default:'queued'" json:"status"`
	Subject           string              `gorm:"size:255" json:"subject"`
	Payload           datatypes.JSON      `gorm:"type:jsonb" json:"payload,omitempty"`
	RelatedEntityType string              `gorm:"size:50;index:idx_notifications_related" json:"related_entity_type"`
	RelatedEntityID   *uuid.UUID          `gorm:"type:uuid;index:idx_notifications_related" json:"related_entity_id,omitempty"`
	AttemptCount      int                 `gorm:"not null;default:0" json:"attempt_count"`
	LastError         string              `json:"last_error,omitempty"`
	SentAt            *time.Time          `json:"sent_at,omitempty"`
	CreatedAt         time.Time           `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (NotificationQueueEntry) TableName() string {
	return "notification_queue"
}
