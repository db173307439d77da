package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// ClientType represents the age category of a client
type ClientType string

const (
	ClientTypeAdult ClientType = "adult"
	ClientTypeChild ClientType = "child"
)

// Scan implements sql.Scanner interface
func (t *ClientType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = ClientType(v)
	case []byte:
		*t = ClientType(v)
	default:
		*t = ClientTypeAdult
	}
	return nil
}

// Value implements driver.Valuer interface
func (t ClientType) Value() (driver.Value, error) {
	return string(t), nil
}

// ClientTypeForBirthDate derives the client type from a date of birth.
// The stored value is set once at creation and may be overridden; it is
// never recomputed afterwards.
func ClientTypeForBirthDate(dob time.Time, now time.Time) ClientType {
	if dob.AddDate(18, 0, 0).After(now) {
		return ClientTypeChild
	}
	return ClientTypeAdult
}

// Client represents a resident of a care home
type Client struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CareHomeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"care_home_id"`
	FirstName   string     `gorm:"not null;size:100" json:"first_name"`
	LastName    string     `gorm:"not null;size:100" json:"last_name"`
	DateOfBirth time.Time  `gorm:"not null" json:"date_of_birth"`
	ClientType  ClientType `gorm:"type:client_type;not null;default:'adult'" json:"client_type"`
	RoomNumber  string     `gorm:"size:20" json:"room_number"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:now()" json:"updated_at"`

	// Relations
	CareHome *CareHome `gorm:"foreignKey:CareHomeID" json:"care_home,omitempty"`
}

// TableName specifies the table name for GORM
func (Client) TableName() string {
	return "clients"
}
