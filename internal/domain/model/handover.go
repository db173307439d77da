package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// ShiftType represents the shift a handover belongs to
type ShiftType string

const (
	ShiftTypeDay     ShiftType = "day"
	ShiftTypeEvening ShiftType = "evening"
	ShiftTypeNight   ShiftType = "night"
)

// Scan implements sql.Scanner interface
func (s *ShiftType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = ShiftType(v)
	case []byte:
		*s = ShiftType(v)
	default:
		*s = ShiftTypeDay
	}
	return nil
}

// Value implements driver.Valuer interface
func (s ShiftType) Value() (driver.Value, error) {
	return string(s), nil
}

// Valid reports whether the shift type is one of the known shifts.
func (s ShiftType) Valid() bool {
	switch s {
	case ShiftTypeDay, ShiftTypeEvening, ShiftTypeNight:
		return true
	}
	return false
}

// Handover records the transfer of responsibility between shifts
type Handover struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CareHomeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"care_home_id"`
	ShiftDate    time.Time `gorm:"not null" json:"shift_date"`
	ShiftType    ShiftType `gorm:"type:shift_type;not null" json:"shift_type"`
	HandoverFrom uuid.UUID `gorm:"type:uuid;not null" json:"handover_from"`
	HandoverTo   uuid.UUID `gorm:"type:uuid;not null" json:"handover_to"`
	Summary      string    `json:"summary"`
	IsCompleted  bool      `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Handover) TableName() string {
	return "handovers"
}
