package model

import (
	"time"

	"github.com/google/uuid"
)

// CareHome represents a residential care home
type CareHome struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string    `gorm:"not null;size:255" json:"name"`
	AddressLine1     string    `gorm:"size:255" json:"address_line1"`
	AddressLine2     string    `gorm:"size:255" json:"address_line2"`
	City             string    `gorm:"size:100" json:"city"`
	Postcode         string    `gorm:"size:20" json:"postcode"`
	Phone            string    `gorm:"size:50" json:"phone"`
	Email            string    `gorm:"size:255" json:"email"`
	Capacity         int       `gorm:"not null;default:0" json:"capacity"`
	CurrentOccupancy int       `gorm:"not null;default:0" json:"current_occupancy"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CareHome) TableName() string {
	return "care_homes"
}
