package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a profile
type Role string

const (
	RoleCarer         Role = "carer"
	RoleManager       Role = "manager"
	RoleBusinessOwner Role = "business_owner"
)

// Scan implements sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		*r = RoleCarer
	}
	return nil
}

// Value implements driver.Valuer interface
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCarer, RoleManager, RoleBusinessOwner:
		return true
	}
	return false
}

// CanManageCareHomes reports whether the role may create or edit care homes
// and manager assignments.
func (r Role) CanManageCareHomes() bool {
	return r == RoleBusinessOwner
}

// CanManageUsers reports whether the role may administer profiles.
func (r Role) CanManageUsers() bool {
	return r == RoleBusinessOwner
}

// CanManageNotifications reports whether the role may mutate the
// notification queue.
func (r Role) CanManageNotifications() bool {
	return r == RoleBusinessOwner
}

// CanCreateClients reports whether the role may register new clients.
func (r Role) CanCreateClients() bool {
	return r == RoleBusinessOwner || r == RoleManager
}

// CanViewAuditFeed reports whether the role may read the activity feed.
// Managers see it narrowed to their homes; carers do not see it at all.
func (r Role) CanViewAuditFeed() bool {
	return r == RoleBusinessOwner || r == RoleManager
}

// CanRecordCare reports whether the role may write care records: care
// plans, incidents and handovers. All roles record care; visibility is
// narrowed separately by scope.
func (r Role) CanRecordCare() bool {
	return r.Valid()
}

// Profile represents an authenticated actor's profile
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Role      Role      `gorm:"type:profile_role;not null;default:'carer'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// ManagerCareHome is the assignment edge defining a manager's visibility scope
type ManagerCareHome struct {
	ManagerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"manager_id"`
	CareHomeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"care_home_id"`
	CreatedAt  time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (ManagerCareHome) TableName() string {
	return "manager_care_homes"
}
