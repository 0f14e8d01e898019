package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleManager:
		return true
	}
	return false
}

// User is a staff account. Password holds a bcrypt hash and is never serialized.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"not null" json:"-"`
	Role      Role       `gorm:"type:varchar(20);index;not null;default:'STAFF'" json:"role"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleStaff
	}
	return
}
