package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"column:password_hash;not null" json:"-"`
	DisplayName string     `json:"display_name"`
	Major       string     `json:"major,omitempty"`
	Role        string     `gorm:"default:'student';not null" json:"role"` // "student" or "admin"
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
