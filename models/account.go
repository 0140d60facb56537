package models

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a registered user, identified by phone number
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Phone        string         `gorm:"uniqueIndex;not null" json:"phone"`
	PasswordHash string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Name         string         `json:"name"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
	DateJoined   time.Time      `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
