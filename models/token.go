package models

import (
	"time"
)

// RefreshToken is a long-lived opaque credential that can be exchanged for a
// fresh access token
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"` // foreign key to accounts table
	Account   Account   `gorm:"foreignKey:AccountID" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
