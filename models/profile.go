package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile holds the student details attached to an account
type Profile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AccountID      uint           `gorm:"uniqueIndex;not null" json:"account_id"` // foreign key to accounts table
	Account        Account        `gorm:"foreignKey:AccountID" json:"-"`
	StudentID      string         `gorm:"uniqueIndex;not null" json:"student_id"`
	College        string         `gorm:"not null" json:"college"`
	Department     string         `gorm:"not null" json:"department"`
	Year           int            `gorm:"not null;check:year >= 1 AND year <= 4" json:"year"` // 1st-4th year
	Bio            string         `gorm:"type:text" json:"bio"`
	Rating         float64        `gorm:"not null;default:0" json:"rating"` // derived from reviews, 0-5
	TotalSales     int            `gorm:"not null;default:0" json:"total_sales"`
	TotalPurchases int            `gorm:"not null;default:0" json:"total_purchases"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
