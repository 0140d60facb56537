package models

import (
	"time"
)

// Subject is one entry in the fixed course taxonomy notes are listed under
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Subject model
func (Subject) TableName() string {
	return "subjects"
}
