package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left by a buyer on a seller's note.
// One review per (reviewer, note) pair.
type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ReviewerID uint           `gorm:"not null;uniqueIndex:idx_reviewer_note" json:"reviewer_id"` // foreign key to accounts table
	Reviewer   Account        `gorm:"foreignKey:ReviewerID" json:"-"`
	SellerID   uint           `gorm:"not null;index" json:"seller_id"` // foreign key to accounts table
	Seller     Account        `gorm:"foreignKey:SellerID" json:"-"`
	NoteID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviewer_note" json:"note_id"` // foreign key to notes table
	Note       Note           `gorm:"foreignKey:NoteID" json:"-"`
	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string         `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
