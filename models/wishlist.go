package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a saved-for-later association between a user and a note.
// One entry per (user, note) pair. Rows delete for real: a soft delete would
// keep the removed pair in the unique index and block re-adding it.
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_note" json:"user_id"` // foreign key to accounts table
	User      Account   `gorm:"foreignKey:UserID" json:"-"`
	NoteID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_note" json:"note_id"` // foreign key to notes table
	Note      Note      `gorm:"foreignKey:NoteID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the WishlistItem model
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
