package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note represents a study-note listing offered by a seller
type Note struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID    uint           `gorm:"not null;index" json:"seller_id"` // foreign key to accounts table
	Seller      Account        `gorm:"foreignKey:SellerID" json:"-"`
	SubjectID   uint           `gorm:"not null;index" json:"subject_id"` // foreign key to subjects table
	Subject     Subject        `gorm:"foreignKey:SubjectID" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       float64        `gorm:"not null;default:0;check:price >= 0" json:"price"`
	Semester    int            `gorm:"not null;check:semester >= 1 AND semester <= 8" json:"semester"`
	Year        int            `gorm:"not null" json:"year"`
	Tags        string         `json:"tags"`         // comma-separated free text
	ContactInfo string         `json:"contact_info"` // WhatsApp, Telegram, etc.
	Views       int            `gorm:"not null;default:0" json:"views"`
	Downloads   int            `gorm:"not null;default:0" json:"downloads"`
	IsFree      bool           `gorm:"not null" json:"is_free"` // no default tag: gorm would drop a false value from the INSERT
	IsApproved  bool           `gorm:"not null;default:false" json:"is_approved"` // admin gate on public visibility
	FileS3Key   *string        `json:"-"`                                         // nullable, S3 key for the uploaded note file
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for the Note model
func (Note) TableName() string {
	return "notes"
}
