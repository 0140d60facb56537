package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status lifecycle values
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order links a buyer, a seller and a note with a payment status
type Order struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID       uint           `gorm:"not null;index" json:"buyer_id"` // foreign key to accounts table
	Buyer         Account        `gorm:"foreignKey:BuyerID" json:"-"`
	SellerID      uint           `gorm:"not null;index" json:"seller_id"` // foreign key to accounts table
	Seller        Account        `gorm:"foreignKey:SellerID" json:"-"`
	NoteID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"note_id"` // foreign key to notes table
	Note          Note           `gorm:"foreignKey:NoteID" json:"-"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Status        string         `gorm:"not null;default:'pending'" json:"status"` // pending, completed, cancelled
	PaymentMethod string         `json:"payment_method"`
	TransactionID string         `json:"transaction_id"`
	CreatedAt     time.Time      `json:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at"` // nullable, set when order completes
	UpdatedAt     time.Time      `json:"-"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
