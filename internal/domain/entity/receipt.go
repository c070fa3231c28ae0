package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Receipt is an issued sale. It is immutable once created.
type Receipt struct {
	ID            string           `gorm:"primaryKey" json:"id"`
	RegisterID    string           `gorm:"not null;index" json:"register_id"`
	ReceiptNo     int              `gorm:"not null" json:"receipt_no"`
	ReceiptCode   string           `gorm:"not null" json:"receipt_code"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime:false" json:"created_at"`
	PaymentType   enum.PaymentType `gorm:"type:text;not null" json:"payment_type"`
	TotalCents    int64            `gorm:"not null" json:"total_cents"`
	PrintRequired bool             `gorm:"not null" json:"print_required"`

	// Relationships
	Items []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
}

// BeforeCreate generates an ID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptItem is a snapshot of one cart line at sale time. IDs are UUIDv7 so
// that ordering by id restores cart order.
type ReceiptItem struct {
	ID             string `gorm:"primaryKey" json:"id"`
	ReceiptID      string `gorm:"not null;index" json:"receipt_id"`
	ProductID      string `gorm:"not null" json:"product_id"`
	CategoryID     string `gorm:"not null" json:"category_id"`
	GroupID        string `gorm:"not null" json:"group_id"`
	ProductName    string `gorm:"not null" json:"product_name"`
	Qty            int    `gorm:"not null" json:"qty"`
	UnitPriceCents int64  `gorm:"not null" json:"unit_price_cents"`
	LineTotalCents int64  `gorm:"not null" json:"line_total_cents"`
}

// BeforeCreate generates an ID before creating a new receipt item
func (i *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		i.ID = id.String()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}
