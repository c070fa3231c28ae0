package entity

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CounterDateLayout is the calendar-day format stored in registers.counter_date
const CounterDateLayout = "2006-01-02"

// Register is a till issuing sequentially numbered receipts.
// Counter holds the highest receipt number issued on CounterDate.
type Register struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Prefix      string `gorm:"not null" json:"prefix"`
	CounterDate string `gorm:"column:counter_date;not null" json:"counter_date"`
	Counter     int    `gorm:"not null;default:0" json:"counter"`
}

// BeforeCreate generates an ID before creating a new register
func (r *Register) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Register model
func (Register) TableName() string {
	return "registers"
}

// FormatReceiptCode builds the human-readable receipt code, e.g. K1-000042
func FormatReceiptCode(prefix string, receiptNo int) string {
	return fmt.Sprintf("%s-%06d", prefix, receiptNo)
}
