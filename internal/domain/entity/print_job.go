package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PrintJob is one pickup-station slip of a receipt.
// PayloadText never changes after creation and doubles as the manual fallback receipt.
type PrintJob struct {
	ID          string              `gorm:"primaryKey" json:"id"`
	ReceiptID   string              `gorm:"not null;index" json:"receipt_id"`
	ReceiptCode string              `gorm:"not null" json:"receipt_code"`
	GroupID     string              `gorm:"not null" json:"group_id"`
	GroupName   string              `gorm:"not null" json:"group_name"`
	TotalCents  int64               `gorm:"not null" json:"total_cents"`
	Status      enum.PrintJobStatus `gorm:"type:text;not null;index" json:"status"`
	LastError   *string             `json:"last_error"`
	PayloadText string              `gorm:"type:text;not null" json:"payload_text"`
	CreatedAt   time.Time           `gorm:"not null;autoCreateTime:false" json:"created_at"`
	PrintedAt   *time.Time          `json:"printed_at"`
}

// BeforeCreate generates a time-ordered ID before creating a new print job
func (j *PrintJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		j.ID = id.String()
	}
	return nil
}

// TableName returns the table name for the PrintJob model
func (PrintJob) TableName() string {
	return "print_jobs"
}
