package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed checkout requests so a double tap replays the first answer
type IdempotencyKey struct {
	ID           string    `gorm:"primaryKey"`
	Key          string    `gorm:"size:255;not null"`       // The idempotency key from client
	TerminalID   string    `gorm:"size:64;not null;index"`  // Terminal session that made the request
	Endpoint     string    `gorm:"size:255;not null"`       // API endpoint (e.g., "POST /checkout")
	ResponseCode int       `gorm:"not null"`                // HTTP status code of original response, 0 while in flight
	ResponseBody string    `gorm:"type:text"`               // JSON response body (cached)
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"` // Keys expire after 24 hours
}

// BeforeCreate generates an ID before storing the key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsPending reports whether the original request is still being handled
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == 0
}
