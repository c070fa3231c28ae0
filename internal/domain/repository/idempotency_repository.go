package repository

import (
	"context"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and terminal ID
	GetByKey(ctx context.Context, key, terminalID string) (*entity.IdempotencyKey, error)
	// Reserve claims the key for one in-flight request. It reports false when an
	// unexpired entry already holds the key. An expired entry is taken over.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey, now time.Time) (bool, error)
	// Complete stores the response of a reserved key
	Complete(ctx context.Context, key, terminalID string, responseCode int, responseBody string, expiresAt time.Time) error
	// Release drops a reservation that never completed
	Release(ctx context.Context, key, terminalID string) error
	// DeleteExpired removes idempotency keys that expired before now
	DeleteExpired(ctx context.Context, now time.Time) error
}
