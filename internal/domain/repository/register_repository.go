package repository

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
)

// RegisterRepository defines the interface for register data access
type RegisterRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Register, error)
	// GetForUpdate reads the register row and holds a write lock on it until the
	// surrounding transaction ends. Returns nil, nil when the register does not exist.
	GetForUpdate(ctx context.Context, id string) (*entity.Register, error)
	// SaveCounter persists the counter state for the given day
	SaveCounter(ctx context.Context, id, counterDate string, counter int) error
	Create(ctx context.Context, register *entity.Register) error
	UpdateDetails(ctx context.Context, id, name, prefix string) error
}
