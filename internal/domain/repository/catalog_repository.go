package repository

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
)

// PickupGroupRepository defines the interface for pickup station data access
type PickupGroupRepository interface {
	// List returns groups ordered by sort_index, then name
	List(ctx context.Context) ([]entity.PickupGroup, error)
	GetByID(ctx context.Context, id string) (*entity.PickupGroup, error)
	Create(ctx context.Context, group *entity.PickupGroup) error
	Rename(ctx context.Context, id, name string) error
	MaxSortIndex(ctx context.Context) (int, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// List returns categories ordered by sort_index, then name
	List(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	CategoryID string
	ActiveOnly bool
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List returns products ordered by sort_index, then name
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, error)
	// Upsert inserts the product or replaces all of its columns
	Upsert(ctx context.Context, product *entity.Product) error
	SetGroup(ctx context.Context, id string, groupID *string) error
	Deactivate(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
