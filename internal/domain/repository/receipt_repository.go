package repository

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	// Create inserts the receipt row only; items are inserted with CreateItems
	Create(ctx context.Context, receipt *entity.Receipt) error
	CreateItems(ctx context.Context, items []entity.ReceiptItem) error
	GetWithItems(ctx context.Context, id string) (*entity.Receipt, error)
	// List returns receipts newest first
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Receipt, int64, error)
	// DeleteAll removes every receipt and receipt item
	DeleteAll(ctx context.Context) error
}
