package repository

import (
	"context"
	"errors"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Omit("Items").Create(receipt).Error
}

func (r *receiptRepository) CreateItems(ctx context.Context, items []entity.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *receiptRepository) GetWithItems(ctx context.Context, id string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Where("id = ?", id).
		First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Order("receipt_no DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&receipts).Error
	if err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}

func (r *receiptRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.ReceiptItem{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&entity.Receipt{}).Error
	})
}
