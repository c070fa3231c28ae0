package repository

import (
	"context"

	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) domainRepo.SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) GetTotals(ctx context.Context) (*domainRepo.ReceiptTotals, error) {
	var totals domainRepo.ReceiptTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS receipts_count,
			COALESCE(SUM(total_cents), 0) AS total_cents
		FROM receipts
	`).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *summaryRepository) GetByPayment(ctx context.Context) ([]domainRepo.PaymentTotalResult, error) {
	var results []domainRepo.PaymentTotalResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			payment_type,
			COUNT(*) AS count,
			COALESCE(SUM(total_cents), 0) AS total_cents
		FROM receipts
		GROUP BY payment_type
		ORDER BY payment_type
	`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *summaryRepository) GetByProduct(ctx context.Context) ([]domainRepo.ProductTotalResult, error) {
	var results []domainRepo.ProductTotalResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			product_name,
			COALESCE(SUM(qty), 0) AS qty,
			COALESCE(SUM(line_total_cents), 0) AS total_cents
		FROM receipt_items
		GROUP BY product_id, product_name
		ORDER BY total_cents DESC, qty DESC, product_name ASC
	`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *summaryRepository) GetByGroup(ctx context.Context) ([]domainRepo.GroupTotalResult, error) {
	var results []domainRepo.GroupTotalResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ri.group_id AS group_id,
			COALESCE(MAX(pg.name), ri.group_id) AS group_name,
			COALESCE(SUM(ri.qty), 0) AS qty,
			COALESCE(SUM(ri.line_total_cents), 0) AS total_cents
		FROM receipt_items ri
		LEFT JOIN pickup_groups pg ON pg.id = ri.group_id
		GROUP BY ri.group_id
		ORDER BY total_cents DESC, qty DESC, group_name ASC
	`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
