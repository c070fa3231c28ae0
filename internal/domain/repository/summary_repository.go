package repository

import "context"

// ReceiptTotals is the overall count and sum of issued receipts
type ReceiptTotals struct {
	ReceiptsCount int64
	TotalCents    int64
}

// PaymentTotalResult is the revenue of one payment type
type PaymentTotalResult struct {
	PaymentType string
	Count       int64
	TotalCents  int64
}

// ProductTotalResult is the quantity and revenue of one product
type ProductTotalResult struct {
	ProductID   string
	ProductName string
	Qty         int64
	TotalCents  int64
}

// GroupTotalResult is the quantity and revenue of one pickup station
type GroupTotalResult struct {
	GroupID    string
	GroupName  string
	Qty        int64
	TotalCents int64
}

// SummaryRepository defines read-only aggregation queries over issued receipts
type SummaryRepository interface {
	GetTotals(ctx context.Context) (*ReceiptTotals, error)
	// GetByPayment orders rows by payment type
	GetByPayment(ctx context.Context) ([]PaymentTotalResult, error)
	// GetByProduct orders rows by total desc, qty desc, name asc
	GetByProduct(ctx context.Context) ([]ProductTotalResult, error)
	// GetByGroup orders rows by total desc, qty desc, name asc.
	// Unknown group ids report the raw id as their name.
	GetByGroup(ctx context.Context) ([]GroupTotalResult, error)
}
