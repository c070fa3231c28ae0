package service

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
)

// PaymentStat is the revenue of one payment type
type PaymentStat struct {
	PaymentType string `json:"payment_type"`
	Receipts    int64  `json:"receipts"`
	TotalCents  int64  `json:"total_cents"`
}

// ProductStat is the quantity and revenue of one product
type ProductStat struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int64  `json:"qty"`
	TotalCents  int64  `json:"total_cents"`
}

// GroupStat is the quantity and revenue of one pickup station
type GroupStat struct {
	GroupID    string `json:"group_id"`
	GroupName  string `json:"group_name"`
	Qty        int64  `json:"qty"`
	TotalCents int64  `json:"total_cents"`
}

// EventSummary is the end-of-event report
type EventSummary struct {
	EventName     string        `json:"event_name"`
	ReceiptsCount int64         `json:"receipts_count"`
	TotalCents    int64         `json:"total_cents"`
	ByPayment     []PaymentStat `json:"by_payment"`
	ByProduct     []ProductStat `json:"by_product"`
	ByGroup       []GroupStat   `json:"by_group"`
}

// EventSummaryService aggregates issued receipts. It never writes sales data.
type EventSummaryService struct {
	summaryRepo repository.SummaryRepository
	settings    *SettingsService
}

// NewEventSummaryService creates a new event summary service
func NewEventSummaryService(summaryRepo repository.SummaryRepository, settings *SettingsService) *EventSummaryService {
	return &EventSummaryService{
		summaryRepo: summaryRepo,
		settings:    settings,
	}
}

// Summarize builds the report over every receipt in the store
func (s *EventSummaryService) Summarize(ctx context.Context) (*EventSummary, error) {
	eventName, err := s.settings.EventName(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.summaryRepo.GetTotals(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read totals", err)
	}
	byPayment, err := s.summaryRepo.GetByPayment(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read payment totals", err)
	}
	byProduct, err := s.summaryRepo.GetByProduct(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read product totals", err)
	}
	byGroup, err := s.summaryRepo.GetByGroup(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read station totals", err)
	}

	summary := &EventSummary{
		EventName:     eventName,
		ReceiptsCount: totals.ReceiptsCount,
		TotalCents:    totals.TotalCents,
		ByPayment:     make([]PaymentStat, 0, len(byPayment)),
		ByProduct:     make([]ProductStat, 0, len(byProduct)),
		ByGroup:       make([]GroupStat, 0, len(byGroup)),
	}
	for _, p := range byPayment {
		summary.ByPayment = append(summary.ByPayment, PaymentStat{
			PaymentType: p.PaymentType,
			Receipts:    p.Count,
			TotalCents:  p.TotalCents,
		})
	}
	for _, p := range byProduct {
		summary.ByProduct = append(summary.ByProduct, ProductStat{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Qty:         p.Qty,
			TotalCents:  p.TotalCents,
		})
	}
	for _, g := range byGroup {
		summary.ByGroup = append(summary.ByGroup, GroupStat{
			GroupID:    g.GroupID,
			GroupName:  g.GroupName,
			Qty:        g.Qty,
			TotalCents: g.TotalCents,
		})
	}

	return summary, nil
}
