package service

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/metrics"
	"github.com/sangkips/festkasse-api/pkg/pagination"
	"github.com/sangkips/festkasse-api/pkg/validation"
)

// Clock returns the current time
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// RegisterContext identifies the register and event a receipt is issued for.
// It is read from settings before the issuing transaction starts.
type RegisterContext struct {
	RegisterID string
	EventName  string
}

// ReceiptItemInput is one cart line as sold
type ReceiptItemInput struct {
	ProductID      string `json:"product_id"`
	CategoryID     string `json:"category_id"`
	ProductName    string `json:"product_name" validate:"notblank"`
	Qty            int    `json:"qty" validate:"gt=0"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"gte=0"`
}

// IssueReceiptInput represents the issue receipt input
type IssueReceiptInput struct {
	PaymentType   enum.PaymentType   `json:"payment_type" validate:"required,oneof=CASH CARD"`
	Items         []ReceiptItemInput `json:"items" validate:"dive"`
	PrintRequired bool               `json:"print_required"`
}

// IssuedReceipt is everything written by one issuance
type IssuedReceipt struct {
	Receipt   *entity.Receipt      `json:"receipt"`
	Items     []entity.ReceiptItem `json:"items"`
	PrintJobs []entity.PrintJob    `json:"print_jobs"`
}

// ReceiptService issues receipts and reads them back
type ReceiptService struct {
	transactor  repository.Transactor
	receiptRepo repository.ReceiptRepository
	allocator   CounterAllocator
	metrics     *metrics.POSMetrics
	log         *logger.Logger
	now         Clock

	// serializes issuance within the process; the register row lock covers other processes
	mu sync.Mutex
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	transactor repository.Transactor,
	receiptRepo repository.ReceiptRepository,
	posMetrics *metrics.POSMetrics,
	log *logger.Logger,
	now Clock,
) *ReceiptService {
	return &ReceiptService{
		transactor:  transactor,
		receiptRepo: receiptRepo,
		metrics:     posMetrics,
		log:         log,
		now:         clockOrNow(now),
	}
}

// Issue allocates the next receipt number and writes the receipt, its items
// and, when printing is required, one pending print job per pickup station.
// Either everything is written or nothing is.
func (s *ReceiptService) Issue(ctx context.Context, rc RegisterContext, input *IssueReceiptInput) (*IssuedReceipt, error) {
	if err := validation.Struct(input); err != nil {
		s.metrics.CheckoutFailed(string(apperror.KindOf(err)))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	now := s.now()

	var issued *IssuedReceipt
	err := s.transactor.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		register, receiptNo, err := s.allocator.Allocate(ctx, repos.Registers, rc.RegisterID, now)
		if err != nil {
			return err
		}

		snapshot, err := LoadCatalogSnapshot(ctx, repos)
		if err != nil {
			return err
		}

		var total int64
		for _, item := range input.Items {
			total += int64(item.Qty) * item.UnitPriceCents
		}

		receipt := &entity.Receipt{
			RegisterID:    register.ID,
			ReceiptNo:     receiptNo,
			ReceiptCode:   entity.FormatReceiptCode(register.Prefix, receiptNo),
			CreatedAt:     now,
			PaymentType:   input.PaymentType,
			TotalCents:    total,
			PrintRequired: input.PrintRequired,
		}
		if err := repos.Receipts.Create(ctx, receipt); err != nil {
			return err
		}

		items := make([]entity.ReceiptItem, 0, len(input.Items))
		for _, in := range input.Items {
			items = append(items, entity.ReceiptItem{
				ReceiptID:      receipt.ID,
				ProductID:      in.ProductID,
				CategoryID:     in.CategoryID,
				GroupID:        snapshot.ResolveGroup(in.ProductID, in.CategoryID),
				ProductName:    in.ProductName,
				Qty:            in.Qty,
				UnitPriceCents: in.UnitPriceCents,
				LineTotalCents: int64(in.Qty) * in.UnitPriceCents,
			})
		}
		if err := repos.Receipts.CreateItems(ctx, items); err != nil {
			return err
		}

		jobs := []entity.PrintJob{}
		if input.PrintRequired {
			for _, bill := range SplitBill(items) {
				groupName := snapshot.GroupName(bill.GroupID)
				jobs = append(jobs, entity.PrintJob{
					ReceiptID:   receipt.ID,
					ReceiptCode: receipt.ReceiptCode,
					GroupID:     bill.GroupID,
					GroupName:   groupName,
					TotalCents:  bill.SumCents,
					Status:      enum.PrintJobStatusPending,
					PayloadText: RenderPayload(Slip{
						EventName:   rc.EventName,
						GroupName:   groupName,
						ReceiptCode: receipt.ReceiptCode,
						When:        now,
						Lines:       SlipLines(bill.Items),
						SumCents:    bill.SumCents,
						PaymentType: input.PaymentType,
					}),
					CreatedAt: now,
				})
			}
			if err := repos.PrintJobs.CreateBatch(ctx, jobs); err != nil {
				return err
			}
		}

		issued = &IssuedReceipt{Receipt: receipt, Items: items, PrintJobs: jobs}
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewPersistenceError("Failed to issue receipt", err)
		}
		s.metrics.CheckoutFailed(string(apperror.KindOf(err)))
		s.log.Error(ctx, "receipt issuance failed", err)
		return nil, err
	}

	s.metrics.ReceiptIssued(string(input.PaymentType), issued.Receipt.TotalCents, time.Since(started))
	s.log.Infof(ctx, "issued receipt %s (%d items, %d print jobs)",
		issued.Receipt.ReceiptCode, len(issued.Items), len(issued.PrintJobs))

	return issued, nil
}

// GetReceipt returns a receipt with its items
func (s *ReceiptService) GetReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read receipt", err)
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts returns receipts newest first
func (s *ReceiptService) ListReceipts(ctx context.Context, params *pagination.PaginationParams) ([]entity.Receipt, *pagination.Pagination, error) {
	params.Validate()

	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, nil, apperror.NewPersistenceError("Failed to list receipts", err)
	}

	return receipts, pagination.NewPagination(params.Page, params.PerPage, total), nil
}
