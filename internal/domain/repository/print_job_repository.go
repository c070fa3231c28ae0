package repository

import (
	"context"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
)

// PrintJobRepository defines the interface for print queue data access.
// Every status transition is a single UPDATE statement.
type PrintJobRepository interface {
	CreateBatch(ctx context.Context, jobs []entity.PrintJob) error
	GetByID(ctx context.Context, id string) (*entity.PrintJob, error)
	// ListOpen returns jobs that are not PRINTED, newest first
	ListOpen(ctx context.Context) ([]entity.PrintJob, error)
	ListByReceipt(ctx context.Context, receiptID string) ([]entity.PrintJob, error)
	// MarkPrinted sets PRINTED, printed_at and clears last_error. Returns false when no job matched.
	MarkPrinted(ctx context.Context, id string, printedAt time.Time) (bool, error)
	// MarkFailed sets FAILED and last_error on a job that is not PRINTED.
	// Returns false when no job matched.
	MarkFailed(ctx context.Context, id, message string) (bool, error)
	DeleteAll(ctx context.Context) error
}
