package service

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
)

// PrintQueueService tracks the state of pickup slips. Jobs are only created
// by ReceiptService.Issue; this service moves them between states.
type PrintQueueService struct {
	printJobRepo repository.PrintJobRepository
	now          Clock
}

// NewPrintQueueService creates a new print queue service
func NewPrintQueueService(printJobRepo repository.PrintJobRepository, now Clock) *PrintQueueService {
	return &PrintQueueService{
		printJobRepo: printJobRepo,
		now:          clockOrNow(now),
	}
}

// ListOpen returns every job that is not printed yet, newest first
func (s *PrintQueueService) ListOpen(ctx context.Context) ([]entity.PrintJob, error) {
	jobs, err := s.printJobRepo.ListOpen(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list print jobs", err)
	}
	return jobs, nil
}

// ListByReceipt returns the jobs of one receipt
func (s *PrintQueueService) ListByReceipt(ctx context.Context, receiptID string) ([]entity.PrintJob, error) {
	jobs, err := s.printJobRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list print jobs", err)
	}
	return jobs, nil
}

// Get returns one job including its fallback text
func (s *PrintQueueService) Get(ctx context.Context, id string) (*entity.PrintJob, error) {
	job, err := s.printJobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read print job", err)
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Print job")
	}
	return job, nil
}

// MarkPrinted moves a job to PRINTED and clears its last error
func (s *PrintQueueService) MarkPrinted(ctx context.Context, id string) (*entity.PrintJob, error) {
	ok, err := s.printJobRepo.MarkPrinted(ctx, id, s.now())
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to update print job", err)
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Print job")
	}
	return s.Get(ctx, id)
}

// MarkFailed records a failed attempt. A job that is already PRINTED stays PRINTED.
func (s *PrintQueueService) MarkFailed(ctx context.Context, id, message string) (*entity.PrintJob, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.printJobRepo.MarkFailed(ctx, job.ID, message); err != nil {
		return nil, apperror.NewPersistenceError("Failed to update print job", err)
	}
	return s.Get(ctx, id)
}
