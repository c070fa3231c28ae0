package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type printJobRepository struct {
	db *gorm.DB
}

// NewPrintJobRepository creates a new print job repository
func NewPrintJobRepository(db *gorm.DB) domainRepo.PrintJobRepository {
	return &printJobRepository{db: db}
}

func (r *printJobRepository) CreateBatch(ctx context.Context, jobs []entity.PrintJob) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&jobs).Error
}

func (r *printJobRepository) GetByID(ctx context.Context, id string) (*entity.PrintJob, error) {
	var job entity.PrintJob
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *printJobRepository) ListOpen(ctx context.Context) ([]entity.PrintJob, error) {
	var jobs []entity.PrintJob
	err := r.db.WithContext(ctx).
		Where("status <> ?", enum.PrintJobStatusPrinted).
		Order("created_at DESC").
		Order("id DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *printJobRepository) ListByReceipt(ctx context.Context, receiptID string) ([]entity.PrintJob, error) {
	var jobs []entity.PrintJob
	err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("id").
		Find(&jobs).Error
	return jobs, err
}

func (r *printJobRepository) MarkPrinted(ctx context.Context, id string, printedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.PrintJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     enum.PrintJobStatusPrinted,
			"printed_at": printedAt,
			"last_error": nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *printJobRepository) MarkFailed(ctx context.Context, id, message string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.PrintJob{}).
		Where("id = ? AND status <> ?", id, enum.PrintJobStatusPrinted).
		Updates(map[string]interface{}{
			"status":     enum.PrintJobStatusFailed,
			"last_error": message,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *printJobRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&entity.PrintJob{}).Error
}
