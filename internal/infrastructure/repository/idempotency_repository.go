package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, terminalID string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND terminal_id = ?", key, terminalID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ikey, nil
}

// Reserve inserts a pending row. The unique (key, terminal_id) index decides
// the race between two identical requests.
func (r *idempotencyRepository) Reserve(ctx context.Context, ikey *entity.IdempotencyKey, now time.Time) (bool, error) {
	ikey.ResponseCode = 0
	ikey.ResponseBody = ""

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ikey)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	result = r.db.WithContext(ctx).
		Model(&entity.IdempotencyKey{}).
		Where("key = ? AND terminal_id = ? AND expires_at < ?", ikey.Key, ikey.TerminalID, now).
		Updates(map[string]interface{}{
			"endpoint":      ikey.Endpoint,
			"response_code": 0,
			"response_body": "",
			"created_at":    ikey.CreatedAt,
			"expires_at":    ikey.ExpiresAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, key, terminalID string, responseCode int, responseBody string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.IdempotencyKey{}).
		Where("key = ? AND terminal_id = ?", key, terminalID).
		Updates(map[string]interface{}{
			"response_code": responseCode,
			"response_body": responseBody,
			"expires_at":    expiresAt,
		}).Error
}

func (r *idempotencyRepository) Release(ctx context.Context, key, terminalID string) error {
	return r.db.WithContext(ctx).
		Where("key = ? AND terminal_id = ? AND response_code = 0", key, terminalID).
		Delete(&entity.IdempotencyKey{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{}).Error
}
