package repository

import (
	"context"
	"errors"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type registerRepository struct {
	db *gorm.DB
}

// NewRegisterRepository creates a new register repository
func NewRegisterRepository(db *gorm.DB) domainRepo.RegisterRepository {
	return &registerRepository{db: db}
}

func (r *registerRepository) GetByID(ctx context.Context, id string) (*entity.Register, error) {
	var register entity.Register
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&register).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &register, nil
}

// GetForUpdate issues SELECT ... FOR UPDATE. SQLite has no row locks; its
// dialect drops the clause and the write transaction serializes instead.
func (r *registerRepository) GetForUpdate(ctx context.Context, id string) (*entity.Register, error) {
	var register entity.Register
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&register).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &register, nil
}

func (r *registerRepository) SaveCounter(ctx context.Context, id, counterDate string, counter int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Register{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"counter_date": counterDate,
			"counter":      counter,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registerRepository) Create(ctx context.Context, register *entity.Register) error {
	return r.db.WithContext(ctx).Create(register).Error
}

func (r *registerRepository) UpdateDetails(ctx context.Context, id, name, prefix string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Register{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":   name,
			"prefix": prefix,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
