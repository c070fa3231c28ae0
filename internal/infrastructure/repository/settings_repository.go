package repository

import (
	"context"
	"errors"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves a single setting by key
func (r *settingsRepository) Get(ctx context.Context, key string) (*entity.AppSetting, error) {
	var setting entity.AppSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// All returns every stored setting ordered by key
func (r *settingsRepository) All(ctx context.Context) ([]entity.AppSetting, error) {
	var settings []entity.AppSetting
	err := r.db.WithContext(ctx).Order("key").Find(&settings).Error
	return settings, err
}

// Set inserts or overwrites a setting
func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entity.AppSetting{Key: key, Value: value}).Error
}

// SetIfAbsent inserts a setting unless the key already exists
func (r *settingsRepository) SetIfAbsent(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.AppSetting{Key: key, Value: value}).Error
}

// DeleteAllExcept removes every setting whose key is not listed in keep
func (r *settingsRepository) DeleteAllExcept(ctx context.Context, keep ...string) error {
	query := r.db.WithContext(ctx).Where("1 = 1")
	if len(keep) > 0 {
		query = query.Where("key NOT IN ?", keep)
	}
	return query.Delete(&entity.AppSetting{}).Error
}
