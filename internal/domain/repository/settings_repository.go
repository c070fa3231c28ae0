package repository

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
)

// SettingsRepository defines the interface for key/value settings access
type SettingsRepository interface {
	// Get returns nil, nil when the key is absent
	Get(ctx context.Context, key string) (*entity.AppSetting, error)
	All(ctx context.Context) ([]entity.AppSetting, error)
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent inserts the value unless the key already exists
	SetIfAbsent(ctx context.Context, key, value string) error
	// DeleteAllExcept removes every setting whose key is not listed in keep
	DeleteAllExcept(ctx context.Context, keep ...string) error
}
