package service

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/logger"
)

// ResetService wipes the sales data of an event
type ResetService struct {
	transactor repository.Transactor
	settings   *SettingsService
	log        *logger.Logger
}

// NewResetService creates a new reset service
func NewResetService(transactor repository.Transactor, settings *SettingsService, log *logger.Logger) *ResetService {
	return &ResetService{
		transactor: transactor,
		settings:   settings,
		log:        log,
	}
}

// Reset deletes print jobs, receipts with their items, products and every
// setting except the register id, then restores the default settings. Pickup
// stations, categories and the register counter are kept.
func (s *ResetService) Reset(ctx context.Context) error {
	err := s.transactor.WithinTransaction(ctx, func(repos repository.TxRepositories) error {
		if err := repos.PrintJobs.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repos.Receipts.DeleteAll(ctx); err != nil {
			return err
		}
		if err := repos.Products.DeleteAll(ctx); err != nil {
			return err
		}
		return repos.Settings.DeleteAllExcept(ctx, SettingRegisterID)
	})
	if err != nil {
		s.log.Error(ctx, "reset failed", err)
		return apperror.NewPersistenceError("Failed to reset data", err)
	}

	if err := s.settings.EnsureDefaults(ctx); err != nil {
		return err
	}

	s.log.Warn(ctx, "all sales data has been reset")
	return nil
}
