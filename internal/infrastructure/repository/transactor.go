package repository

import (
	"context"

	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor backed by gorm transactions
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(repos domainRepo.TxRepositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}

func newTxRepositories(tx *gorm.DB) domainRepo.TxRepositories {
	return domainRepo.TxRepositories{
		Registers:  NewRegisterRepository(tx),
		Receipts:   NewReceiptRepository(tx),
		PrintJobs:  NewPrintJobRepository(tx),
		Groups:     NewPickupGroupRepository(tx),
		Categories: NewCategoryRepository(tx),
		Products:   NewProductRepository(tx),
		Settings:   NewSettingsRepository(tx),
	}
}
