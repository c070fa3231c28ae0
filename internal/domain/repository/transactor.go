package repository

import "context"

// TxRepositories are repositories bound to one database transaction
type TxRepositories struct {
	Registers  RegisterRepository
	Receipts   ReceiptRepository
	PrintJobs  PrintJobRepository
	Groups     PickupGroupRepository
	Categories CategoryRepository
	Products   ProductRepository
	Settings   SettingsRepository
}

// Transactor runs fn inside a single transaction. Any error returned by fn rolls
// back every write made through repos.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos TxRepositories) error) error
}
