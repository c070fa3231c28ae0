package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database/dbtest"
	"github.com/sangkips/festkasse-api/internal/infrastructure/repository"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/metrics"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type printCall struct {
	device string
	data   []byte
}

type fakePrinter struct {
	mu    sync.Mutex
	err   error
	calls []printCall
}

func (p *fakePrinter) Print(_ context.Context, device string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, printCall{device: device, data: data})
	return p.err
}

func (p *fakePrinter) Close() error      { return nil }
func (p *fakePrinter) IsConnected() bool { return p.err == nil }

func (p *fakePrinter) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakePrinter) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	db         *gorm.DB
	clock      *testClock
	printer    *fakePrinter
	registerID string

	settings  *service.SettingsService
	receipts  *service.ReceiptService
	queue     *service.PrintQueueService
	printers  *service.PrinterService
	checkout  *service.CheckoutService
	summary   *service.EventSummaryService
	groups    *service.PickupGroupService
	products  *service.ProductService
	registers *service.RegisterService
	reset     *service.ResetService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithTransactor(t, nil)
}

// newTestEnvWithTransactor lets a test wrap the real transactor, e.g. to inject failures.
func newTestEnvWithTransactor(t *testing.T, wrap func(domainRepo.Transactor) domainRepo.Transactor) *testEnv {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	log := logger.Nop()
	clock := &testClock{now: time.Date(2026, 7, 4, 18, 30, 0, 0, time.Local)}
	fp := &fakePrinter{}

	settings := service.NewSettingsService(repository.NewSettingsRepository(db))
	require.NoError(t, settings.EnsureDefaults(ctx))
	registerID, err := settings.RegisterID(ctx)
	require.NoError(t, err)
	require.NoError(t, database.SeedDefaultData(ctx, db, log, registerID, clock.Now()))

	transactor := repository.NewTransactor(db)
	if wrap != nil {
		transactor = wrap(transactor)
	}

	posMetrics := metrics.NewPOSMetrics(nil)
	queue := service.NewPrintQueueService(repository.NewPrintJobRepository(db), clock.Now)
	receipts := service.NewReceiptService(transactor, repository.NewReceiptRepository(db), posMetrics, log, clock.Now)
	printers := service.NewPrinterService(fp, queue, settings, "network", posMetrics, log, clock.Now)

	return &testEnv{
		db:         db,
		clock:      clock,
		printer:    fp,
		registerID: registerID,
		settings:   settings,
		receipts:   receipts,
		queue:      queue,
		printers:   printers,
		checkout:   service.NewCheckoutService(settings, receipts, printers, log),
		summary:    service.NewEventSummaryService(repository.NewSummaryRepository(db), settings),
		groups:     service.NewPickupGroupService(repository.NewPickupGroupRepository(db)),
		products: service.NewProductService(
			repository.NewProductRepository(db),
			repository.NewCategoryRepository(db),
			repository.NewPickupGroupRepository(db),
		),
		registers: service.NewRegisterService(repository.NewRegisterRepository(db), settings),
		reset:     service.NewResetService(transactor, settings, log),
	}
}

func (e *testEnv) registerContext() service.RegisterContext {
	return service.RegisterContext{RegisterID: e.registerID, EventName: "Sommerfest"}
}

func (e *testEnv) addProduct(t *testing.T, id, name string, price int64, categoryID string, groupID *string) {
	t.Helper()
	_, err := e.products.UpsertProduct(context.Background(), &service.UpsertProductInput{
		ID: id, Name: name, PriceCents: price, CategoryID: categoryID, GroupID: groupID,
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func item(productID, categoryID, name string, qty int, price int64) service.ReceiptItemInput {
	return service.ReceiptItemInput{
		ProductID:      productID,
		CategoryID:     categoryID,
		ProductName:    name,
		Qty:            qty,
		UnitPriceCents: price,
	}
}

var errInjected = errors.New("injected failure")

// failingTransactor hands out repositories whose print job writes fail.
type failingTransactor struct {
	inner domainRepo.Transactor
}

func (f failingTransactor) WithinTransaction(ctx context.Context, fn func(repos domainRepo.TxRepositories) error) error {
	return f.inner.WithinTransaction(ctx, func(repos domainRepo.TxRepositories) error {
		repos.PrintJobs = failingPrintJobs{PrintJobRepository: repos.PrintJobs}
		return fn(repos)
	})
}

type failingPrintJobs struct {
	domainRepo.PrintJobRepository
}

func (failingPrintJobs) CreateBatch(context.Context, []entity.PrintJob) error {
	return errInjected
}
