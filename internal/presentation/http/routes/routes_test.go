package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/config"
	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database/dbtest"
	"github.com/sangkips/festkasse-api/internal/infrastructure/repository"
	"github.com/sangkips/festkasse-api/internal/presentation/http/handler"
	"github.com/sangkips/festkasse-api/internal/presentation/http/middleware"
	"github.com/sangkips/festkasse-api/internal/presentation/http/routes"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/metrics"
	"github.com/sangkips/festkasse-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubPrinter struct {
	mu  sync.Mutex
	err error
}

func (p *stubPrinter) Print(context.Context, string, []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *stubPrinter) Close() error      { return nil }
func (p *stubPrinter) IsConnected() bool { return true }

func (p *stubPrinter) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type apiEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	printer *stubPrinter
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	log := logger.Nop()
	now := func() time.Time { return time.Date(2026, 7, 4, 19, 0, 0, 0, time.Local) }

	settingsRepo := repository.NewSettingsRepository(db)
	settings := service.NewSettingsService(settingsRepo)
	require.NoError(t, settings.EnsureDefaults(ctx))
	registerID, err := settings.RegisterID(ctx)
	require.NoError(t, err)
	require.NoError(t, database.SeedDefaultData(ctx, db, log, registerID, now()))

	registry := prometheus.NewRegistry()
	posMetrics := metrics.NewPOSMetrics(registry)
	transactor := repository.NewTransactor(db)
	groupRepo := repository.NewPickupGroupRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	sp := &stubPrinter{}
	queue := service.NewPrintQueueService(repository.NewPrintJobRepository(db), now)
	receipts := service.NewReceiptService(transactor, repository.NewReceiptRepository(db), posMetrics, log, now)
	printers := service.NewPrinterService(sp, queue, settings, "network", posMetrics, log, now)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)

	h := &routes.Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(settings, jwtManager)),
		Checkout:    handler.NewCheckoutHandler(service.NewCheckoutService(settings, receipts, printers, log)),
		Receipt:     handler.NewReceiptHandler(receipts, queue),
		PrintJob:    handler.NewPrintJobHandler(queue, printers),
		Printer:     handler.NewPrinterHandler(printers),
		Summary:     handler.NewSummaryHandler(service.NewEventSummaryService(repository.NewSummaryRepository(db), settings)),
		Settings:    handler.NewSettingsHandler(settings, service.NewRegisterService(repository.NewRegisterRepository(db), settings)),
		PickupGroup: handler.NewPickupGroupHandler(service.NewPickupGroupService(groupRepo)),
		Category:    handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Product:     handler.NewProductHandler(service.NewProductService(productRepo, categoryRepo, groupRepo)),
		Admin:       handler.NewAdminHandler(service.NewResetService(transactor, settings, log)),
	}

	limiter := middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
	})
	t.Cleanup(limiter.Stop)

	router := routes.Setup(h, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             &config.Config{App: config.AppConfig{Name: "festkasse-test"}},
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Log:             log,
		Metrics:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimiter:     limiter,
	})

	return &apiEnv{router: router, db: db, printer: sp}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *apiEnv) unlock(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/unlock", "", gin.H{"pin": service.DefaultPIN})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &data)
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type checkoutData struct {
	Receipt struct {
		ID          string `json:"id"`
		ReceiptCode string `json:"receipt_code"`
		TotalCents  int64  `json:"total_cents"`
	} `json:"receipt"`
	Items     []entity.ReceiptItem `json:"items"`
	PrintJobs []entity.PrintJob    `json:"print_jobs"`
	Warnings  []string             `json:"print_warnings"`
}

func cart(choice *bool) gin.H {
	body := gin.H{
		"payment_type": "CASH",
		"items": []gin.H{
			{"product_id": "p-bier", "category_id": "cat_drinks", "product_name": "Bier", "qty": 2, "unit_price_cents": 400},
			{"product_id": "p-wurst", "category_id": "cat_food", "product_name": "Wurst", "qty": 1, "unit_price_cents": 450},
		},
	}
	if choice != nil {
		body["print"] = *choice
	}
	return body
}

func TestHealthIsPublic(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "festkasse-test")
}

func TestUnlock(t *testing.T) {
	env := newAPIEnv(t)

	t.Run("wrong pin", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/unlock", "", gin.H{"pin": "0000"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decode(t, rec).Kind)
	})

	t.Run("missing pin", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/unlock", "", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/receipts", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/receipts", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("default pin unlocks", func(t *testing.T) {
		token := env.unlock(t)
		rec := env.do(t, http.MethodGet, "/api/v1/receipts", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCheckoutIssuesReceipt(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data checkoutData
	decodeData(t, rec, &data)
	assert.Equal(t, "K1-000001", data.Receipt.ReceiptCode)
	assert.Equal(t, int64(1250), data.Receipt.TotalCents)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "Bier", data.Items[0].ProductName)
	// default bon policy is NEVER
	assert.Empty(t, data.PrintJobs)

	rec = env.do(t, http.MethodGet, "/api/v1/receipts/"+data.Receipt.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "K1-000001")

	rec = env.do(t, http.MethodGet, "/api/v1/receipts?page=1&per_page=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items      []entity.Receipt `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decodeData(t, rec, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Pagination.Total)

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pos_receipts_issued_total{payment_type="CASH"} 1`)
}

func TestCheckoutRejectsInvalidLines(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	body := cart(nil)
	body["items"] = []gin.H{{"product_id": "p-bier", "category_id": "cat_drinks", "product_name": "Bier", "qty": 0, "unit_price_cents": 400}}
	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	resp := decode(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Kind)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "items[0].qty", resp.Errors[0].Field)

	var count int64
	require.NoError(t, env.db.Model(&entity.Receipt{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutReplaysIdempotencyKey(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	first := env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil), middleware.IdempotencyKeyHeader, "tap-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil), middleware.IdempotencyKeyHeader, "tap-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.ReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	third := env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil), middleware.IdempotencyKeyHeader, "tap-2")
	require.Equal(t, http.StatusCreated, third.Code)
	var data checkoutData
	decodeData(t, third, &data)
	assert.Equal(t, "K1-000002", data.Receipt.ReceiptCode)

	var count int64
	require.NoError(t, env.db.Model(&entity.Receipt{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPrintFailureFallsBackToSlipText(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodPut, "/api/v1/settings", token, gin.H{"bon_policy": "ALWAYS", "auto_print": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env.printer.failWith(errors.New("paper out"))
	rec = env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data checkoutData
	decodeData(t, rec, &data)
	require.Len(t, data.PrintJobs, 1)
	assert.Len(t, data.Warnings, 1)
	job := data.PrintJobs[0]
	assert.Equal(t, "FAILED", string(job.Status))

	rec = env.do(t, http.MethodPost, "/api/v1/print-jobs/"+job.ID+"/retry", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var retry struct {
		PayloadText string `json:"payload_text"`
		Warning     string `json:"warning"`
	}
	decodeData(t, rec, &retry)
	assert.Equal(t, job.PayloadText, retry.PayloadText)
	assert.Contains(t, retry.Warning, "paper out")

	rec = env.do(t, http.MethodGet, "/api/v1/print-jobs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var open []entity.PrintJob
	decodeData(t, rec, &open)
	assert.Len(t, open, 1)

	rec = env.do(t, http.MethodPost, "/api/v1/print-jobs/"+job.ID+"/printed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/print-jobs", token, nil)
	decodeData(t, rec, &open)
	assert.Empty(t, open)
}

func TestRetryPrintsSuccessfully(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodPut, "/api/v1/settings", token, gin.H{"bon_policy": "OPTIONAL"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	yes := true
	rec = env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(&yes))
	require.Equal(t, http.StatusCreated, rec.Code)
	var data checkoutData
	decodeData(t, rec, &data)
	require.Len(t, data.PrintJobs, 1)
	assert.Equal(t, "PENDING", string(data.PrintJobs[0].Status))

	rec = env.do(t, http.MethodPost, "/api/v1/print-jobs/"+data.PrintJobs[0].ID+"/retry", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"PRINTED"`)
}

func TestUnknownResourcesReturnNotFound(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	for _, path := range []string{"/api/v1/receipts/nope", "/api/v1/print-jobs/nope"} {
		rec := env.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "NOT_FOUND", decode(t, rec).Kind, path)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/print-jobs/nope/retry", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogAndSummaryRoutes(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodPost, "/api/v1/pickup-groups", token, gin.H{"name": "Grill"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var group entity.PickupGroup
	decodeData(t, rec, &group)
	assert.Equal(t, 30, group.SortIndex)

	rec = env.do(t, http.MethodPut, "/api/v1/products", token, gin.H{
		"id": "p-wurst", "name": "Wurst", "price_cents": 450, "category_id": "cat_food", "group_id": group.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/products?category_id=cat_food", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []entity.Product
	decodeData(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, group.ID, *products[0].GroupID)

	rec = env.do(t, http.MethodGet, "/api/v1/categories", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary service.EventSummary
	decodeData(t, rec, &summary)
	assert.Equal(t, int64(1250), summary.TotalCents)
	require.Len(t, summary.ByGroup, 2)
	assert.Equal(t, "Buffet", summary.ByGroup[0].GroupName)
	assert.Equal(t, "Grill", summary.ByGroup[1].GroupName)

	rec = env.do(t, http.MethodDelete, "/api/v1/products/p-wurst", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/products", token, nil)
	decodeData(t, rec, &products)
	assert.Empty(t, products)
}

func TestSettingsRoutes(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodGet, "/api/v1/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings map[string]string
	decodeData(t, rec, &settings)
	assert.NotContains(t, settings, service.SettingLockPIN)
	assert.Equal(t, "NEVER", settings[service.SettingBonPolicy])

	rec = env.do(t, http.MethodPut, "/api/v1/settings", token, gin.H{"bon_policy": "SOMETIMES"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/register", token, gin.H{"name": "Kassa 2", "prefix": "k2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var register entity.Register
	decodeData(t, rec, &register)
	assert.Equal(t, "K2", register.Prefix)

	rec = env.do(t, http.MethodPut, "/api/v1/settings/pin", token, gin.H{
		"current_pin": service.DefaultPIN, "new_pin": "9876", "confirm_pin": "9876",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/auth/unlock", "", gin.H{"pin": service.DefaultPIN})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/auth/unlock", "", gin.H{"pin": "9876"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminReset(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, cart(nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/reset", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, env.db.Model(&entity.Receipt{}).Count(&count).Error)
	assert.Zero(t, count)

	// the token names the same register, so it stays valid
	rec = env.do(t, http.MethodGet, "/api/v1/summary", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrinterRoutes(t *testing.T) {
	env := newAPIEnv(t)
	token := env.unlock(t)

	rec := env.do(t, http.MethodGet, "/api/v1/printer/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status service.PrinterStatus
	decodeData(t, rec, &status)
	assert.True(t, status.Configured)
	assert.Equal(t, service.DefaultPrinterName, status.Device)

	env.printer.failWith(errors.New("offline"))
	rec = env.do(t, http.MethodPost, "/api/v1/printer/test", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "offline")
	assert.Contains(t, rec.Body.String(), "TEST-000000")
}
