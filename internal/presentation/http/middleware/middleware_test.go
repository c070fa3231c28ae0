package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key, terminalID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[terminalID+"/"+key], nil
}

func (r *memoryIdempotencyRepo) Reserve(_ context.Context, ikey *entity.IdempotencyKey, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ikey.TerminalID + "/" + ikey.Key
	if existing, ok := r.keys[id]; ok && !existing.IsExpired(now) {
		return false, nil
	}
	stored := *ikey
	stored.ResponseCode = 0
	stored.ResponseBody = ""
	r.keys[id] = &stored
	return true, nil
}

func (r *memoryIdempotencyRepo) Complete(_ context.Context, key, terminalID string, code int, body string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.keys[terminalID+"/"+key]; ok {
		stored.ResponseCode = code
		stored.ResponseBody = body
		stored.ExpiresAt = expiresAt
	}
	return nil
}

func (r *memoryIdempotencyRepo) Release(_ context.Context, key, terminalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.keys[terminalID+"/"+key]; ok && stored.IsPending() {
		delete(r.keys, terminalID+"/"+key)
	}
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(_ context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.keys {
		if v.IsExpired(now) {
			delete(r.keys, k)
		}
	}
	return nil
}

func withTerminal(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("terminal_id", id)
		c.Next()
	}
}

func TestIdempotencyReplaysSuccessfulResponses(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	now := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)
	calls := 0

	router := gin.New()
	router.POST("/checkout", withTerminal("term-1"), Idempotency(IdempotencyConfig{
		Repo: repo,
		Now:  func() time.Time { return now },
	}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set(IdempotencyKeyHeader, key)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send("k1")
	second := send("k1")
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(ReplayedHeader))

	stored := repo.keys["term-1/k1"]
	require.NotNil(t, stored)
	assert.Equal(t, "POST /checkout", stored.Endpoint)
	assert.Equal(t, now.Add(IdempotencyKeyTTL), stored.ExpiresAt)

	// expired keys run the handler again
	now = now.Add(IdempotencyKeyTTL + time.Minute)
	third := send("k1")
	assert.Equal(t, 2, calls)
	assert.Empty(t, third.Header().Get(ReplayedHeader))
}

func TestIdempotencySkipsFailedResponses(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0

	router := gin.New()
	router.POST("/checkout", withTerminal("term-1"), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set(IdempotencyKeyHeader, "k1")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, repo.keys)
}

func TestIdempotencyRejectsDuplicateWhileInFlight(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	entered := make(chan struct{})
	finish := make(chan struct{})
	var calls int32

	router := gin.New()
	router.POST("/checkout", withTerminal("term-1"), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-finish
		}
		c.JSON(http.StatusCreated, gin.H{"receipt": "K1-000001"})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set(IdempotencyKeyHeader, "tap")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- send() }()
	<-entered

	second := send()
	assert.Equal(t, http.StatusConflict, second.Code)

	close(finish)
	first := <-done
	assert.Equal(t, http.StatusCreated, first.Code)

	third := send()
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, "true", third.Header().Get(ReplayedHeader))
	assert.Equal(t, first.Body.String(), third.Body.String())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestIdempotencyStaleReservationIsTakenOver(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	now := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)
	reserved, err := repo.Reserve(context.Background(), &entity.IdempotencyKey{
		Key: "k1", TerminalID: "term-1", ExpiresAt: now.Add(IdempotencyPendingTTL),
	}, now)
	require.NoError(t, err)
	require.True(t, reserved)

	calls := 0
	router := gin.New()
	router.POST("/checkout", withTerminal("term-1"), Idempotency(IdempotencyConfig{
		Repo: repo,
		Now:  func() time.Time { return now },
	}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set(IdempotencyKeyHeader, "k1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusConflict, send())
	now = now.Add(IdempotencyPendingTTL + time.Second)
	assert.Equal(t, http.StatusCreated, send())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyKeysArePerTerminal(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	handler := func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	}

	router := gin.New()
	router.POST("/a", withTerminal("term-a"), Idempotency(IdempotencyConfig{Repo: repo}), handler)
	router.POST("/b", withTerminal("term-b"), Idempotency(IdempotencyConfig{Repo: repo}), handler)

	for _, path := range []string{"/a", "/b"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyKeyHeader, "same")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls)
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewTerminalRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.GET("/a", withTerminal("term-a"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/b", withTerminal("term-b"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/b", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, rl.Stats()["active_keys"])
}

func TestRateLimiterCleanupDropsIdleEntries(t *testing.T) {
	rl := NewTerminalRateLimiter(RateLimiterConfig{EntryTTL: time.Minute})
	t.Cleanup(rl.Stop)
	now := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("term-a")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("term-b")
	rl.cleanup()

	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "term-b")
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	token, claims, err := jwtManager.GenerateTerminalToken("reg-1")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(jwtManager, logger.Nop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"terminal_id": c.GetString("terminal_id"),
			"register_id": c.GetString("register_id"),
		})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, rec.Body.String(), claims.TerminalID)
				assert.Contains(t, rec.Body.String(), "reg-1")
			}
		})
	}
}

func TestLoggerMiddlewareKeepsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware(logger.Nop()))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}
