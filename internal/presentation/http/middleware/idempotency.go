package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/festkasse-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the idempotency store
	ReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long an unfinished request holds its key
	IdempotencyPendingTTL = time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo       repository.IdempotencyRepository
	Log        *logger.Logger
	TTL        time.Duration
	PendingTTL time.Duration // lease of a reservation whose request never finished
	Now        func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored answer when a terminal repeats a request with
// the same Idempotency-Key. The key is reserved before the handler runs, so a
// second tap that arrives while the first is still in flight gets 409 instead of
// a second receipt. Only successful responses are kept; otherwise the
// reservation is released and the request can be retried with the same key.
// Must run after AuthMiddleware.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.TTL <= 0 {
		config.TTL = IdempotencyKeyTTL
	}
	if config.PendingTTL <= 0 {
		config.PendingTTL = IdempotencyPendingTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Log == nil {
		config.Log = logger.Nop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		terminalID := c.GetString("terminal_id")
		if terminalID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		now := config.Now()
		reserved, err := config.Repo.Reserve(ctx, &entity.IdempotencyKey{
			Key:        idempotencyKey,
			TerminalID: terminalID,
			Endpoint:   c.Request.Method + " " + c.FullPath(),
			CreatedAt:  now,
			ExpiresAt:  now.Add(config.PendingTTL),
		}, now)
		if err != nil {
			config.Log.Warnf(ctx, "idempotency reservation failed: %v", err)
			c.Next()
			return
		}

		if !reserved {
			existing, err := config.Repo.GetByKey(ctx, idempotencyKey, terminalID)
			if err != nil {
				config.Log.Warnf(ctx, "idempotency lookup failed: %v", err)
			}
			if existing != nil && !existing.IsPending() {
				c.Header(ReplayedHeader, "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
			response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// the client may have gone away; the outcome must still be recorded
		storeCtx := context.WithoutCancel(ctx)
		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := config.Repo.Release(storeCtx, idempotencyKey, terminalID); err != nil {
				config.Log.Warnf(ctx, "releasing idempotency key failed: %v", err)
			}
			return
		}

		expiresAt := config.Now().Add(config.TTL)
		if err := config.Repo.Complete(storeCtx, idempotencyKey, terminalID, status, blw.body.String(), expiresAt); err != nil {
			config.Log.Warnf(ctx, "storing idempotency key failed: %v", err)
		}
	}
}
