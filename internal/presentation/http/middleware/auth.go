package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/utils"
)

// AuthMiddleware requires a terminal token issued by a PIN unlock
func AuthMiddleware(jwtManager *utils.JWTManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateTerminalToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("terminal_id", claims.TerminalID)
		c.Set("register_id", claims.RegisterID)
		c.Request = c.Request.WithContext(log.WithTerminalID(c.Request.Context(), claims.TerminalID))

		c.Next()
	}
}
