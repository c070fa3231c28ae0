package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// AuthHandler handles terminal unlock and PIN requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Unlock handles a terminal unlock
// @Summary Unlock terminal
// @Description Check the register PIN and return a terminal token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.UnlockRequest true "PIN"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/unlock [post]
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req request.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Unlock(c.Request.Context(), req.PIN)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Terminal unlocked", gin.H{
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"terminal_id":  output.TerminalID,
		"register_id":  output.RegisterID,
		"expires_at":   output.ExpiresAt,
	})
}

// ChangePIN handles a PIN change
func (h *AuthHandler) ChangePIN(c *gin.Context) {
	var req request.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	err := h.authService.ChangePIN(c.Request.Context(), &service.ChangePINInput{
		CurrentPIN: req.CurrentPIN,
		NewPIN:     req.NewPIN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "PIN changed", nil)
}
