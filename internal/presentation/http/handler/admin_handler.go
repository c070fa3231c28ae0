package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// AdminHandler handles maintenance requests
type AdminHandler struct {
	resetService *service.ResetService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(resetService *service.ResetService) *AdminHandler {
	return &AdminHandler{resetService: resetService}
}

// Reset wipes sales, slips and products and restores default settings
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.resetService.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Event data reset", nil)
}
