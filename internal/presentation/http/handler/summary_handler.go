package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// SummaryHandler handles the end-of-event report
type SummaryHandler struct {
	summaryService *service.EventSummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *service.EventSummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Get returns totals by payment type, product and pickup station
func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.summaryService.Summarize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Summary retrieved successfully", summary)
}
