package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/festkasse-api/pkg/pagination"
)

// ReceiptHandler handles receipt lookups
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	printQueue     *service.PrintQueueService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, printQueue *service.PrintQueueService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		printQueue:     printQueue,
	}
}

// List handles listing receipts, newest first
func (h *ReceiptHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	receipts, page, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Receipts retrieved successfully",
		pagination.NewPaginatedResult(receipts, page))
}

// Get handles getting a receipt with its items and print jobs
func (h *ReceiptHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	receipt, err := h.receiptService.GetReceipt(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	jobs, err := h.printQueue.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", gin.H{
		"receipt":    receipt,
		"print_jobs": jobs,
	})
}
