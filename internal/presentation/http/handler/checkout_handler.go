package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles cart checkout
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout issues a receipt for a paid cart
// @Summary Checkout
// @Description Issue a receipt and queue its pickup slips
// @Tags checkout
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first answer for a repeated request"
// @Param request body request.CheckoutRequest true "Cart"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Receipt " + result.Receipt.ReceiptCode + " issued"
	if len(result.PrintWarnings) > 0 {
		message += " but printing failed"
	}
	response.Created(c, message, result)
}
