package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status, err := h.printerService.GetStatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test slip to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	slip, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		if slip == "" {
			response.Error(c, err)
			return
		}
		// Return the slip anyway (useful when printer type is "none")
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"slip":    slip,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test slip sent to printer", gin.H{
		"slip": slip,
	})
}
