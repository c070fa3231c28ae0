package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/festkasse-api/pkg/apperror"
)

// PrintJobHandler handles the pickup slip queue
type PrintJobHandler struct {
	printQueue     *service.PrintQueueService
	printerService *service.PrinterService
}

// NewPrintJobHandler creates a new print job handler
func NewPrintJobHandler(printQueue *service.PrintQueueService, printerService *service.PrinterService) *PrintJobHandler {
	return &PrintJobHandler{
		printQueue:     printQueue,
		printerService: printerService,
	}
}

// ListOpen returns every job that has not been printed yet, newest first
func (h *PrintJobHandler) ListOpen(c *gin.Context) {
	jobs, err := h.printQueue.ListOpen(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Open print jobs retrieved", jobs)
}

// Get returns one job including its fallback slip text
func (h *PrintJobHandler) Get(c *gin.Context) {
	job, err := h.printQueue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Print job retrieved", job)
}

// Retry sends a job to the printer again.
func (h *PrintJobHandler) Retry(c *gin.Context) {
	job, err := h.printerService.RetryPrint(c.Request.Context(), c.Param("id"))
	if err != nil {
		// The job is recorded as failed; hand out the slip text so the operator can fall back
		if job != nil && apperror.IsKind(err, apperror.KindPrintFailure) {
			response.OK(c, "Printing failed, use the fallback slip", gin.H{
				"print_job":    job,
				"payload_text": job.PayloadText,
				"warning":      err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Slip printed", gin.H{
		"print_job": job,
	})
}

// MarkPrinted records that the operator handed over the slip manually
func (h *PrintJobHandler) MarkPrinted(c *gin.Context) {
	job, err := h.printQueue.MarkPrinted(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Print job marked as printed", job)
}
