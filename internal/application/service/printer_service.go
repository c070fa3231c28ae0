package service

import (
	"context"
	"fmt"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/sangkips/festkasse-api/pkg/metrics"
	"github.com/sangkips/festkasse-api/pkg/printer"
	"go.uber.org/multierr"
)

// PrinterService sends pickup slips to the thermal printer and records the outcome.
type PrinterService struct {
	printer     printer.Printer
	queue       *PrintQueueService
	settings    *SettingsService
	printerType string
	metrics     *metrics.POSMetrics
	log         *logger.Logger
	now         Clock
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	queue *PrintQueueService,
	settings *SettingsService,
	printerType string,
	posMetrics *metrics.POSMetrics,
	log *logger.Logger,
	now Clock,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		queue:       queue,
		settings:    settings,
		printerType: printerType,
		metrics:     posMetrics,
		log:         log,
		now:         clockOrNow(now),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Device     string `json:"device"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) (*PrinterStatus, error) {
	device, err := s.settings.PrinterName(ctx)
	if err != nil {
		return nil, err
	}
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		Device:     device,
	}, nil
}

// RetryPrint prints a job's stored payload again. On failure the job is marked
// FAILED with the printer's message and a print failure is returned together
// with the updated job.
func (s *PrinterService) RetryPrint(ctx context.Context, jobID string) (*entity.PrintJob, error) {
	job, err := s.queue.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	device, err := s.settings.PrinterName(ctx)
	if err != nil {
		return nil, err
	}

	printErr := s.printer.Print(ctx, device, printer.EncodePayload(job.PayloadText))
	s.metrics.PrintAttempt(printErr == nil)
	if printErr != nil {
		s.log.Warnf(ctx, "printing %s for %s failed: %v", job.ReceiptCode, job.GroupName, printErr)
		updated, err := s.queue.MarkFailed(ctx, job.ID, printErr.Error())
		if err != nil {
			return nil, err
		}
		return updated, apperror.NewPrintError(printErr)
	}

	return s.queue.MarkPrinted(ctx, job.ID)
}

// PrintAll prints every job in order and keeps going after failures. It returns
// the updated jobs and the combined print failures, if any.
func (s *PrinterService) PrintAll(ctx context.Context, jobs []entity.PrintJob) ([]entity.PrintJob, error) {
	updated := make([]entity.PrintJob, 0, len(jobs))
	var errs error

	for _, job := range jobs {
		result, err := s.RetryPrint(ctx, job.ID)
		if result != nil {
			updated = append(updated, *result)
		} else {
			updated = append(updated, job)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s (%s): %w", job.ReceiptCode, job.GroupName, err))
		}
	}

	return updated, errs
}

// TestPrint sends a sample slip to the printer.
// The slip text is returned so the handler can show it when the printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (string, error) {
	eventName, err := s.settings.EventName(ctx)
	if err != nil {
		return "", err
	}
	device, err := s.settings.PrinterName(ctx)
	if err != nil {
		return "", err
	}

	text := RenderPayload(Slip{
		EventName:   eventName,
		GroupName:   "Drucker-Test",
		ReceiptCode: "TEST-000000",
		When:        s.now(),
		Lines: []SlipLine{
			{Qty: 1, Name: "Testartikel", LineTotalCents: 100},
			{Qty: 2, Name: "Testartikel 2", LineTotalCents: 500},
		},
		SumCents:    600,
		PaymentType: enum.PaymentTypeCash,
	})

	err = s.printer.Print(ctx, device, printer.EncodePayload(text))
	s.metrics.PrintAttempt(err == nil)
	if err != nil {
		return text, apperror.NewPrintError(err)
	}

	return text, nil
}
