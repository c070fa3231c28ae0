package service

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"go.uber.org/multierr"
)

// CheckoutService turns a paid cart into a receipt, applying the bon policy
// and auto-print settings.
type CheckoutService struct {
	settings *SettingsService
	receipts *ReceiptService
	printer  *PrinterService
	log      *logger.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	settings *SettingsService,
	receipts *ReceiptService,
	printerService *PrinterService,
	log *logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		settings: settings,
		receipts: receipts,
		printer:  printerService,
		log:      log,
	}
}

// CheckoutInput represents a paid cart. PrintChoice is the operator's answer
// when the bon policy is OPTIONAL and is ignored otherwise.
type CheckoutInput struct {
	PaymentType enum.PaymentType
	Items       []ReceiptItemInput
	PrintChoice *bool
}

// CheckoutResult is the issued receipt plus any auto-print problems. Print
// problems never undo the sale.
type CheckoutResult struct {
	*IssuedReceipt
	PrintWarnings []string `json:"print_warnings,omitempty"`
}

// PrintRequired applies a bon policy to the operator's choice
func PrintRequired(policy enum.BonPolicy, choice *bool) (bool, error) {
	switch policy {
	case enum.BonPolicyAlways:
		return true, nil
	case enum.BonPolicyOptional:
		if choice == nil {
			return false, apperror.NewInvalidInputError("A bon decision is required")
		}
		return *choice, nil
	default:
		return false, nil
	}
}

// Checkout issues the receipt and, when auto-print is on, prints its slips
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	policy, err := s.settings.BonPolicy(ctx)
	if err != nil {
		return nil, err
	}
	printRequired, err := PrintRequired(policy, input.PrintChoice)
	if err != nil {
		return nil, err
	}

	registerID, err := s.settings.RegisterID(ctx)
	if err != nil {
		return nil, err
	}
	eventName, err := s.settings.EventName(ctx)
	if err != nil {
		return nil, err
	}
	autoPrint, err := s.settings.AutoPrint(ctx)
	if err != nil {
		return nil, err
	}

	issued, err := s.receipts.Issue(ctx, RegisterContext{
		RegisterID: registerID,
		EventName:  eventName,
	}, &IssueReceiptInput{
		PaymentType:   input.PaymentType,
		Items:         input.Items,
		PrintRequired: printRequired,
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{IssuedReceipt: issued}
	if !printRequired || !autoPrint || len(issued.PrintJobs) == 0 {
		return result, nil
	}

	jobs, printErr := s.printer.PrintAll(ctx, issued.PrintJobs)
	issued.PrintJobs = jobs
	for _, err := range multierr.Errors(printErr) {
		result.PrintWarnings = append(result.PrintWarnings, err.Error())
	}
	if printErr != nil {
		s.log.Warnf(ctx, "auto-print for %s left %d slip(s) unprinted",
			issued.Receipt.ReceiptCode, len(result.PrintWarnings))
	}

	return result, nil
}
