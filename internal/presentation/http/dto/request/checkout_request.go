package request

import (
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/domain/enum"
)

// CheckoutItemRequest is one cart line. Line values are checked by the receipt service.
type CheckoutItemRequest struct {
	ProductID      string `json:"product_id"`
	CategoryID     string `json:"category_id"`
	ProductName    string `json:"product_name"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// CheckoutRequest represents a paid cart
type CheckoutRequest struct {
	PaymentType string                `json:"payment_type" binding:"required"`
	Items       []CheckoutItemRequest `json:"items"`
	// Print is the operator's bon choice, only read under the OPTIONAL policy
	Print *bool `json:"print"`
}

// ToInput converts the request into the checkout service input
func (r *CheckoutRequest) ToInput() *service.CheckoutInput {
	items := make([]service.ReceiptItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.ReceiptItemInput{
			ProductID:      item.ProductID,
			CategoryID:     item.CategoryID,
			ProductName:    item.ProductName,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
		}
	}
	return &service.CheckoutInput{
		PaymentType: enum.PaymentType(r.PaymentType),
		Items:       items,
		PrintChoice: r.Print,
	}
}
