package request

// ProductFilterRequest represents product list query parameters
type ProductFilterRequest struct {
	CategoryID string `form:"category_id"`
}

// UpsertProductRequest represents a product create-or-replace request
type UpsertProductRequest struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" binding:"required"`
	PriceCents int64   `json:"price_cents" binding:"min=0"`
	CategoryID string  `json:"category_id" binding:"required"`
	Active     *bool   `json:"active"`
	SortIndex  *int    `json:"sort_index"`
	GroupID    *string `json:"group_id"`
}

// SetProductGroupRequest assigns a product to a pickup station. A null group
// falls back to the category default.
type SetProductGroupRequest struct {
	GroupID *string `json:"group_id"`
}

// PickupGroupRequest represents a pickup group create or rename request
type PickupGroupRequest struct {
	Name string `json:"name" binding:"required"`
}
