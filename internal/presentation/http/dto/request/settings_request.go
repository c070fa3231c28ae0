package request

// UpdateSettingsRequest represents a settings update request
type UpdateSettingsRequest struct {
	EventName   *string `json:"event_name"`
	PrinterName *string `json:"printer_name"`
	AutoPrint   *bool   `json:"auto_print"`
	BonPolicy   *string `json:"bon_policy" binding:"omitempty,oneof=NEVER ALWAYS OPTIONAL"`
}

// UpdateRegisterRequest represents a register update request
type UpdateRegisterRequest struct {
	Name   string `json:"name" binding:"required"`
	Prefix string `json:"prefix" binding:"required"`
}
