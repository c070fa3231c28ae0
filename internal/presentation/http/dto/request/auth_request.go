package request

// UnlockRequest represents a terminal unlock request
type UnlockRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// ChangePINRequest represents a PIN change request
type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required"`
	ConfirmPIN string `json:"confirm_pin" binding:"required,eqfield=NewPIN"`
}
