package service

import (
	"context"
	"net/http"
	"time"

	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/utils"
	"github.com/sangkips/festkasse-api/pkg/validation"
)

// AuthService unlocks terminals with the register PIN
type AuthService struct {
	settings   *SettingsService
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(settings *SettingsService, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		settings:   settings,
		jwtManager: jwtManager,
	}
}

// UnlockOutput represents the unlock output
type UnlockOutput struct {
	AccessToken string    `json:"access_token"`
	TerminalID  string    `json:"terminal_id"`
	RegisterID  string    `json:"register_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Unlock checks the PIN and issues a terminal session token
func (s *AuthService) Unlock(ctx context.Context, pin string) (*UnlockOutput, error) {
	ok, err := s.settings.VerifyPIN(ctx, pin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidPIN
	}

	registerID, err := s.settings.RegisterID(ctx)
	if err != nil {
		return nil, err
	}

	token, claims, err := s.jwtManager.GenerateTerminalToken(registerID)
	if err != nil {
		return nil, apperror.NewAppError(http.StatusInternalServerError, apperror.KindInternal, "Failed to issue token")
	}

	return &UnlockOutput{
		AccessToken: token,
		TerminalID:  claims.TerminalID,
		RegisterID:  registerID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// ChangePINInput represents the change PIN input
type ChangePINInput struct {
	CurrentPIN string `json:"current_pin" validate:"required"`
	NewPIN     string `json:"new_pin" validate:"required,numeric,min=4,max=6"`
}

// ChangePIN replaces the unlock PIN after checking the current one
func (s *AuthService) ChangePIN(ctx context.Context, input *ChangePINInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	ok, err := s.settings.VerifyPIN(ctx, input.CurrentPIN)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrInvalidPIN
	}

	return s.settings.SetPIN(ctx, input.NewPIN)
}
