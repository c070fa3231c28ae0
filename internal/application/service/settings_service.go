package service

import (
	"context"
	"strings"

	"github.com/sangkips/festkasse-api/internal/domain/enum"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/utils"
	"github.com/sangkips/festkasse-api/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

// Setting keys
const (
	SettingRegisterID  = "register_id"
	SettingLockPIN     = "lock_pin"
	SettingBonPolicy   = "bon_policy"
	SettingEventName   = "event_name"
	SettingPrinterName = "printer_name"
	SettingAutoPrint   = "auto_print"
)

// Seed values for a fresh installation
const (
	DefaultPIN         = "1234"
	DefaultEventName   = "Stadtmeisterschaft Laakirchen"
	DefaultPrinterName = "POS-80C"
)

// SettingsService reads and writes the key/value settings store. Missing keys
// are seeded lazily with their defaults.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	pinCost      int
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		pinCost:      bcrypt.DefaultCost,
	}
}

func (s *SettingsService) defaultValue(key string) (string, bool, error) {
	switch key {
	case SettingRegisterID:
		return utils.NewID(), true, nil
	case SettingLockPIN:
		hash, err := s.hashPIN(DefaultPIN)
		return hash, true, err
	case SettingBonPolicy:
		return string(enum.BonPolicyNever), true, nil
	case SettingEventName:
		return DefaultEventName, true, nil
	case SettingPrinterName:
		return DefaultPrinterName, true, nil
	case SettingAutoPrint:
		return "false", true, nil
	}
	return "", false, nil
}

func (s *SettingsService) hashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.pinCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// EnsureDefaults stores every default that is not set yet
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	for _, key := range []string{
		SettingRegisterID, SettingLockPIN, SettingBonPolicy,
		SettingEventName, SettingPrinterName, SettingAutoPrint,
	} {
		if _, err := s.Get(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value of key. Unknown keys without a default read as "".
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return "", apperror.NewPersistenceError("Failed to read setting", err)
	}
	if setting != nil {
		return setting.Value, nil
	}

	value, ok, err := s.defaultValue(key)
	if err != nil {
		return "", apperror.NewPersistenceError("Failed to prepare default setting", err)
	}
	if !ok {
		return "", nil
	}
	if err := s.settingsRepo.SetIfAbsent(ctx, key, value); err != nil {
		return "", apperror.NewPersistenceError("Failed to store default setting", err)
	}

	// another caller may have seeded the key first
	setting, err = s.settingsRepo.Get(ctx, key)
	if err != nil {
		return "", apperror.NewPersistenceError("Failed to read setting", err)
	}
	if setting == nil {
		return value, nil
	}
	return setting.Value, nil
}

// RegisterID returns the id of the register this installation issues receipts on
func (s *SettingsService) RegisterID(ctx context.Context) (string, error) {
	return s.Get(ctx, SettingRegisterID)
}

// BonPolicy returns the configured bon policy. Unknown values read as NEVER.
func (s *SettingsService) BonPolicy(ctx context.Context) (enum.BonPolicy, error) {
	value, err := s.Get(ctx, SettingBonPolicy)
	if err != nil {
		return enum.BonPolicyNever, err
	}
	return enum.ParseBonPolicy(value), nil
}

// EventName returns the event name printed on every slip
func (s *SettingsService) EventName(ctx context.Context) (string, error) {
	return s.Get(ctx, SettingEventName)
}

// PrinterName returns the device name handed to the printer
func (s *SettingsService) PrinterName(ctx context.Context) (string, error) {
	return s.Get(ctx, SettingPrinterName)
}

// AutoPrint reports whether slips are printed right after checkout
func (s *SettingsService) AutoPrint(ctx context.Context) (bool, error) {
	value, err := s.Get(ctx, SettingAutoPrint)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// VerifyPIN compares pin against the stored hash
func (s *SettingsService) VerifyPIN(ctx context.Context, pin string) (bool, error) {
	hash, err := s.Get(ctx, SettingLockPIN)
	if err != nil {
		return false, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	if err != nil {
		return false, nil
	}
	return true, nil
}

// SetPIN stores a new unlock PIN as a bcrypt hash
func (s *SettingsService) SetPIN(ctx context.Context, pin string) error {
	hash, err := s.hashPIN(pin)
	if err != nil {
		return apperror.NewPersistenceError("Failed to hash PIN", err)
	}
	if err := s.settingsRepo.Set(ctx, SettingLockPIN, hash); err != nil {
		return apperror.NewPersistenceError("Failed to store PIN", err)
	}
	return nil
}

// All returns every setting except the PIN hash
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	if err := s.EnsureDefaults(ctx); err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.All(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read settings", err)
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		if setting.Key == SettingLockPIN {
			continue
		}
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// UpdateSettingsInput holds the settings an operator may change. Nil fields stay as they are.
type UpdateSettingsInput struct {
	EventName   *string `json:"event_name" validate:"omitempty,notblank,max=64"`
	PrinterName *string `json:"printer_name" validate:"omitempty,notblank,max=128"`
	AutoPrint   *bool   `json:"auto_print"`
	BonPolicy   *string `json:"bon_policy" validate:"omitempty,oneof=NEVER ALWAYS OPTIONAL"`
}

// Update validates and stores the given settings, then returns the full set
func (s *SettingsService) Update(ctx context.Context, input *UpdateSettingsInput) (map[string]string, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	updates := make(map[string]string)
	if input.EventName != nil {
		updates[SettingEventName] = strings.TrimSpace(*input.EventName)
	}
	if input.PrinterName != nil {
		updates[SettingPrinterName] = strings.TrimSpace(*input.PrinterName)
	}
	if input.AutoPrint != nil {
		updates[SettingAutoPrint] = "false"
		if *input.AutoPrint {
			updates[SettingAutoPrint] = "true"
		}
	}
	if input.BonPolicy != nil {
		updates[SettingBonPolicy] = *input.BonPolicy
	}

	for key, value := range updates {
		if err := s.settingsRepo.Set(ctx, key, value); err != nil {
			return nil, apperror.NewPersistenceError("Failed to store setting", err)
		}
	}

	return s.All(ctx)
}
