package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/validation"
	"gorm.io/gorm"
)

// RegisterService reads and renames the register of this installation
type RegisterService struct {
	registerRepo repository.RegisterRepository
	settings     *SettingsService
}

// NewRegisterService creates a new register service
func NewRegisterService(registerRepo repository.RegisterRepository, settings *SettingsService) *RegisterService {
	return &RegisterService{
		registerRepo: registerRepo,
		settings:     settings,
	}
}

// GetRegister returns the configured register
func (s *RegisterService) GetRegister(ctx context.Context) (*entity.Register, error) {
	registerID, err := s.settings.RegisterID(ctx)
	if err != nil {
		return nil, err
	}
	register, err := s.registerRepo.GetByID(ctx, registerID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read register", err)
	}
	if register == nil {
		return nil, apperror.NewNotFoundError("Register")
	}
	return register, nil
}

// UpdateRegisterInput represents the update register input
type UpdateRegisterInput struct {
	Name   string `json:"name" validate:"notblank,max=64"`
	Prefix string `json:"prefix" validate:"notblank,max=8"`
}

// UpdateRegister changes name and prefix. The prefix is stored upper-case and
// only affects receipts issued afterwards.
func (s *RegisterService) UpdateRegister(ctx context.Context, input *UpdateRegisterInput) (*entity.Register, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	registerID, err := s.settings.RegisterID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	prefix := strings.ToUpper(strings.TrimSpace(input.Prefix))
	if err := s.registerRepo.UpdateDetails(ctx, registerID, name, prefix); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Register")
		}
		return nil, apperror.NewPersistenceError("Failed to update register", err)
	}

	return s.GetRegister(ctx)
}
