package service

import (
	"context"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
)

// CounterAllocator hands out per-day receipt numbers. It must run inside the
// issuing transaction so that a rollback also returns the number.
type CounterAllocator struct{}

// Allocate locks the register, restarts the counter when the calendar day of
// now differs from the stored day, and persists the next number.
func (CounterAllocator) Allocate(ctx context.Context, registers repository.RegisterRepository, registerID string, now time.Time) (*entity.Register, int, error) {
	register, err := registers.GetForUpdate(ctx, registerID)
	if err != nil {
		return nil, 0, err
	}
	if register == nil {
		return nil, 0, apperror.NewNotFoundError("Register")
	}

	today := now.Format(entity.CounterDateLayout)
	if register.CounterDate != today {
		register.CounterDate = today
		register.Counter = 0
	}

	receiptNo := register.Counter + 1
	if err := registers.SaveCounter(ctx, register.ID, register.CounterDate, receiptNo); err != nil {
		return nil, 0, err
	}
	register.Counter = receiptNo

	return register, receiptNo, nil
}
