package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
	"github.com/sangkips/festkasse-api/pkg/utils"
	"gorm.io/gorm"
)

// pickupGroupSortStep is the gap left between consecutive stations
const pickupGroupSortStep = 10

// PickupGroupService manages pickup stations. Stations are renamed in place and never deleted.
type PickupGroupService struct {
	groupRepo repository.PickupGroupRepository
}

// NewPickupGroupService creates a new pickup group service
func NewPickupGroupService(groupRepo repository.PickupGroupRepository) *PickupGroupService {
	return &PickupGroupService{groupRepo: groupRepo}
}

// ListGroups returns all stations by sort index, then name
func (s *PickupGroupService) ListGroups(ctx context.Context) ([]entity.PickupGroup, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list pickup groups", err)
	}
	return groups, nil
}

// CreateGroup adds a station after the last one
func (s *PickupGroupService) CreateGroup(ctx context.Context, name string) (*entity.PickupGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewInvalidInputError("Name is required")
	}

	maxSort, err := s.groupRepo.MaxSortIndex(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read pickup groups", err)
	}

	group := &entity.PickupGroup{
		ID:        utils.NewPrefixedID("grp"),
		Name:      name,
		SortIndex: maxSort + pickupGroupSortStep,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, apperror.NewPersistenceError("Failed to create pickup group", err)
	}

	return group, nil
}

// RenameGroup changes a station's display name. Existing receipts keep the old name on their jobs.
func (s *PickupGroupService) RenameGroup(ctx context.Context, id, name string) (*entity.PickupGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewInvalidInputError("Name is required")
	}

	if err := s.groupRepo.Rename(ctx, id, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Pickup group")
		}
		return nil, apperror.NewPersistenceError("Failed to rename pickup group", err)
	}

	return s.groupRepo.GetByID(ctx, id)
}
