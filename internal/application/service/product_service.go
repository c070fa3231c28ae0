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

// defaultProductSortIndex places new products after the seeded ones
const defaultProductSortIndex = 1000

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	groupRepo    repository.PickupGroupRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	groupRepo repository.PickupGroupRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
	}
}

// ListProducts returns active products, optionally of one category
func (s *ProductService) ListProducts(ctx context.Context, categoryID string) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx, &repository.ProductFilterParams{
		CategoryID: categoryID,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list products", err)
	}
	return products, nil
}

// UpsertProductInput represents the upsert product input. An empty ID creates a new product.
type UpsertProductInput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" validate:"notblank,max=64"`
	PriceCents int64   `json:"price_cents" validate:"gte=0"`
	CategoryID string  `json:"category_id" validate:"required"`
	Active     *bool   `json:"active"`
	SortIndex  *int    `json:"sort_index"`
	GroupID    *string `json:"group_id"`
}

// UpsertProduct creates or replaces a product
func (s *ProductService) UpsertProduct(ctx context.Context, input *UpsertProductInput) (*entity.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read category", err)
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	groupID, err := s.checkGroup(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:         input.ID,
		Name:       strings.TrimSpace(input.Name),
		PriceCents: input.PriceCents,
		CategoryID: input.CategoryID,
		Active:     true,
		SortIndex:  defaultProductSortIndex,
		GroupID:    groupID,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.SortIndex != nil {
		product.SortIndex = *input.SortIndex
	}

	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, apperror.NewPersistenceError("Failed to save product", err)
	}

	return product, nil
}

// SetProductGroup routes a product to a station. A nil group falls back to the category default.
func (s *ProductService) SetProductGroup(ctx context.Context, id string, groupID *string) (*entity.Product, error) {
	resolved, err := s.checkGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SetGroup(ctx, id, resolved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Product")
		}
		return nil, apperror.NewPersistenceError("Failed to update product", err)
	}

	return s.productRepo.GetByID(ctx, id)
}

// DeleteProduct hides a product from sale. Sold items keep their snapshot.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("Product")
		}
		return apperror.NewPersistenceError("Failed to delete product", err)
	}
	return nil
}

func (s *ProductService) checkGroup(ctx context.Context, groupID *string) (*string, error) {
	if groupID == nil || strings.TrimSpace(*groupID) == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetByID(ctx, *groupID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read pickup group", err)
	}
	if group == nil {
		return nil, apperror.NewNotFoundError("Pickup group")
	}
	return &group.ID, nil
}
