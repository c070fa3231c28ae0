package service

import (
	"context"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/domain/repository"
	"github.com/sangkips/festkasse-api/pkg/apperror"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories returns all categories by sort index, then name
func (s *CategoryService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list categories", err)
	}
	return categories, nil
}
