package repository

import (
	"context"
	"errors"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/festkasse-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pickupGroupRepository struct {
	db *gorm.DB
}

// NewPickupGroupRepository creates a new pickup group repository
func NewPickupGroupRepository(db *gorm.DB) domainRepo.PickupGroupRepository {
	return &pickupGroupRepository{db: db}
}

func (r *pickupGroupRepository) List(ctx context.Context) ([]entity.PickupGroup, error) {
	var groups []entity.PickupGroup
	err := r.db.WithContext(ctx).Order("sort_index ASC").Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *pickupGroupRepository) GetByID(ctx context.Context, id string) (*entity.PickupGroup, error) {
	var group entity.PickupGroup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *pickupGroupRepository) Create(ctx context.Context, group *entity.PickupGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *pickupGroupRepository) Rename(ctx context.Context, id, name string) error {
	result := r.db.WithContext(ctx).Model(&entity.PickupGroup{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pickupGroupRepository) MaxSortIndex(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entity.PickupGroup{}).
		Select("COALESCE(MAX(sort_index), 0)").
		Scan(&max).Error
	return max, err
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Order("sort_index ASC").Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, error) {
	var products []entity.Product
	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if params != nil {
		if params.CategoryID != "" {
			query = query.Where("category_id = ?", params.CategoryID)
		}
		if params.ActiveOnly {
			query = query.Where("active = ?", true)
		}
	}
	if params == nil || params.CategoryID == "" {
		query = query.Order("category_id ASC")
	}
	err := query.Order("sort_index ASC").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) Upsert(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price_cents", "category_id", "active", "sort_index", "group_id"}),
		}).
		Create(product).Error
}

func (r *productRepository) SetGroup(ctx context.Context, id string, groupID *string) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Update("group_id", groupID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&entity.Product{}).Error
}
