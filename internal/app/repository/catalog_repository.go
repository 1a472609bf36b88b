package repository

import (
	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
)

type CategoryRepository struct {
	*BaseRepository[model.Category]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{BaseRepository: NewBaseRepository[model.Category](db)}
}

func (r *CategoryRepository) CreateUnique(category *model.Category) error {
	return r.Create(category, WithUniqueFields(map[string]interface{}{
		"slug": category.Slug,
	}))
}

func (r *CategoryRepository) FindBySlug(slug string) (*model.Category, error) {
	return r.Get(map[string]interface{}{"slug": slug})
}

// ListOrdered returns all categories in menu order.
func (r *CategoryRepository) ListOrdered() ([]model.Category, error) {
	return r.List(nil, WithSort("sort_order ASC, id ASC"))
}

type ProductRepository struct {
	*BaseRepository[model.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{BaseRepository: NewBaseRepository[model.Product](db)}
}

func (r *ProductRepository) FindByIDWithCategory(id uint) (*model.Product, error) {
	return r.GetByID(id, WithPreload("Category"))
}

func (r *ProductRepository) ListByCategory(categoryID uint, skip, limit int) ([]model.Product, error) {
	filters := map[string]interface{}{}
	if categoryID != 0 {
		filters["category_id"] = categoryID
	}
	return r.List(filters,
		WithPreload("Category"),
		WithPagination(skip, limit),
	)
}
