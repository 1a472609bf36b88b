package service

import (
	"errors"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type CatalogService interface {
	ListCategories() ([]model.Category, error)
	CreateCategory(category *model.Category) error
	UpdateCategory(id uint, patch map[string]interface{}) (*model.Category, error)
	DeleteCategory(id uint) error

	ListProducts(categoryID uint, skip, limit int) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(id uint, patch map[string]interface{}) (*model.Product, error)
	DeleteProduct(id uint) error
}

type catalogService struct {
	categoryRepo *repository.CategoryRepository
	productRepo  *repository.ProductRepository
}

func NewCatalogService(categoryRepo *repository.CategoryRepository, productRepo *repository.ProductRepository) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.ListOrdered()
}

func (s *catalogService) CreateCategory(category *model.Category) error {
	logger.Info("Creating category", map[string]interface{}{
		"name": category.Name,
		"slug": category.Slug,
	})

	if err := s.categoryRepo.CreateUnique(category); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

func (s *catalogService) UpdateCategory(id uint, patch map[string]interface{}) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if err := s.categoryRepo.Update(category, patch); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	err := s.categoryRepo.Delete(map[string]interface{}{"id": id})
	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

func (s *catalogService) ListProducts(categoryID uint, skip, limit int) ([]model.Product, error) {
	return s.productRepo.ListByCategory(categoryID, skip, limit)
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByIDWithCategory(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	category, err := s.categoryRepo.GetByID(product.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	return s.productRepo.Create(product)
}

func (s *catalogService) UpdateProduct(id uint, patch map[string]interface{}) (*model.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if err := s.productRepo.Update(product, patch); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(id uint) error {
	err := s.productRepo.Delete(map[string]interface{}{"id": id})
	if errors.Is(err, apperrors.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
