package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/internal/db"
)

func setupCatalogTest(t *testing.T) CatalogService {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	return NewCatalogService(categoryRepo, productRepo)
}

func TestCreateCategoryConflict(t *testing.T) {
	svc := setupCatalogTest(t)

	require.NoError(t, svc.CreateCategory(&model.Category{Name: "Coffee", Slug: "coffee"}))

	err := svc.CreateCategory(&model.Category{Name: "Other Coffee", Slug: "coffee"})
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestListCategoriesOrdered(t *testing.T) {
	svc := setupCatalogTest(t)

	require.NoError(t, svc.CreateCategory(&model.Category{Name: "Pastries", Slug: "pastries", SortOrder: 2}))
	require.NoError(t, svc.CreateCategory(&model.Category{Name: "Coffee", Slug: "coffee", SortOrder: 1}))

	categories, err := svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "coffee", categories[0].Slug)
	assert.Equal(t, "pastries", categories[1].Slug)
}

func TestCreateProductRequiresCategory(t *testing.T) {
	svc := setupCatalogTest(t)

	err := svc.CreateProduct(&model.Product{CategoryID: 9999, Name: "Latte", Price: 4.5})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductLifecycle(t *testing.T) {
	svc := setupCatalogTest(t)

	category := &model.Category{Name: "Coffee", Slug: "coffee"}
	require.NoError(t, svc.CreateCategory(category))

	product := &model.Product{CategoryID: category.ID, Name: "Latte", Price: 4.5, IsAvailable: true}
	require.NoError(t, svc.CreateProduct(product))

	updated, err := svc.UpdateProduct(product.ID, map[string]interface{}{"price": 5.0})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, updated.Price, 0.0001)

	got, err := svc.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "coffee", got.Category.Slug)

	require.NoError(t, svc.DeleteProduct(product.ID))
	_, err = svc.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListProductsByCategory(t *testing.T) {
	svc := setupCatalogTest(t)

	coffee := &model.Category{Name: "Coffee", Slug: "coffee"}
	require.NoError(t, svc.CreateCategory(coffee))
	tea := &model.Category{Name: "Tea", Slug: "tea"}
	require.NoError(t, svc.CreateCategory(tea))

	require.NoError(t, svc.CreateProduct(&model.Product{CategoryID: coffee.ID, Name: "Latte", Price: 4.5}))
	require.NoError(t, svc.CreateProduct(&model.Product{CategoryID: coffee.ID, Name: "Mocha", Price: 5.0}))
	require.NoError(t, svc.CreateProduct(&model.Product{CategoryID: tea.ID, Name: "Sencha", Price: 3.0}))

	all, err := svc.ListProducts(0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyCoffee, err := svc.ListProducts(coffee.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, onlyCoffee, 2)
}
