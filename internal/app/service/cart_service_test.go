package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/internal/db"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartService, *model.User, *model.Product, *model.Product) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	svc := NewCartService(testDB, cartRepo, productRepo)

	user := &model.User{Email: "buyer@example.com", PasswordHash: "x", Username: "buyer"}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "Coffee", Slug: "coffee"}
	require.NoError(t, testDB.Create(category).Error)

	latte := &model.Product{CategoryID: category.ID, Name: "Latte", Price: 4.50, IsAvailable: true}
	require.NoError(t, testDB.Create(latte).Error)
	croissant := &model.Product{CategoryID: category.ID, Name: "Croissant", Price: 3.00, IsAvailable: true}
	require.NoError(t, testDB.Create(croissant).Error)

	return testDB, svc, user, latte, croissant
}

func TestGetUserCartCreatesEmptyCart(t *testing.T) {
	_, svc, user, _, _ := setupCartTest(t)

	cart, err := svc.GetUserCart(user.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Equal(t, user.ID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
}

func TestAddToCart(t *testing.T) {
	_, svc, user, latte, _ := setupCartTest(t)

	cart, err := svc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 4.50, cart.Items[0].Price, 0.0001)
	assert.InDelta(t, 9.00, cart.TotalAmount, 0.0001)
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	_, svc, user, latte, _ := setupCartTest(t)

	_, err := svc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	cart, err := svc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 13.50, cart.TotalAmount, 0.0001)
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	testDB, svc, user, latte, _ := setupCartTest(t)

	_, err := svc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)

	// A menu price change must not touch lines already in the cart
	require.NoError(t, testDB.Model(latte).Update("price", 6.00).Error)

	cart, err := svc.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 4.50, cart.Items[0].Price, 0.0001)
	assert.InDelta(t, 9.00, cart.TotalAmount, 0.0001)
}

func TestAddToCartErrors(t *testing.T) {
	testDB, svc, user, latte, _ := setupCartTest(t)

	_, err := svc.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddToCart(user.ID, latte.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	require.NoError(t, testDB.Model(latte).Update("is_available", false).Error)
	_, err = svc.AddToCart(user.ID, latte.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestUpdateCartItem(t *testing.T) {
	_, svc, user, latte, _ := setupCartTest(t)

	cart, err := svc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateCartItem(user.ID, cart.Items[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.InDelta(t, 18.00, updated.TotalAmount, 0.0001)
}

func TestUpdateCartItemNotFound(t *testing.T) {
	_, svc, user, _, _ := setupCartTest(t)

	_, err := svc.UpdateCartItem(user.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestUpdateCartItemOwnership(t *testing.T) {
	testDB, svc, user, latte, _ := setupCartTest(t)

	cart, err := svc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "x", Username: "other"}
	require.NoError(t, testDB.Create(other).Error)

	// Another user cannot see or touch this line
	_, err = svc.UpdateCartItem(other.ID, cart.Items[0].ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	_, svc, user, latte, croissant := setupCartTest(t)

	_, err := svc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)
	cart, err := svc.AddToCart(user.ID, croissant.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	var latteItemID uint
	for _, item := range cart.Items {
		if item.ProductID == latte.ID {
			latteItemID = item.ID
		}
	}

	cart, err = svc.RemoveFromCart(user.ID, latteItemID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, croissant.ID, cart.Items[0].ProductID)
	assert.InDelta(t, 3.00, cart.TotalAmount, 0.0001)
}

func TestClearCart(t *testing.T) {
	_, svc, user, latte, croissant := setupCartTest(t)

	_, err := svc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(user.ID, croissant.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(user.ID))

	cart, err := svc.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
}
