package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/internal/db"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
)

type stubNotifier struct {
	mu     sync.Mutex
	events []model.OrderStatus
}

func (n *stubNotifier) NotifyOrderStatus(userID uint, orderID uint, status model.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, status)
}

func setupOrderTest(t *testing.T) (*gorm.DB, OrderService, CartService, *stubNotifier, *model.User, *model.Product, *model.Product) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	notifier := &stubNotifier{}
	cartSvc := NewCartService(testDB, cartRepo, productRepo)
	orderSvc := NewOrderService(testDB, orderRepo, cartRepo, notifier)

	user := &model.User{Email: "buyer@example.com", PasswordHash: "x", Username: "buyer"}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "Coffee", Slug: "coffee"}
	require.NoError(t, testDB.Create(category).Error)

	latte := &model.Product{CategoryID: category.ID, Name: "Latte", Price: 4.50, IsAvailable: true}
	require.NoError(t, testDB.Create(latte).Error)
	croissant := &model.Product{CategoryID: category.ID, Name: "Croissant", Price: 3.00, IsAvailable: true}
	require.NoError(t, testDB.Create(croissant).Error)

	return testDB, orderSvc, cartSvc, notifier, user, latte, croissant
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, orderSvc, _, _, user, _, _ := setupOrderTest(t)

	order, err := orderSvc.Checkout(user.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	assert.Nil(t, order)
}

func TestCheckout(t *testing.T) {
	_, orderSvc, cartSvc, _, user, latte, croissant := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddToCart(user.ID, croissant.ID, 1)
	require.NoError(t, err)

	order, err := orderSvc.Checkout(user.ID, "oat milk please")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, "oat milk please", order.Note)
	assert.InDelta(t, 12.00, order.TotalAmount, 0.0001)
	require.Len(t, order.Items, 2)

	// The cart is empty afterwards
	cart, err := cartSvc.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
}

func TestCheckoutFreezesPrices(t *testing.T) {
	testDB, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)

	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	// A later menu price change must not affect the placed order
	require.NoError(t, testDB.Model(latte).Update("price", 9.99).Error)

	reloaded, err := orderSvc.GetOrderByID(order.ID, user.ID, false)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.InDelta(t, 4.50, reloaded.Items[0].Price, 0.0001)
	assert.Equal(t, "Latte", reloaded.Items[0].ProductName)
	assert.InDelta(t, 9.00, reloaded.TotalAmount, 0.0001)
}

func TestGetOrderByIDOwnership(t *testing.T) {
	testDB, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "x", Username: "other"}
	require.NoError(t, testDB.Create(other).Error)

	_, err = orderSvc.GetOrderByID(order.ID, other.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Staff can read any order
	got, err := orderSvc.GetOrderByID(order.ID, other.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = orderSvc.GetOrderByID(9999, user.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	_, orderSvc, cartSvc, notifier, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	for _, status := range []model.OrderStatus{
		model.OrderStatusConfirmed,
		model.OrderStatusPreparing,
		model.OrderStatusReady,
		model.OrderStatusCompleted,
	} {
		order, err = orderSvc.UpdateStatus(order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}

	assert.Len(t, notifier.events, 4)
	assert.Equal(t, model.OrderStatusCompleted, notifier.events[3])
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	_, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	_, err = orderSvc.UpdateStatus(order.ID, model.OrderStatus("shipped"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = orderSvc.UpdateStatus(order.ID, model.OrderStatusReady)
	require.NoError(t, err)

	// No going backwards
	_, err = orderSvc.UpdateStatus(order.ID, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = orderSvc.UpdateStatus(order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)

	// Terminal state accepts nothing
	_, err = orderSvc.UpdateStatus(order.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCancelOrder(t *testing.T) {
	_, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	cancelled, err := orderSvc.CancelOrder(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	// Cannot cancel twice
	_, err = orderSvc.CancelOrder(order.ID, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCancelStalePending(t *testing.T) {
	testDB, orderSvc, cartSvc, notifier, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	stale, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	_, err = cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	fresh, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	// Age the first order past the cutoff
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", stale.ID).Update("created_at", old).Error)

	count, err := orderSvc.CancelStalePending(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	reloaded, err := orderSvc.GetOrderByID(stale.ID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, reloaded.Status)

	untouched, err := orderSvc.GetOrderByID(fresh.ID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, untouched.Status)

	assert.Contains(t, notifier.events, model.OrderStatusCancelled)
}

func TestGetUserOrders(t *testing.T) {
	_, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	for i := 0; i < 3; i++ {
		_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
		require.NoError(t, err)
		_, err = orderSvc.Checkout(user.ID, "")
		require.NoError(t, err)
	}

	orders, err := orderSvc.GetUserOrders(user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestStaleSweepWriteSkipsOrdersThatMovedOn(t *testing.T) {
	testDB, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", order.ID).Update("created_at", old).Error)

	// The sweep has already selected the order as stale pending...
	orderRepo := repository.NewOrderRepository(testDB)
	stale, err := orderRepo.FindStalePending(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	// ...when staff completes it before the sweep writes.
	_, err = orderSvc.UpdateStatus(order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)

	// The conditional write sees the from-state is gone and touches nothing.
	err = orderRepo.UpdateStatus(stale[0].ID, model.OrderStatusPending, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	reloaded, err := orderSvc.GetOrderByID(order.ID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, reloaded.Status)
}

func TestUpdateStatusConditionalOnObservedState(t *testing.T) {
	testDB, orderSvc, cartSvc, _, user, latte, _ := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 1)
	require.NoError(t, err)
	order, err := orderSvc.Checkout(user.ID, "")
	require.NoError(t, err)

	// Another admin moved the order after we read it as pending
	orderRepo := repository.NewOrderRepository(testDB)
	require.NoError(t, orderRepo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusCompleted))

	err = orderRepo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	reloaded, err := orderSvc.GetOrderByID(order.ID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, reloaded.Status)
}

func TestCheckoutRollbackKeepsCart(t *testing.T) {
	testDB, orderSvc, cartSvc, _, user, latte, croissant := setupOrderTest(t)

	_, err := cartSvc.AddToCart(user.ID, latte.ID, 2)
	require.NoError(t, err)
	_, err = cartSvc.AddToCart(user.ID, croissant.ID, 1)
	require.NoError(t, err)

	// Break the order-items insert so checkout fails mid-transaction
	require.NoError(t, testDB.Migrator().DropTable(&model.OrderItem{}))

	order, err := orderSvc.Checkout(user.ID, "")
	require.Error(t, err)
	assert.Nil(t, order)

	// The rollback leaves the cart exactly as it was
	cart, err := cartSvc.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.InDelta(t, 12.00, cart.TotalAmount, 0.0001)
}
