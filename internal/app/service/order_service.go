package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderNotifier pushes status changes to connected clients. The realtime
// hub implements it; tests plug in a stub.
type OrderNotifier interface {
	NotifyOrderStatus(userID uint, orderID uint, status model.OrderStatus)
}

type OrderService interface {
	Checkout(userID uint, note string) (*model.Order, error)
	GetUserOrders(userID uint, skip, limit int) ([]model.Order, error)
	GetOrderByID(orderID, userID uint, isAdmin bool) (*model.Order, error)
	ListByStatus(status model.OrderStatus, skip, limit int) ([]model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	CancelOrder(orderID, userID uint) (*model.Order, error)
	CancelStalePending(maxAge time.Duration) (int, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo *repository.OrderRepository
	cartRepo  *repository.CartRepository
	notifier  OrderNotifier
}

func NewOrderService(db *gorm.DB, orderRepo *repository.OrderRepository, cartRepo *repository.CartRepository, notifier OrderNotifier) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		notifier:  notifier,
	}
}

// Checkout turns the user's cart into a pending order in one transaction.
// Unit prices are copied from the cart lines, so later menu price changes
// never touch a placed order. The cart comes out empty with a zero total.
func (s *orderService) Checkout(userID uint, note string) (*model.Order, error) {
	logger.Info("Checking out cart", map[string]interface{}{
		"user_id": userID,
	})

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.FindOrCreateByUserID(userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperrors.ErrEmptyCart
		}

		order := &model.Order{
			UserID: userID,
			Status: model.OrderStatusPending,
			Note:   note,
		}

		var total float64
		for _, item := range cart.Items {
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
			total += item.Subtotal()
		}
		order.TotalAmount = total

		if err := orderRepo.Create(order); err != nil {
			return err
		}

		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		if err := cartRepo.UpdateTotal(cart.ID, 0); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyCart) {
			logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
				"user_id": userID,
			})
		} else {
			logger.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})
	return s.orderRepo.FindByIDWithItems(orderID)
}

func (s *orderService) GetUserOrders(userID uint, skip, limit int) ([]model.Order, error) {
	return s.orderRepo.ListByUser(userID, skip, limit)
}

// GetOrderByID returns the order if the caller owns it or is staff.
func (s *orderService) GetOrderByID(orderID, userID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
			"owner_id": order.UserID,
		})
		return nil, apperrors.ErrForbidden
	}
	return order, nil
}

func (s *orderService) ListByStatus(status model.OrderStatus, skip, limit int) ([]model.Order, error) {
	return s.orderRepo.ListByStatus(status, skip, limit)
}

// UpdateStatus moves the order along its lifecycle after validating the
// transition, then notifies the owner over the realtime channel.
func (s *orderService) UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !status.IsValid() {
		return nil, apperrors.ErrInvalidTransition
	}

	order, err := s.orderRepo.FindByIDWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Order status transition rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, apperrors.ErrInvalidTransition
	}

	// Conditional on the from-state so a concurrent writer cannot slip a
	// transition in between our read and this write.
	if err := s.orderRepo.UpdateStatus(orderID, order.Status, status); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			logger.Warn("Order status changed concurrently", map[string]interface{}{
				"order_id": orderID,
				"expected": order.Status,
			})
			return nil, err
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	order.Status = status

	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(order.UserID, order.ID, status)
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return order, nil
}

// CancelOrder lets a customer cancel their own order while it is still
// cancellable.
func (s *orderService) CancelOrder(orderID, userID uint) (*model.Order, error) {
	order, err := s.GetOrderByID(orderID, userID, false)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(orderID, order.Status, model.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusCancelled

	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(order.UserID, order.ID, model.OrderStatusCancelled)
	}

	logger.Info("Order cancelled by customer", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	return order, nil
}

// CancelStalePending cancels pending orders older than maxAge. The
// scheduler runs this periodically so abandoned checkouts don't pile up
// in the staff queue.
func (s *orderService) CancelStalePending(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	stale, err := s.orderRepo.FindStalePending(cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, order := range stale {
		// The write re-checks the pending state so orders the staff picked
		// up after the select are left alone.
		if err := s.orderRepo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusCancelled); err != nil {
			if errors.Is(err, apperrors.ErrInvalidTransition) {
				continue
			}
			logger.Error("Failed to cancel stale order", err, map[string]interface{}{
				"order_id": order.ID,
			})
			continue
		}
		cancelled++
		if s.notifier != nil {
			s.notifier.NotifyOrderStatus(order.UserID, order.ID, model.OrderStatusCancelled)
		}
	}

	if cancelled > 0 {
		logger.Info("Stale pending orders cancelled", map[string]interface{}{
			"count": cancelled,
		})
	}
	return cancelled, nil
}
