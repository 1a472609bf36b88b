package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

type OrderRepository struct {
	*BaseRepository[model.Order]
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{BaseRepository: NewBaseRepository[model.Order](db)}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{BaseRepository: r.BaseRepository.WithTx(tx)}
}

func (r *OrderRepository) FindByIDWithItems(id uint) (*model.Order, error) {
	return r.GetByID(id, WithPreload("Items", "Items.Product"))
}

func (r *OrderRepository) ListByUser(userID uint, skip, limit int) ([]model.Order, error) {
	return r.List(
		map[string]interface{}{"user_id": userID},
		WithPreload("Items", "Items.Product"),
		WithPagination(skip, limit),
	)
}

// ListByStatus returns orders in the given state, oldest first, for the
// staff queue view.
func (r *OrderRepository) ListByStatus(status model.OrderStatus, skip, limit int) ([]model.Order, error) {
	return r.List(
		map[string]interface{}{"status": status},
		WithPreload("Items", "Items.Product"),
		WithPagination(skip, limit),
		WithSort("created_at ASC"),
	)
}

// FindStalePending returns pending orders created before the cutoff.
func (r *OrderRepository) FindStalePending(cutoff time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB().
		Where("status = ? AND created_at < ?", model.OrderStatusPending, cutoff).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find stale pending orders", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves the order between the two given states with one
// conditional write. When the row no longer holds the expected from-state
// (another writer got there first) nothing is updated and the caller gets
// ErrInvalidTransition.
func (r *OrderRepository) UpdateStatus(orderID uint, from, to model.OrderStatus) error {
	result := r.DB().Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		logger.Error("Failed to update order status", result.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
