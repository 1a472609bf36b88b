package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

// CartRepository manages the one-cart-per-user aggregate. Reads always bring
// the items and their products along because the cart is never useful bare.
type CartRepository struct {
	*BaseRepository[model.Cart]
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{BaseRepository: NewBaseRepository[model.Cart](db)}
}

func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{BaseRepository: r.BaseRepository.WithTx(tx)}
}

// FindOrCreateByUserID returns the user's cart, creating an empty one on
// first touch.
func (r *CartRepository) FindOrCreateByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.DB().
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{UserID: userID}
		if err := r.DB().Create(&cart).Error; err != nil {
			logger.Error("Failed to create cart", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		logger.Error("Failed to find cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.DB().
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) SaveItem(item *model.CartItem) error {
	return r.DB().Save(item).Error
}

func (r *CartRepository) DeleteItem(cartID, itemID uint) (int64, error) {
	result := r.DB().
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearItems removes every line from the cart.
func (r *CartRepository) ClearItems(cartID uint) error {
	return r.DB().Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}

// UpdateTotal persists a freshly recomputed cart total.
func (r *CartRepository) UpdateTotal(cartID uint, total float64) error {
	return r.DB().Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", total).Error
}
