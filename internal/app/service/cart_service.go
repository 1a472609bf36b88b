package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nvolkov/brewhub-backend/internal/app/model"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

type CartService interface {
	GetUserCart(userID uint) (*model.Cart, error)
	AddToCart(userID, productID uint, quantity int) (*model.Cart, error)
	UpdateCartItem(userID, cartItemID uint, quantity int) (*model.Cart, error)
	RemoveFromCart(userID, cartItemID uint) (*model.Cart, error)
	ClearCart(userID uint) error
}

type cartService struct {
	db          *gorm.DB
	cartRepo    *repository.CartRepository
	productRepo *repository.ProductRepository
}

func NewCartService(db *gorm.DB, cartRepo *repository.CartRepository, productRepo *repository.ProductRepository) CartService {
	return &cartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) (*model.Cart, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.FindOrCreateByUserID(userID)
}

// AddToCart adds a product line or bumps the quantity of an existing one.
// The unit price is captured from the product at the moment of adding and
// the cart total is recomputed before the transaction commits.
func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrProductNotFound
	}
	if !product.IsAvailable {
		logger.Warn("Cannot add to cart: product unavailable", map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrProductUnavailable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.FindOrCreateByUserID(userID)
		if err != nil {
			return err
		}

		existing, err := cartRepo.FindItem(cart.ID, productID)
		if err != nil {
			return err
		}

		if existing != nil {
			existing.Quantity += quantity
			if err := cartRepo.SaveItem(existing); err != nil {
				return err
			}
		} else {
			item := &model.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     product.Price,
			}
			if err := cartRepo.SaveItem(item); err != nil {
				return err
			}
		}

		return recomputeTotal(cartRepo, cart.ID)
	})
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.FindOrCreateByUserID(userID)
		if err != nil {
			return err
		}

		var item *model.CartItem
		for i := range cart.Items {
			if cart.Items[i].ID == cartItemID {
				item = &cart.Items[i]
				break
			}
		}
		if item == nil {
			logger.Warn("Cart item not found for update", map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}

		item.Quantity = quantity
		if err := cartRepo.SaveItem(item); err != nil {
			return err
		}

		return recomputeTotal(cartRepo, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.FindOrCreateByUserID(userID)
		if err != nil {
			return err
		}

		affected, err := cartRepo.DeleteItem(cart.ID, cartItemID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCartItemNotFound
		}

		return recomputeTotal(cartRepo, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindOrCreateByUserID(userID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.FindOrCreateByUserID(userID)
		if err != nil {
			return err
		}
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		return cartRepo.UpdateTotal(cart.ID, 0)
	})
}

// recomputeTotal rereads the cart lines and writes the derived total.
// Called inside every mutating transaction so the stored total never
// drifts from the items.
func recomputeTotal(cartRepo *repository.CartRepository, cartID uint) error {
	var items []model.CartItem
	if err := cartRepo.DB().Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}

	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return cartRepo.UpdateTotal(cartID, total)
}
