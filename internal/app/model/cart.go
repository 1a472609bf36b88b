package model

import "time"

type Cart struct {
	ID          uint      `gorm:"primarykey" json:"id"`                    // cart ID
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`     // owner ID, one cart per user
	TotalAmount float64   `gorm:"not null;default:0" json:"total_amount"`  // sum of item price * quantity, recomputed on every mutation
	CreatedAt   time.Time `json:"created_at"`                              // creation time
	UpdatedAt   time.Time `json:"updated_at"`                              // last update time

	User  User       `gorm:"foreignKey:UserID" json:"-"`                                           // owner
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // cart lines
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // cart item ID
	CartID    uint      `gorm:"not null;index" json:"cart_id"`    // owning cart ID
	ProductID uint      `gorm:"not null;index" json:"product_id"` // product ID
	Quantity  int       `gorm:"not null" json:"quantity"`         // quantity, always >= 1
	Price     float64   `gorm:"not null" json:"price"`            // unit price captured when the item was added
	CreatedAt time.Time `json:"created_at"`                       // creation time
	UpdatedAt time.Time `json:"updated_at"`                       // last update time

	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`                    // owning cart
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // product info
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal returns the line total for this item.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
