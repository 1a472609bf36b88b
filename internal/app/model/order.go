package model

import "time"

type OrderStatus string // order lifecycle state

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // accepted by staff
	OrderStatusPreparing OrderStatus = "preparing" // being made
	OrderStatusReady     OrderStatus = "ready"     // ready for pickup
	OrderStatusCompleted OrderStatus = "completed" // handed over, terminal
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled, terminal
)

// statusRank orders the forward path. Cancelled and unknown statuses have no rank.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusPreparing: 2,
	OrderStatusReady:     3,
	OrderStatusCompleted: 4,
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsValid reports whether s is a known lifecycle state.
func (s OrderStatus) IsValid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether the move s -> target is legal.
// Forward moves (including skips) are allowed; cancelled is reachable
// from any non-terminal state; terminal states accept nothing.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to > from
}

type Order struct {
	ID          uint        `gorm:"primarykey" json:"id"`                             // order ID
	UserID      uint        `gorm:"not null;index" json:"user_id"`                    // customer ID
	Status      OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"` // lifecycle state
	TotalAmount float64     `gorm:"not null" json:"total_amount"`                     // total frozen at checkout
	Note        string      `gorm:"type:text" json:"note"`                            // customer note for the barista
	CreatedAt   time.Time   `json:"created_at"`                                       // creation time
	UpdatedAt   time.Time   `json:"updated_at"`                                       // last update time

	User  User        `gorm:"foreignKey:UserID" json:"-"`                                           // customer
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // order lines
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`             // order item ID
	OrderID     uint      `gorm:"not null;index" json:"order_id"`   // owning order ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"` // product ID
	ProductName string    `gorm:"not null" json:"product_name"`     // name snapshot at checkout
	Quantity    int       `gorm:"not null" json:"quantity"`         // quantity
	Price       float64   `gorm:"not null" json:"price"`            // unit price frozen at checkout
	CreatedAt   time.Time `json:"created_at"`                       // creation time

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`                   // owning order
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // product info
}

func (OrderItem) TableName() string {
	return "order_items"
}
