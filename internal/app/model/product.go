package model

import "time"

type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`             // product ID
	CategoryID  uint      `gorm:"not null;index" json:"category_id"` // owning category ID
	Name        string    `gorm:"not null;index" json:"name"`       // display name
	Description string    `gorm:"type:text" json:"description"`     // menu description
	Price       float64   `gorm:"not null" json:"price"`            // current unit price
	ImageURL    string    `json:"image_url"`                        // product image URL
	IsAvailable bool      `gorm:"default:true" json:"is_available"` // currently orderable
	CreatedAt   time.Time `json:"created_at"`                       // creation time
	UpdatedAt   time.Time `json:"updated_at"`                       // last update time

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // owning category
}

func (Product) TableName() string {
	return "products"
}
