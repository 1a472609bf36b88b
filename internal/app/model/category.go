package model

import "time"

type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`                 // category ID
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`     // display name
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`     // URL-safe identifier
	Description string    `gorm:"type:text" json:"description"`         // optional description
	SortOrder   int       `gorm:"default:0;index" json:"sort_order"`    // menu ordering
	CreatedAt   time.Time `json:"created_at"`                           // creation time
	UpdatedAt   time.Time `json:"updated_at"`                           // last update time

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"` // products in this category
}

func (Category) TableName() string {
	return "categories"
}
