package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // user permission level

const (
	RoleUser  UserRole = "user"  // regular customer
	RoleAdmin UserRole = "admin" // staff / administrator
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // user ID
	Email        string         `gorm:"index;not null" json:"email"`                 // email (uniqueness enforced against active rows only)
	PasswordHash string         `gorm:"not null" json:"-"`                           // bcrypt password hash
	Username     string         `gorm:"not null" json:"username"`                    // display name
	Phone        string         `json:"phone"`                                       // phone number, digits only
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // permission level
	IsActive     bool           `gorm:"default:true" json:"is_active"`               // account enabled flag
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`            // email verified flag
	CreatedAt    time.Time      `json:"created_at"`                                  // creation time
	UpdatedAt    time.Time      `json:"updated_at"`                                  // last update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // soft delete time
}

func (User) TableName() string {
	return "users"
}
