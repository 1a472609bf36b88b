package model

import "time"

type Contact struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // contact message ID
	Name      string    `gorm:"not null" json:"name"`              // sender name
	Email     string    `gorm:"not null" json:"email"`             // sender email
	Subject   string    `gorm:"not null" json:"subject"`           // subject line
	Message   string    `gorm:"type:text;not null" json:"message"` // message body
	CreatedAt time.Time `json:"created_at"`                        // creation time
}

func (Contact) TableName() string {
	return "contacts"
}
