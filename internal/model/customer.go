package model

import "github.com/google/uuid"

// Customer represents a buyer. It may optionally be linked to a login
// account so the customer can browse their own purchases.
type Customer struct {
	BaseModel
	FirstName   string `gorm:"type:varchar(100);not null" json:"first_name" validate:"required"`
	LastName    string `gorm:"type:varchar(100);not null" json:"last_name" validate:"required"`
	Email       string `gorm:"type:varchar(191);uniqueIndex;not null" json:"email" validate:"required,email"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Address     string `gorm:"type:text" json:"address"`

	// Optional linked login account
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User   *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// FullName returns "first last" for display and messages
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
