package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Stock       int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`

	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Suppliers []Supplier `gorm:"many2many:product_suppliers;" json:"suppliers,omitempty"`

	// User tracking
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
}
