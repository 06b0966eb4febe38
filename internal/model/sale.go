package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a single purchase transaction with one or more lines.
// Total is always derived from the line subtotals; it is unset only
// when the sale has no lines left (administrative edits can empty one).
type Sale struct {
	BaseModel
	Total decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"total"`

	// Customer may be deleted later; the sale survives with a NULL ref.
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// Employee that registered the sale
	RegisteredByUserID *uuid.UUID `gorm:"type:uuid;index" json:"registered_by_user_id,omitempty"`
	RegisteredByUser   *User      `gorm:"foreignKey:RegisteredByUserID" json:"registered_by_user,omitempty"`

	Lines []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// SaleLine is one product-quantity entry within a Sale. UnitPrice is a
// snapshot of the product price at sale time, immune to later price
// changes; Subtotal is always recomputed as quantity * unit price.
type SaleLine struct {
	BaseModel
	SaleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sale_product" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sale_product" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
}

// ComputeSubtotal derives the line subtotal from quantity and the
// snapshot unit price.
func (l *SaleLine) ComputeSubtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
