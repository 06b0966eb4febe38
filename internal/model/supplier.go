package model

// Supplier holds the companies that stock the store
type Supplier struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	CompanyName string  `gorm:"type:varchar(200);uniqueIndex;not null" json:"company_name" validate:"required"`
	PhoneNumber string  `gorm:"type:varchar(20)" json:"phone_number"`
	Email       *string `gorm:"type:varchar(191);uniqueIndex" json:"email,omitempty" validate:"omitempty,email"`
	Address     string  `gorm:"type:text" json:"address"`
}
