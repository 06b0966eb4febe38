package repository

import (
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	FindRecent(limit int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	Count() (int64, error)
	ReplaceSuppliers(product *model.Product, suppliers []model.Supplier) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error)
	RestoreStock(tx *gorm.DB, id uuid.UUID, quantity int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Preload("Suppliers").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Suppliers").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "name = ?", name).Error
	return &product, err
}

func (r *productRepo) FindRecent(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("created_at DESC").Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepo) ReplaceSuppliers(product *model.Product, suppliers []model.Supplier) error {
	return r.db.Model(product).Association("Suppliers").Replace(suppliers)
}

// DecrementStock runs the atomic conditional decrement inside the given
// transaction: stock = stock - quantity only where stock >= quantity.
// Returns false when the guard matched no row (insufficient stock),
// which must abort the caller's whole unit of work.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	result := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreStock returns quantity units to the product inside the given
// transaction (line deletion or quantity decrease).
func (r *productRepo) RestoreStock(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}
