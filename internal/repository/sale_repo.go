package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByCustomer(customerID uuid.UUID) ([]model.Sale, error)
	FindLineByID(saleID, lineID uuid.UUID) (*model.SaleLine, error)
	FindLinesByDateRange(start, end time.Time) ([]model.SaleLine, error)
	DailySummary(start, end time.Time) (*DailySalesSummary, error)
	SumTotals(start, end time.Time) (decimal.Decimal, error)
}

// DailySalesSummary backs the date-filtered sales report
type DailySalesSummary struct {
	TotalSold decimal.Decimal `json:"total_sold"`
	SaleCount int64           `json:"sale_count"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Customer").Preload("RegisteredByUser").Preload("Lines").Preload("Lines.Product").
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Customer").Preload("RegisteredByUser").Preload("Lines").Preload("Lines.Product").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) FindByCustomer(customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Lines").Preload("Lines.Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindLineByID(saleID, lineID uuid.UUID) (*model.SaleLine, error) {
	var line model.SaleLine
	err := r.db.First(&line, "id = ? AND sale_id = ?", lineID, saleID).Error
	return &line, err
}

func (r *saleRepo) FindLinesByDateRange(start, end time.Time) ([]model.SaleLine, error) {
	var lines []model.SaleLine
	err := r.db.Preload("Product").
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Where("sales.created_at >= ? AND sales.created_at < ? AND sales.deleted_at IS NULL", start, end).
		Order("sales.created_at DESC").
		Find(&lines).Error
	return lines, err
}

func (r *saleRepo) DailySummary(start, end time.Time) (*DailySalesSummary, error) {
	var summary DailySalesSummary

	total, err := r.SumTotals(start, end)
	if err != nil {
		return nil, err
	}
	summary.TotalSold = total

	err = r.db.Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&summary.SaleCount).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *saleRepo) SumTotals(start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}
