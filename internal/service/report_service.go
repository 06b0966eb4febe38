package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// DailySalesReport is the date-filtered sales report: total sold,
// number of sales, average sale and the day's lines.
type DailySalesReport struct {
	Date        string           `json:"date"`
	TotalSold   decimal.Decimal  `json:"total_sold"`
	SaleCount   int64            `json:"sale_count"`
	AverageSale decimal.Decimal  `json:"average_sale"`
	Lines       []model.SaleLine `json:"lines"`
}

// DashboardStats backs the landing dashboard counters
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	TotalCategories int64           `json:"total_categories"`
	TotalSuppliers  int64           `json:"total_suppliers"`
	TotalCustomers  int64           `json:"total_customers"`
	SalesToday      decimal.Decimal `json:"sales_today"`
	RecentProducts  []model.Product `json:"recent_products"`
}

type ReportService interface {
	GetDailySalesReport(day time.Time) (*DailySalesReport, error)
	GetDashboardStats() (*DashboardStats, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
}

func NewReportService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, catRepo repository.CategoryRepository, supRepo repository.SupplierRepository, cRepo repository.CustomerRepository) ReportService {
	return &reportService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		categoryRepo: catRepo,
		supplierRepo: supRepo,
		customerRepo: cRepo,
	}
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func (s *reportService) GetDailySalesReport(day time.Time) (*DailySalesReport, error) {
	start, end := dayBounds(day)

	summary, err := s.saleRepo.DailySummary(start, end)
	if err != nil {
		return nil, err
	}

	lines, err := s.saleRepo.FindLinesByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if summary.SaleCount > 0 {
		average = summary.TotalSold.DivRound(decimal.NewFromInt(summary.SaleCount), 2)
	}

	return &DailySalesReport{
		Date:        start.Format("2006-01-02"),
		TotalSold:   summary.TotalSold,
		SaleCount:   summary.SaleCount,
		AverageSale: average,
		Lines:       lines,
	}, nil
}

func (s *reportService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.categoryRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalSuppliers, err = s.supplierRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.customerRepo.Count(); err != nil {
		return nil, err
	}

	start, end := dayBounds(time.Now())
	if stats.SalesToday, err = s.saleRepo.SumTotals(start, end); err != nil {
		return nil, err
	}

	if stats.RecentProducts, err = s.productRepo.FindRecent(5); err != nil {
		return nil, err
	}

	return stats, nil
}
