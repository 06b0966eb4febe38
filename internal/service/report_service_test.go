package service

import (
	"testing"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestReportService(db *gorm.DB) ReportService {
	return NewReportService(
		repository.NewSaleRepo(db),
		repository.NewProductRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewSupplierRepo(db),
		repository.NewCustomerRepo(db),
	)
}

func TestDailySalesReportTotalsCountAndAverage(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	reports := newTestReportService(db)
	product := createProduct(t, db, "Reported", "50.00", 100)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// A sale from yesterday must stay out of today's report.
	yesterday := model.Sale{
		Total: decimal.NullDecimal{Decimal: decimal.RequireFromString("999.00"), Valid: true},
	}
	yesterday.CreatedAt = time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&yesterday).Error)

	report, err := reports.GetDailySalesReport(time.Now())
	require.NoError(t, err)

	require.Equal(t, int64(2), report.SaleCount)
	require.True(t, report.TotalSold.Equal(decimal.RequireFromString("150.00")),
		"total sold = %s", report.TotalSold)
	require.True(t, report.AverageSale.Equal(decimal.RequireFromString("75.00")),
		"average = %s", report.AverageSale)
	require.Len(t, report.Lines, 2)
}

func TestDailySalesReportEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	reports := newTestReportService(db)

	report, err := reports.GetDailySalesReport(time.Now())
	require.NoError(t, err)

	require.Zero(t, report.SaleCount)
	require.True(t, report.TotalSold.IsZero())
	require.True(t, report.AverageSale.IsZero())
	require.Empty(t, report.Lines)
}

func TestDailySalesReportExcludesDeletedSales(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	reports := newTestReportService(db)
	product := createProduct(t, db, "DeletedFromReport", "10.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSale(adminActor(), sale.ID))

	report, err := reports.GetDailySalesReport(time.Now())
	require.NoError(t, err)
	require.Zero(t, report.SaleCount)
	require.Empty(t, report.Lines)
}

func TestDashboardStatsCounters(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	reports := newTestReportService(db)

	first := createProduct(t, db, "DashFirst", "10.00", 10)
	createProduct(t, db, "DashSecond", "20.00", 5)

	supplier := model.Supplier{Name: "Sup", CompanyName: "Sup Co"}
	require.NoError(t, db.Create(&supplier).Error)
	customer := model.Customer{FirstName: "Dash", LastName: "Buyer", Email: "dash@test.local"}
	require.NoError(t, db.Create(&customer).Error)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: first.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	stats, err := reports.GetDashboardStats()
	require.NoError(t, err)

	require.Equal(t, int64(2), stats.TotalProducts)
	require.Equal(t, int64(2), stats.TotalCategories)
	require.Equal(t, int64(1), stats.TotalSuppliers)
	require.Equal(t, int64(1), stats.TotalCustomers)
	require.True(t, stats.SalesToday.Equal(decimal.RequireFromString("20.00")),
		"sales today = %s", stats.SalesToday)
	require.Len(t, stats.RecentProducts, 2)
}
