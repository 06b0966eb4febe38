package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Role{}, &model.User{},
		&model.Category{}, &model.Supplier{}, &model.Product{},
		&model.Customer{}, &model.Sale{}, &model.SaleLine{},
	))
	return db
}

func newTestSaleService(db *gorm.DB) SaleService {
	return NewSaleService(
		repository.NewSaleRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		db, nil,
	)
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *model.Product {
	category := model.Category{Name: "category for " + name}
	require.NoError(t, db.Create(&category).Error)

	product := model.Product{
		Name:       name,
		UnitPrice:  decimal.RequireFromString(price),
		Stock:      stock,
		IsActive:   true,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Product {
	var product model.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return &product
}

func vendorActor() model.Actor {
	return model.Actor{ID: uuid.NewString(), Name: "Test Vendor", Email: "vendor@test.local", RoleCode: model.RoleVendor}
}

func managerActor() model.Actor {
	return model.Actor{ID: uuid.NewString(), Name: "Test Manager", Email: "manager@test.local", RoleCode: model.RoleManager}
}

func adminActor() model.Actor {
	return model.Actor{ID: uuid.NewString(), Name: "Test Admin", Email: "admin@test.local", RoleCode: model.RoleAdministrator}
}

func TestRegisterSaleDecrementsStockAndComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Headphones", "100.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.True(t, sale.Total.Valid)
	require.True(t, sale.Total.Decimal.Equal(decimal.RequireFromString("300.00")),
		"total = %s", sale.Total.Decimal)
	require.Len(t, sale.Lines, 1)
	require.True(t, sale.Lines[0].UnitPrice.Equal(product.UnitPrice))
	require.True(t, sale.Lines[0].Subtotal.Equal(decimal.RequireFromString("300.00")))

	require.Equal(t, 7, reloadProduct(t, db, product.ID).Stock)
}

func TestRegisterSaleMultiLineTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	mug := createProduct(t, db, "Mug", "19.99", 40)
	shirt := createProduct(t, db, "Shirt", "12.00", 100)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{
			{ProductID: mug.ID, Quantity: 2},
			{ProductID: shirt.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	// 2*19.99 + 5*12.00
	require.True(t, sale.Total.Decimal.Equal(decimal.RequireFromString("99.98")),
		"total = %s", sale.Total.Decimal)
	require.Equal(t, 38, reloadProduct(t, db, mug.ID).Stock)
	require.Equal(t, 95, reloadProduct(t, db, shirt.ID).Stock)
}

func TestRegisterSaleInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	ok := createProduct(t, db, "Plenty", "10.00", 50)
	scarce := createProduct(t, db, "Scarce", "10.00", 2)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{
			{ProductID: ok.ID, Quantity: 5},
			{ProductID: scarce.ID, Quantity: 5},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Contains(t, err.Error(), "Scarce")

	// Nothing was written and no stock moved, including the line that
	// succeeded before the failing one.
	var saleCount, lineCount int64
	require.NoError(t, db.Model(&model.Sale{}).Count(&saleCount).Error)
	require.NoError(t, db.Model(&model.SaleLine{}).Count(&lineCount).Error)
	require.Zero(t, saleCount)
	require.Zero(t, lineCount)
	require.Equal(t, 50, reloadProduct(t, db, ok.ID).Stock)
	require.Equal(t, 2, reloadProduct(t, db, scarce.ID).Stock)
}

func TestRegisterSaleSequentialStockExhaustion(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Limited", "5.00", 5)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 2, reloadProduct(t, db, product.ID).Stock)
}

func TestRegisterSaleConcurrentStockExhaustion(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Contested", "10.00", 5)

	// More buyers than stock: exactly stock-many sales may succeed and
	// the count must never go negative.
	const workers = 10
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
				Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	require.Equal(t, 5, successes)

	final := reloadProduct(t, db, product.ID)
	require.GreaterOrEqual(t, final.Stock, 0)
	require.Equal(t, 0, final.Stock)

	var saleCount int64
	require.NoError(t, db.Model(&model.Sale{}).Count(&saleCount).Error)
	require.Equal(t, int64(successes), saleCount)
}

func TestRegisterSalePriceSnapshotSurvivesPriceChange(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Jacket", "54.90", 18)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", product.ID).
		Update("unit_price", decimal.RequireFromString("99.00")).Error)

	reloaded, err := svc.GetSale(sale.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Lines[0].UnitPrice.Equal(decimal.RequireFromString("54.90")))
	require.True(t, reloaded.Total.Decimal.Equal(decimal.RequireFromString("54.90")))
}

func TestRegisterSaleRejectsDuplicateProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Charger", "24.50", 60)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, ErrDuplicateProduct)
	require.Equal(t, 60, reloadProduct(t, db, product.ID).Stock)
}

func TestRegisterSaleRejectsEmptySale(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{})
	require.ErrorIs(t, err, ErrEmptySale)
}

func TestRegisterSaleForbiddenForCustomers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Forbidden", "1.00", 1)

	customer := model.Actor{ID: uuid.NewString(), RoleCode: model.RoleCustomer}
	_, err := svc.RegisterSale(customer, &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRegisterSaleUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestRegisterSaleUnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "NoBuyer", "1.00", 5)

	missing := uuid.New()
	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		CustomerID: &missing,
		Lines:      []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrCustomerNotFound)
	require.Equal(t, 5, reloadProduct(t, db, product.ID).Stock)
}

func TestUpdateSaleLineAdjustsStockAndTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Adjustable", "10.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, reloadProduct(t, db, product.ID).Stock)

	updated, err := svc.UpdateSaleLine(managerActor(), sale.ID, sale.Lines[0].ID, 5)
	require.NoError(t, err)

	require.Equal(t, 5, updated.Lines[0].Quantity)
	require.True(t, updated.Lines[0].Subtotal.Equal(decimal.RequireFromString("50.00")))
	require.True(t, updated.Total.Decimal.Equal(decimal.RequireFromString("50.00")))
	require.Equal(t, 5, reloadProduct(t, db, product.ID).Stock)
}

func TestUpdateSaleLineInsufficientStockRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Tight", "10.00", 4)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// 1 left in stock + 3 restored from the line = 4, so 5 must fail
	// and leave both the line and the stock untouched.
	_, err = svc.UpdateSaleLine(managerActor(), sale.ID, sale.Lines[0].ID, 5)
	require.ErrorIs(t, err, ErrInsufficientStock)

	reloaded, err := svc.GetSale(sale.ID)
	require.NoError(t, err)
	require.Equal(t, 3, reloaded.Lines[0].Quantity)
	require.Equal(t, 1, reloadProduct(t, db, product.ID).Stock)
}

func TestUpdateSaleLineForbiddenForVendors(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Locked", "10.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateSaleLine(vendorActor(), sale.ID, sale.Lines[0].ID, 2)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteSaleLineRestoresStockAndRecomputesTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	mug := createProduct(t, db, "MugToDrop", "20.00", 10)
	shirt := createProduct(t, db, "ShirtToKeep", "15.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{
			{ProductID: mug.ID, Quantity: 2},
			{ProductID: shirt.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	var mugLine model.SaleLine
	require.NoError(t, db.First(&mugLine, "sale_id = ? AND product_id = ?", sale.ID, mug.ID).Error)

	updated, err := svc.DeleteSaleLine(adminActor(), sale.ID, mugLine.ID)
	require.NoError(t, err)

	require.Len(t, updated.Lines, 1)
	require.True(t, updated.Total.Decimal.Equal(decimal.RequireFromString("15.00")))
	require.Equal(t, 10, reloadProduct(t, db, mug.ID).Stock)
	require.Equal(t, 9, reloadProduct(t, db, shirt.ID).Stock)
}

func TestDeleteLastSaleLineUnsetsTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "OnlyLine", "30.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	updated, err := svc.DeleteSaleLine(adminActor(), sale.ID, sale.Lines[0].ID)
	require.NoError(t, err)

	require.Empty(t, updated.Lines)
	require.False(t, updated.Total.Valid)
	require.Equal(t, 10, reloadProduct(t, db, product.ID).Stock)
}

func TestDeleteSaleRestoresAllLineStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	first := createProduct(t, db, "FirstLine", "10.00", 10)
	second := createProduct(t, db, "SecondLine", "10.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{
			{ProductID: first.ID, Quantity: 4},
			{ProductID: second.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSale(adminActor(), sale.ID))

	require.Equal(t, 10, reloadProduct(t, db, first.ID).Stock)
	require.Equal(t, 10, reloadProduct(t, db, second.ID).Stock)

	_, err = svc.GetSale(sale.ID)
	require.ErrorIs(t, err, ErrSaleNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&model.SaleLine{}).Where("sale_id = ?", sale.ID).Count(&lineCount).Error)
	require.Zero(t, lineCount)
}

func TestDeleteSaleForbiddenForManagers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "Protected", "10.00", 10)

	sale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		Lines: []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.DeleteSale(managerActor(), sale.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSalesForCustomerUserListsOnlyOwnSales(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "MineAndTheirs", "10.00", 50)

	account := model.User{Email: "buyer@test.local", Password: "x", FullName: "Buyer"}
	require.NoError(t, db.Create(&account).Error)

	mine := model.Customer{FirstName: "Buyer", LastName: "One", Email: "buyer@test.local", UserID: &account.ID}
	other := model.Customer{FirstName: "Other", LastName: "Two", Email: "other@test.local"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		CustomerID: &mine.ID,
		Lines:      []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		CustomerID: &other.ID,
		Lines:      []SaleLineRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	actor := model.Actor{ID: account.ID.String(), RoleCode: model.RoleCustomer}
	sales, err := svc.SalesForCustomerUser(actor)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, mine.ID, *sales[0].CustomerID)
}

func TestSaleForCustomerUserHidesOthersSales(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)
	product := createProduct(t, db, "PrivateSale", "10.00", 50)

	account := model.User{Email: "owner@test.local", Password: "x", FullName: "Owner"}
	require.NoError(t, db.Create(&account).Error)
	mine := model.Customer{FirstName: "Owner", LastName: "One", Email: "owner@test.local", UserID: &account.ID}
	other := model.Customer{FirstName: "Other", LastName: "Two", Email: "other2@test.local"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&other).Error)

	mySale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		CustomerID: &mine.ID,
		Lines:      []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	theirSale, err := svc.RegisterSale(vendorActor(), &RegisterSaleRequest{
		CustomerID: &other.ID,
		Lines:      []SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	actor := model.Actor{ID: account.ID.String(), RoleCode: model.RoleCustomer}

	sale, err := svc.SaleForCustomerUser(actor, mySale.ID)
	require.NoError(t, err)
	require.Equal(t, mySale.ID, sale.ID)

	_, err = svc.SaleForCustomerUser(actor, theirSale.ID)
	require.ErrorIs(t, err, ErrSaleNotFound)
}

func TestSalesForCustomerUserForbiddenForEmployees(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSaleService(db)

	_, err := svc.SalesForCustomerUser(vendorActor())
	require.True(t, errors.Is(err, ErrForbidden))
}
