package service

import (
	"errors"
	"fmt"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrForbidden         = errors.New("operation not permitted for this role")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrLineNotFound      = errors.New("sale line not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrEmptySale         = errors.New("a sale needs at least one line")
	ErrDuplicateProduct  = errors.New("a product may appear only once per sale")
)

// RegisterSaleRequest is the input for SaleService.RegisterSale
type RegisterSaleRequest struct {
	CustomerID *uuid.UUID        `json:"customer_id"`
	Lines      []SaleLineRequest `json:"lines" validate:"dive"`
}

// SaleLineRequest is one requested product/quantity row
type SaleLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type SaleService interface {
	RegisterSale(actor model.Actor, req *RegisterSaleRequest) (*model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	GetAllSales() ([]model.Sale, error)
	SalesForCustomerUser(actor model.Actor) ([]model.Sale, error)
	SaleForCustomerUser(actor model.Actor, saleID uuid.UUID) (*model.Sale, error)
	UpdateSaleLine(actor model.Actor, saleID, lineID uuid.UUID, newQuantity int) (*model.Sale, error)
	DeleteSaleLine(actor model.Actor, saleID, lineID uuid.UUID) (*model.Sale, error)
	DeleteSale(actor model.Actor, saleID uuid.UUID) error
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewSaleService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, cRepo repository.CustomerRepository, db *gorm.DB, hub *ws.Hub) SaleService {
	return &saleService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
		db:           db,
		wsHub:        hub,
	}
}

// RegisterSale creates a Sale with its lines as one atomic unit of work:
// unit prices are snapshotted from the products at registration time,
// subtotals and the total are derived from them, and each product's
// stock is decremented with an atomic conditional update. Any failing
// line rolls back the whole sale.
func (s *saleService) RegisterSale(actor model.Actor, req *RegisterSaleRequest) (*model.Sale, error) {
	if !actor.CanRegisterSale() {
		return nil, ErrForbidden
	}

	if len(req.Lines) == 0 {
		return nil, ErrEmptySale
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	seen := map[uuid.UUID]bool{}
	for _, line := range req.Lines {
		if seen[line.ProductID] {
			return nil, ErrDuplicateProduct
		}
		seen[line.ProductID] = true
	}

	sale := &model.Sale{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.CustomerID != nil {
			var customer model.Customer
			if err := tx.First(&customer, "id = ?", *req.CustomerID).Error; err != nil {
				return ErrCustomerNotFound
			}
			sale.CustomerID = req.CustomerID
		}

		// Resolve products and snapshot current prices
		total := decimal.Zero
		lines := make([]model.SaleLine, 0, len(req.Lines))
		products := make([]model.Product, 0, len(req.Lines))
		for _, lr := range req.Lines {
			var product model.Product
			if err := tx.First(&product, "id = ?", lr.ProductID).Error; err != nil {
				return fmt.Errorf("%w: %s", ErrProductNotFound, lr.ProductID)
			}
			line := model.SaleLine{
				ProductID: product.ID,
				Quantity:  lr.Quantity,
				UnitPrice: product.UnitPrice,
			}
			line.Subtotal = line.ComputeSubtotal()
			total = total.Add(line.Subtotal)
			lines = append(lines, line)
			products = append(products, product)
		}

		sale.Total = decimal.NullDecimal{Decimal: total, Valid: true}
		if actorID, err := uuid.Parse(actor.ID); err == nil {
			sale.RegisteredByUserID = &actorID
		}
		sale.CreatedBy = actor.ID
		sale.UpdatedBy = actor.ID
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		// Stock check-and-decrement is a single conditional UPDATE per
		// product so concurrent sales can never over-draw inventory.
		for i := range lines {
			ok, err := s.productRepo.DecrementStock(tx, lines[i].ProductID, lines[i].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w for product %q", ErrInsufficientStock, products[i].Name)
			}
			lines[i].SaleID = sale.ID
			lines[i].CreatedBy = actor.ID
			lines[i].UpdatedBy = actor.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}

		sale.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("sale_registered", map[string]interface{}{
		"sale_id": sale.ID,
		"total":   sale.Total.Decimal,
		"user":    map[string]interface{}{"id": actor.ID, "name": actor.Name, "email": actor.Email},
	})

	return s.saleRepo.FindByID(sale.ID)
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func (s *saleService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

// SalesForCustomerUser lists the sales belonging to the customer linked
// to the acting user's account.
func (s *saleService) SalesForCustomerUser(actor model.Actor) ([]model.Sale, error) {
	if !actor.IsSuperuser && actor.RoleCode != model.RoleCustomer {
		return nil, ErrForbidden
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return s.saleRepo.FindByCustomer(customer.ID)
}

// SaleForCustomerUser returns one of the acting customer's own sales.
// A sale belonging to someone else reads as not found.
func (s *saleService) SaleForCustomerUser(actor model.Actor, saleID uuid.UUID) (*model.Sale, error) {
	if !actor.IsSuperuser && actor.RoleCode != model.RoleCustomer {
		return nil, ErrForbidden
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	if sale.CustomerID == nil || *sale.CustomerID != customer.ID {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

// UpdateSaleLine changes a line's quantity. The stock delta is applied
// through the restore-then-decrement rule, the subtotal is recomputed
// from the snapshot unit price, and the sale total is re-derived, all
// inside one transaction.
func (s *saleService) UpdateSaleLine(actor model.Actor, saleID, lineID uuid.UUID, newQuantity int) (*model.Sale, error) {
	if !actor.CanManageCatalog() {
		return nil, ErrForbidden
	}
	if newQuantity <= 0 {
		return nil, errors.New("quantity must be greater than zero")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var line model.SaleLine
		if err := tx.First(&line, "id = ? AND sale_id = ?", lineID, saleID).Error; err != nil {
			return ErrLineNotFound
		}

		oldQuantity := line.Quantity
		if err := s.adjustStockOnLineChange(tx, line.ProductID, &oldQuantity, &newQuantity); err != nil {
			return err
		}

		line.Quantity = newQuantity
		line.Subtotal = line.ComputeSubtotal()
		line.UpdatedBy = actor.ID
		if err := tx.Save(&line).Error; err != nil {
			return err
		}

		return s.recomputeSaleTotal(tx, saleID)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.FindByID(saleID)
}

// DeleteSaleLine removes one line, restoring its quantity to stock and
// re-deriving the sale total.
func (s *saleService) DeleteSaleLine(actor model.Actor, saleID, lineID uuid.UUID) (*model.Sale, error) {
	if !actor.CanDelete() {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var line model.SaleLine
		if err := tx.First(&line, "id = ? AND sale_id = ?", lineID, saleID).Error; err != nil {
			return ErrLineNotFound
		}

		oldQuantity := line.Quantity
		if err := s.adjustStockOnLineChange(tx, line.ProductID, &oldQuantity, nil); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&model.SaleLine{}, "id = ?", line.ID).Error; err != nil {
			return err
		}

		return s.recomputeSaleTotal(tx, saleID)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.FindByID(saleID)
}

// DeleteSale removes a sale and its lines. Every line's quantity is
// returned to stock before removal; the cascade follows the same
// restore rule as deleting a line individually.
func (s *saleService) DeleteSale(actor model.Actor, saleID uuid.UUID) error {
	if !actor.CanDelete() {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.Preload("Lines").First(&sale, "id = ?", saleID).Error; err != nil {
			return ErrSaleNotFound
		}

		for _, line := range sale.Lines {
			oldQuantity := line.Quantity
			if err := s.adjustStockOnLineChange(tx, line.ProductID, &oldQuantity, nil); err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Delete(&model.SaleLine{}, "sale_id = ?", sale.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Sale{}, "id = ?", sale.ID).Error
	})
}

// adjustStockOnLineChange applies the stock-keeping rule for any line
// mutation: restore the old quantity (when the line existed), then
// subtract the new one (when the line still exists). A nil old quantity
// is a pure creation; a nil new quantity is a pure deletion.
func (s *saleService) adjustStockOnLineChange(tx *gorm.DB, productID uuid.UUID, oldQuantity, newQuantity *int) error {
	if oldQuantity != nil {
		if err := s.productRepo.RestoreStock(tx, productID, *oldQuantity); err != nil {
			return err
		}
	}
	if newQuantity != nil {
		ok, err := s.productRepo.DecrementStock(tx, productID, *newQuantity)
		if err != nil {
			return err
		}
		if !ok {
			var product model.Product
			name := productID.String()
			if err := tx.First(&product, "id = ?", productID).Error; err == nil {
				name = product.Name
			}
			return fmt.Errorf("%w for product %q", ErrInsufficientStock, name)
		}
	}
	return nil
}

// recomputeSaleTotal re-derives the sale total from its current lines.
// A sale with no lines stores an unset total.
func (s *saleService) recomputeSaleTotal(tx *gorm.DB, saleID uuid.UUID) error {
	var lines []model.SaleLine
	if err := tx.Where("sale_id = ?", saleID).Find(&lines).Error; err != nil {
		return err
	}

	total := decimal.NullDecimal{}
	if len(lines) > 0 {
		sum := decimal.Zero
		for _, line := range lines {
			sum = sum.Add(line.Subtotal)
		}
		total = decimal.NullDecimal{Decimal: sum, Valid: true}
	}

	return tx.Model(&model.Sale{}).Where("id = ?", saleID).Update("total", total).Error
}

func (s *saleService) publish(event string, payload map[string]interface{}) {
	if s.wsHub != nil {
		s.wsHub.Publish(event, payload)
	}
}
