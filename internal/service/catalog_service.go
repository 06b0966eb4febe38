package service

import (
	"errors"
	"fmt"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSupplierNotFound     = errors.New("supplier not found")
	ErrDuplicateCategory    = errors.New("a category with that name already exists")
	ErrDuplicateSupplier    = errors.New("a supplier with that company name already exists")
	ErrDuplicateProductName = errors.New("a product with that name already exists")
)

// CatalogService covers the product, category and supplier screens.
// Writes require the manager or administrator role; deletion requires
// administrator.
type CatalogService interface {
	CreateCategory(actor model.Actor, req *model.Category) error
	UpdateCategory(actor model.Actor, id uuid.UUID, req *model.Category) (*model.Category, error)
	DeleteCategory(actor model.Actor, id uuid.UUID) error
	GetAllCategories() ([]model.Category, error)

	CreateSupplier(actor model.Actor, req *model.Supplier) error
	UpdateSupplier(actor model.Actor, id uuid.UUID, req *model.Supplier) (*model.Supplier, error)
	DeleteSupplier(actor model.Actor, id uuid.UUID) error
	GetAllSuppliers() ([]model.Supplier, error)

	CreateProduct(actor model.Actor, req *model.Product, supplierIDs []uuid.UUID) error
	UpdateProduct(actor model.Actor, id uuid.UUID, req *model.Product, supplierIDs []uuid.UUID) (*model.Product, error)
	DeleteProduct(actor model.Actor, id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	wsHub        *ws.Hub
}

func NewCatalogService(catRepo repository.CategoryRepository, supRepo repository.SupplierRepository, pRepo repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		categoryRepo: catRepo,
		supplierRepo: supRepo,
		productRepo:  pRepo,
		wsHub:        hub,
	}
}

func validateStruct(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	return nil
}

// ---------- Categories ----------

func (s *catalogService) CreateCategory(actor model.Actor, req *model.Category) error {
	if !actor.CanManageCatalog() {
		return ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	existing, _ := s.categoryRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateCategory
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(actor model.Actor, id uuid.UUID, req *model.Category) (*model.Category, error) {
	if !actor.CanManageCatalog() {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	existing.Name = req.Name
	existing.Description = req.Description
	existing.UpdatedBy = actor.ID
	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteCategory(actor model.Actor, id uuid.UUID) error {
	if !actor.CanDelete() {
		return ErrForbidden
	}
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}
	return s.categoryRepo.Delete(id)
}

func (s *catalogService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

// ---------- Suppliers ----------

func (s *catalogService) CreateSupplier(actor model.Actor, req *model.Supplier) error {
	if !actor.CanManageCatalog() {
		return ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	existing, _ := s.supplierRepo.FindByCompanyName(req.CompanyName)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateSupplier
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return s.supplierRepo.Create(req)
}

func (s *catalogService) UpdateSupplier(actor model.Actor, id uuid.UUID, req *model.Supplier) (*model.Supplier, error) {
	if !actor.CanManageCatalog() {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	existing.Name = req.Name
	existing.CompanyName = req.CompanyName
	existing.PhoneNumber = req.PhoneNumber
	existing.Email = req.Email
	existing.Address = req.Address
	existing.UpdatedBy = actor.ID
	if err := s.supplierRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteSupplier(actor model.Actor, id uuid.UUID) error {
	if !actor.CanDelete() {
		return ErrForbidden
	}
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		return ErrSupplierNotFound
	}
	return s.supplierRepo.Delete(id)
}

func (s *catalogService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

// ---------- Products ----------

func (s *catalogService) CreateProduct(actor model.Actor, req *model.Product, supplierIDs []uuid.UUID) error {
	if !actor.CanManageCatalog() {
		return ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return ErrCategoryNotFound
	}
	existing, _ := s.productRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateProductName
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if actorID, err := uuid.Parse(actor.ID); err == nil {
		req.CreatedByUserID = &actorID
	}
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	if len(supplierIDs) > 0 {
		suppliers, err := s.supplierRepo.FindByIDs(supplierIDs)
		if err != nil {
			return err
		}
		if err := s.productRepo.ReplaceSuppliers(req, suppliers); err != nil {
			return err
		}
	}

	s.publish("product_created", map[string]interface{}{
		"product": map[string]interface{}{
			"id":    req.ID,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.UnitPrice,
		},
		"user": map[string]interface{}{"id": actor.ID, "name": actor.Name},
	})

	return nil
}

func (s *catalogService) UpdateProduct(actor model.Actor, id uuid.UUID, req *model.Product, supplierIDs []uuid.UUID) (*model.Product, error) {
	if !actor.CanManageCatalog() {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	oldStock := existing.Stock
	existing.Name = req.Name
	existing.Description = req.Description
	existing.UnitPrice = req.UnitPrice
	existing.Stock = req.Stock
	existing.IsActive = req.IsActive
	existing.CategoryID = req.CategoryID
	existing.UpdatedBy = actor.ID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	if supplierIDs != nil {
		suppliers, err := s.supplierRepo.FindByIDs(supplierIDs)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceSuppliers(existing, suppliers); err != nil {
			return nil, err
		}
	}

	s.publish("product_updated", map[string]interface{}{
		"product": map[string]interface{}{
			"id":        existing.ID,
			"name":      existing.Name,
			"old_stock": oldStock,
			"new_stock": existing.Stock,
			"price":     existing.UnitPrice,
		},
		"user": map[string]interface{}{"id": actor.ID, "name": actor.Name},
	})

	return existing, nil
}

func (s *catalogService) DeleteProduct(actor model.Actor, id uuid.UUID) error {
	if !actor.CanDelete() {
		return ErrForbidden
	}
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) publish(event string, payload map[string]interface{}) {
	if s.wsHub != nil {
		s.wsHub.Publish(event, payload)
	}
}
