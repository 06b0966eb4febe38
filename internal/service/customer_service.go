package service

import (
	"errors"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
)

var ErrDuplicateCustomerEmail = errors.New("a customer with that email already exists")

type CustomerService interface {
	CreateCustomer(actor model.Actor, req *model.Customer) error
	UpdateCustomer(actor model.Actor, id uuid.UUID, req *model.Customer) (*model.Customer, error)
	DeleteCustomer(actor model.Actor, id uuid.UUID) error
	GetAllCustomers() ([]model.Customer, error)
	GetCustomer(id uuid.UUID) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(actor model.Actor, req *model.Customer) error {
	if !actor.CanManageCatalog() {
		return ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	existing, _ := s.customerRepo.FindByEmail(req.Email)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateCustomerEmail
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return s.customerRepo.Create(req)
}

func (s *customerService) UpdateCustomer(actor model.Actor, id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	if !actor.CanManageCatalog() {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Email = req.Email
	existing.PhoneNumber = req.PhoneNumber
	existing.Address = req.Address
	existing.UserID = req.UserID
	existing.UpdatedBy = actor.ID
	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCustomer removes the customer record. Sales keep a NULL
// customer reference, so history survives the deletion.
func (s *customerService) DeleteCustomer(actor model.Actor, id uuid.UUID) error {
	if !actor.CanDelete() {
		return ErrForbidden
	}
	if _, err := s.customerRepo.FindByID(id); err != nil {
		return ErrCustomerNotFound
	}
	return s.customerRepo.Delete(id)
}

func (s *customerService) GetAllCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *customerService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}
