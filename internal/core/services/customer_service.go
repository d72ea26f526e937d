package services

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"
	"freshpress-pos/internal/pkg/pagination"
	"freshpress-pos/internal/pkg/password"

	"gorm.io/gorm"
)

// CustomerService manages the store's customer book
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a new customer service
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// CustomerInput carries a new or updated customer profile
type CustomerInput struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone"`
	Remark string `json:"remark"`
}

// Create registers a customer.
func (s *CustomerService) Create(ctx context.Context, storeID uint, input CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		StoreID: storeID,
		Name:    input.Name,
		Phone:   input.Phone,
		Remark:  input.Remark,
	}
	if err := repositories.NewCustomerRepository(s.db).Create(ctx, customer); err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "create customer")
	}
	return customer, nil
}

// Get returns a customer by id.
func (s *CustomerService) Get(ctx context.Context, storeID, id uint) (*models.Customer, error) {
	customer, err := repositories.NewCustomerRepository(s.db).GetByID(ctx, storeID, id)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "load customer")
	}
	return customer, nil
}

// Update edits a customer's profile.
func (s *CustomerService) Update(ctx context.Context, storeID, id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Remark = input.Remark
	if err := repositories.NewCustomerRepository(s.db).Save(ctx, customer); err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "save customer")
	}
	return customer, nil
}

// SetPayPassword sets or replaces the card payment password.
func (s *CustomerService) SetPayPassword(ctx context.Context, storeID, id uint, pin string) error {
	if !password.ValidatePIN(pin) {
		return domain.E(domain.KindBadRequest, "payment password must be 6-20 letters or digits")
	}
	customer, err := s.Get(ctx, storeID, id)
	if err != nil {
		return err
	}
	hash, err := password.Hash(pin)
	if err != nil {
		return domain.WrapErr(domain.KindInternalServer, err, "hash payment password")
	}
	customer.PayPassword = hash
	if err := repositories.NewCustomerRepository(s.db).Save(ctx, customer); err != nil {
		return domain.WrapErr(domain.KindDbError, err, "save customer")
	}
	return nil
}

// List returns a page of customers, optionally filtered by phone or name.
func (s *CustomerService) List(ctx context.Context, storeID uint, query string, params *pagination.Params) ([]models.Customer, int64, error) {
	customers, total, err := repositories.NewCustomerRepository(s.db).
		List(ctx, storeID, query, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindDbError, err, "list customers")
	}
	return customers, total, nil
}
