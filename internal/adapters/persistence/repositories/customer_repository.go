package repositories

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// CustomerRepository handles customer database operations
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer row
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID returns a customer by id within a store
func (r *CustomerRepository) GetByID(ctx context.Context, storeID, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&customer, id).Error
	return &customer, err
}

// Save persists customer mutations
func (r *CustomerRepository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// AddPoints adjusts the loyalty point balance by delta (may be negative)
func (r *CustomerRepository) AddPoints(ctx context.Context, customerID uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("points", gorm.Expr("points + ?", delta)).Error
}

// List returns customers for a store, optionally filtered by phone/name
func (r *CustomerRepository) List(ctx context.Context, storeID uint, query string, offset, limit int) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Customer{}).Where("store_id = ?", storeID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("phone LIKE ? OR name LIKE ?", like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&customers).Error
	return customers, total, err
}
