package repositories

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PaymentRepository handles payment database operations. Method details
// and coupon usages are owned rows and travel with their payment.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment together with its details and usages
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByOrderID returns the payment of an order with its owned rows
func (r *PaymentRepository) GetByOrderID(ctx context.Context, storeID, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Usages").
		Where("store_id = ? AND order_id = ?", storeID, orderID).
		First(&payment).Error
	return &payment, err
}

// Save persists payment mutations
func (r *PaymentRepository) Save(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// UpdateStatus applies a partial update to a payment row
func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(updates).Error
}
