package repositories

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// NoticeRepository handles notice record database operations
type NoticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new notice repository
func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create inserts a notice record row
func (r *NoticeRepository) Create(ctx context.Context, rec *models.NoticeRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListByOrder returns notice records for an order, newest first
func (r *NoticeRepository) ListByOrder(ctx context.Context, storeID, orderID uint) ([]models.NoticeRecord, error) {
	var records []models.NoticeRecord
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND order_id = ?", storeID, orderID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
