package repositories

import (
	"context"
	"fmt"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"gorm.io/gorm"
)

// OrderRepository handles order and garment database operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ============================================================
// Orders
// ============================================================

// Create inserts an order row
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID returns an order with its garments, adjustment and price tags
func (r *OrderRepository) GetByID(ctx context.Context, storeID, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Garments").
		Preload("Adjustment").
		Preload("Customer").
		Preload("PriceTags", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_price_tags.seq ASC")
		}).
		Preload("PriceTags.PriceTag").
		Where("store_id = ?", storeID).
		First(&order, id).Error
	return &order, err
}

// GetByPickupCode returns a not-yet-completed order by its pickup code
func (r *OrderRepository) GetByPickupCode(ctx context.Context, storeID uint, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Garments").
		Preload("Customer").
		Where("store_id = ? AND pickup_code = ? AND status <> ?", storeID, code, string(domain.OrderCompleted)).
		First(&order).Error
	return &order, err
}

// List returns orders for a store, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, storeID uint, status string, offset, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("store_id = ?", storeID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// Save persists order mutations
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdateStatus applies a partial status update to an order
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// startOfDay is midnight in the timestamp's own location. The daily
// sequences reset at the store's local midnight, not UTC.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// NextOrderNo generates the next business code for a store:
// date prefix + per-store daily sequence.
func (r *OrderRepository) NextOrderNo(ctx context.Context, storeID uint, now time.Time) (string, error) {
	start := startOfDay(now)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("store_id = ? AND created_at >= ?", storeID, start).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", now.Format("20060102"), storeID, count+1), nil
}

// ListDueBefore returns unfinished orders whose desired completion date
// falls before the deadline, for the overdue alarm scan.
func (r *OrderRepository) ListDueBefore(ctx context.Context, deadline time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("desired_date IS NOT NULL AND desired_date <= ? AND status IN ?", deadline, []string{
			string(domain.OrderProcessing),
			string(domain.OrderReadyForPickup),
		}).
		Find(&orders).Error
	return orders, err
}

// ============================================================
// Garments
// ============================================================

// CreateGarment inserts a garment row
func (r *OrderRepository) CreateGarment(ctx context.Context, g *models.Garment) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// GetGarment returns a garment by id within a store
func (r *OrderRepository) GetGarment(ctx context.Context, storeID, id uint) (*models.Garment, error) {
	var g models.Garment
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&g, id).Error
	return &g, err
}

// GarmentsByOrder returns all garments attached to an order
func (r *OrderRepository) GarmentsByOrder(ctx context.Context, orderID uint) ([]models.Garment, error) {
	var garments []models.Garment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&garments).Error
	return garments, err
}

// SaveGarment persists garment mutations
func (r *OrderRepository) SaveGarment(ctx context.Context, g *models.Garment) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// UpdateGarmentStatus applies a partial update to all garments of an order
func (r *OrderRepository) UpdateGarmentStatus(ctx context.Context, orderID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Garment{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}

// NextHangSeq returns the next daily hang-code sequence for a store
func (r *OrderRepository) NextHangSeq(ctx context.Context, storeID uint, now time.Time) (int, error) {
	start := startOfDay(now)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Garment{}).
		Where("store_id = ? AND created_at >= ?", storeID, start).
		Count(&count).Error
	return int(count) + 1, err
}

// ============================================================
// Adjustments & price tags
// ============================================================

// UpsertAdjustment creates or replaces the order's single adjustment
func (r *OrderRepository) UpsertAdjustment(ctx context.Context, adj *models.Adjustment) error {
	var existing models.Adjustment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", adj.OrderID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(adj).Error
	}
	if err != nil {
		return err
	}
	adj.ID = existing.ID
	return r.db.WithContext(ctx).Save(adj).Error
}

// AttachPriceTag appends a price tag to an order behind the existing ones
func (r *OrderRepository) AttachPriceTag(ctx context.Context, orderID, priceTagID uint) error {
	var maxSeq int
	r.db.WithContext(ctx).Model(&models.OrderPriceTag{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq)

	rel := models.OrderPriceTag{
		OrderID:    orderID,
		PriceTagID: priceTagID,
		Seq:        maxSeq + 1,
	}
	return r.db.WithContext(ctx).Create(&rel).Error
}

// GetPriceTag returns a price tag rule by id within a store
func (r *OrderRepository) GetPriceTag(ctx context.Context, storeID, id uint) (*models.PriceTag, error) {
	var tag models.PriceTag
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&tag, id).Error
	return &tag, err
}
