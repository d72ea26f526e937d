package repositories

import (
	"context"

	"freshpress-pos/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponRepository handles coupon templates and held card instances
type CouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// ============================================================
// Templates
// ============================================================

// CreateTemplate inserts a coupon template
func (r *CouponRepository) CreateTemplate(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// GetTemplate returns a coupon template by id within a store
func (r *CouponRepository) GetTemplate(ctx context.Context, storeID, id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&coupon, id).Error
	return &coupon, err
}

// ListTemplates returns active coupon templates for a store
func (r *CouponRepository) ListTemplates(ctx context.Context, storeID uint) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("id ASC").
		Find(&coupons).Error
	return coupons, err
}

// ============================================================
// Held instances
// ============================================================

// CreateUserCoupon inserts a held card instance
func (r *CouponRepository) CreateUserCoupon(ctx context.Context, uc *models.UserCoupon) error {
	return r.db.WithContext(ctx).Create(uc).Error
}

// GetUserCoupon returns a single held instance with its template
func (r *CouponRepository) GetUserCoupon(ctx context.Context, storeID, id uint) (*models.UserCoupon, error) {
	var uc models.UserCoupon
	err := r.db.WithContext(ctx).
		Preload("Coupon").
		Where("store_id = ?", storeID).
		First(&uc, id).Error
	return &uc, err
}

// GetUserCouponsForUpdate loads the selected instances with their
// templates and locks the rows for the enclosing settlement transaction.
// The result preserves the requested order.
func (r *CouponRepository) GetUserCouponsForUpdate(ctx context.Context, storeID uint, ids []uint) ([]*models.UserCoupon, error) {
	var rows []*models.UserCoupon
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Coupon").
		Where("store_id = ? AND id IN ?", storeID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.UserCoupon, len(rows))
	for _, uc := range rows {
		byID[uc.ID] = uc
	}
	ordered := make([]*models.UserCoupon, 0, len(ids))
	for _, id := range ids {
		if uc, ok := byID[id]; ok {
			ordered = append(ordered, uc)
		}
	}
	return ordered, nil
}

// SaveUserCoupon persists instance mutations
func (r *CouponRepository) SaveUserCoupon(ctx context.Context, uc *models.UserCoupon) error {
	return r.db.WithContext(ctx).Save(uc).Error
}

// ListByCustomer returns a customer's held instances with templates
func (r *CouponRepository) ListByCustomer(ctx context.Context, storeID, customerID uint) ([]models.UserCoupon, error) {
	var rows []models.UserCoupon
	err := r.db.WithContext(ctx).
		Preload("Coupon").
		Where("store_id = ? AND customer_id = ?", storeID, customerID).
		Order("obtained_at DESC").
		Find(&rows).Error
	return rows, err
}

// CountByCustomerAndTemplate counts instances a customer already holds of
// one template, for the per-customer purchase cap.
func (r *CouponRepository) CountByCustomerAndTemplate(ctx context.Context, storeID, customerID, couponID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserCoupon{}).
		Where("store_id = ? AND customer_id = ? AND coupon_id = ?", storeID, customerID, couponID).
		Count(&count).Error
	return count, err
}
