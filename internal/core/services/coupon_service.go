package services

import (
	"context"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrCouponNotFound = domain.E(domain.KindNotFound, "coupon template not found")

// CouponService manages coupon templates and the cards customers hold
type CouponService struct {
	db *gorm.DB
}

// NewCouponService creates a new coupon service
func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// TemplateInput defines a coupon template
type TemplateInput struct {
	Name           string           `json:"name" validate:"required"`
	Type           string           `json:"type" validate:"required"`
	FaceValue      decimal.Decimal  `json:"face_value"`
	UsageValue     decimal.Decimal  `json:"usage_value"`
	UsageLimit     *decimal.Decimal `json:"usage_limit"`
	MinSpend       decimal.Decimal  `json:"min_spend"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidTo        *time.Time       `json:"valid_to"`
	PurchaseCap    int              `json:"purchase_cap"`
	UsageCap       int              `json:"usage_cap"`
	CategoryFilter string           `json:"category_filter"`
	StyleFilter    string           `json:"style_filter"`
	ItemFilter     string           `json:"item_filter"`
}

// CreateTemplate registers a coupon template.
func (s *CouponService) CreateTemplate(ctx context.Context, storeID uint, input TemplateInput) (*models.Coupon, error) {
	switch domain.CouponType(input.Type) {
	case domain.CouponStoredValueCard, domain.CouponDiscountCard, domain.CouponSpendAndSave,
		domain.CouponDiscountCoupon, domain.CouponSessionCard:
	default:
		return nil, domain.E(domain.KindBadRequest, "unknown coupon type %q", input.Type)
	}

	coupon := &models.Coupon{
		StoreID:        storeID,
		Name:           input.Name,
		Type:           input.Type,
		FaceValue:      input.FaceValue,
		UsageValue:     input.UsageValue,
		MinSpend:       input.MinSpend,
		ValidFrom:      input.ValidFrom,
		ValidTo:        input.ValidTo,
		PurchaseCap:    input.PurchaseCap,
		UsageCap:       input.UsageCap,
		CategoryFilter: input.CategoryFilter,
		StyleFilter:    input.StyleFilter,
		ItemFilter:     input.ItemFilter,
		IsActive:       true,
	}
	if input.UsageLimit != nil {
		coupon.UsageLimit = decimal.NewNullDecimal(*input.UsageLimit)
	}
	if err := repositories.NewCouponRepository(s.db).CreateTemplate(ctx, coupon); err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "create coupon template")
	}
	return coupon, nil
}

// ListTemplates returns the store's active templates.
func (s *CouponService) ListTemplates(ctx context.Context, storeID uint) ([]models.Coupon, error) {
	coupons, err := repositories.NewCouponRepository(s.db).ListTemplates(ctx, storeID)
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "list coupon templates")
	}
	return coupons, nil
}

// Grant hands a customer a card instance of a template. Gifting and
// purchase share the same path; purchase additionally enforces the
// per-customer cap.
func (s *CouponService) Grant(ctx context.Context, storeID, customerID, couponID uint, purchased bool) (*models.UserCoupon, error) {
	var uc *models.UserCoupon
	err := s.db.Transaction(func(tx *gorm.DB) error {
		coupons := repositories.NewCouponRepository(tx)
		customers := repositories.NewCustomerRepository(tx)

		if _, err := customers.GetByID(ctx, storeID, customerID); err == gorm.ErrRecordNotFound {
			return ErrCustomerNotFound
		} else if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load customer")
		}

		tpl, err := coupons.GetTemplate(ctx, storeID, couponID)
		if err == gorm.ErrRecordNotFound {
			return ErrCouponNotFound
		}
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load coupon template")
		}
		if !tpl.IsActive {
			return domain.E(domain.KindBadRequest, "coupon %q is disabled", tpl.Name)
		}
		if !tpl.InWindow(time.Now()) {
			return domain.E(domain.KindBadRequest, "coupon %q is outside its validity window", tpl.Name)
		}

		if purchased && tpl.PurchaseCap > 0 {
			held, err := coupons.CountByCustomerAndTemplate(ctx, storeID, customerID, couponID)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "count held coupons")
			}
			if held >= int64(tpl.PurchaseCap) {
				return domain.E(domain.KindBadRequest,
					"customer already holds the maximum %d of %q", tpl.PurchaseCap, tpl.Name)
			}
		}

		uc = &models.UserCoupon{
			StoreID:        storeID,
			CustomerID:     customerID,
			CouponID:       tpl.ID,
			ObtainedAt:     time.Now(),
			AvailableValue: initialValue(tpl),
			Status:         string(domain.UserCouponActive),
		}
		if err := coupons.CreateUserCoupon(ctx, uc); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "create user coupon")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc, nil
}

// initialValue is what a fresh card instance starts with: money for
// balance cards, punches for session cards, uses for vouchers.
func initialValue(tpl *models.Coupon) decimal.Decimal {
	switch domain.CouponType(tpl.Type) {
	case domain.CouponStoredValueCard, domain.CouponDiscountCard, domain.CouponSessionCard:
		return tpl.FaceValue
	}
	if tpl.UsageCap > 0 {
		return decimal.NewFromInt(int64(tpl.UsageCap))
	}
	return decOne
}

// ListByCustomer returns the cards a customer holds. Cards whose
// template window has closed read as expired without touching the
// stored status.
func (s *CouponService) ListByCustomer(ctx context.Context, storeID, customerID uint) ([]models.UserCoupon, error) {
	rows, err := repositories.NewCouponRepository(s.db).ListByCustomer(ctx, storeID, customerID)
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "list user coupons")
	}
	now := time.Now()
	for i := range rows {
		uc := &rows[i]
		if uc.Status == string(domain.UserCouponActive) && uc.Coupon != nil && !uc.Coupon.InWindow(now) {
			uc.Status = string(domain.UserCouponExpired)
		}
	}
	return rows, nil
}
