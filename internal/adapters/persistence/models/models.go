package models

import (
	"time"

	"freshpress-pos/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Customers
// ============================================================

// Customer represents the customers table
type Customer struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	StoreID     uint           `gorm:"index;not null" json:"store_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Phone       string         `gorm:"size:20;index" json:"phone"`
	Points      int            `gorm:"default:0" json:"points"`
	PayPassword string         `gorm:"size:255" json:"-"`
	Remark      string         `gorm:"type:text" json:"remark"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// ============================================================
// Orders & Garments
// ============================================================

// Order represents the orders table
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	StoreID       uint       `gorm:"index;not null" json:"store_id"`
	CustomerID    uint       `gorm:"index;not null" json:"customer_id"`
	OrderNo       string     `gorm:"size:30;uniqueIndex;not null" json:"order_no"`
	DesiredDate   *time.Time `json:"desired_date"`
	PickupCode    *string    `gorm:"size:6;uniqueIndex" json:"pickup_code"`
	Status        string     `gorm:"size:20;not null;default:'PROCESSING';index" json:"status"`
	PaymentStatus string     `gorm:"size:20;not null;default:'UNPAID'" json:"payment_status"`
	AlarmLevel    string     `gorm:"size:20;not null;default:'NORMAL'" json:"alarm_level"`
	Remark        string     `gorm:"type:text" json:"remark"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Garments   []Garment       `gorm:"foreignKey:OrderID" json:"garments,omitempty"`
	Adjustment *Adjustment     `gorm:"foreignKey:OrderID" json:"adjustment,omitempty"`
	Payment    *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	PriceTags  []OrderPriceTag `gorm:"foreignKey:OrderID" json:"price_tags,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Garment represents a single clothing item on an order
type Garment struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	StoreID            uint            `gorm:"index;not null" json:"store_id"`
	OrderID            *uint           `gorm:"index" json:"order_id"`
	ItemID             uint            `gorm:"not null" json:"item_id"`
	CategoryCode       string          `gorm:"size:20" json:"category_code"`
	StyleCode          string          `gorm:"size:20" json:"style_code"`
	ColorID            *uint           `json:"color_id"`
	BrandID            *uint           `json:"brand_id"`
	FlawID             *uint           `json:"flaw_id"`
	EstimateID         *uint           `json:"estimate_id"`
	ServiceType        string          `gorm:"size:20;not null" json:"service_type"`
	ServiceRequirement string          `gorm:"size:20;not null;default:'NORMAL'" json:"service_requirement"`
	Pictures           string          `gorm:"type:text" json:"pictures"`
	ProcessSurcharge   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"process_surcharge"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	RackID             *uint           `gorm:"index" json:"rack_id"`
	SlotNo             *int            `json:"slot_no"`
	HangCode           string          `gorm:"size:30;uniqueIndex;not null" json:"hang_code"`
	Status             string          `gorm:"size:24;not null;default:'PROCESSING';index" json:"status"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Garment) TableName() string {
	return "garments"
}

// IsTerminal reports whether the garment no longer occupies its rack slot.
func (g *Garment) IsTerminal() bool {
	return domain.GarmentStatus(g.Status).IsTerminal()
}

// Adjustment is the zero-or-one manual price correction on an order
type Adjustment struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	StoreID   uint                `gorm:"index;not null" json:"store_id"`
	OrderID   uint                `gorm:"uniqueIndex;not null" json:"order_id"`
	AddAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"add_amount"`
	SubAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"sub_amount"`
	Override  decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"override"`
	Remark    string              `gorm:"type:text" json:"remark"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Adjustment) TableName() string {
	return "adjustments"
}

// PriceTag is a reusable cloth price rule: either an absolute replacement
// value or a percentage discount off the running price.
type PriceTag struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	StoreID   uint                `gorm:"index;not null" json:"store_id"`
	Name      string              `gorm:"size:100;not null" json:"name"`
	Value     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"value"`
	Discount  decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"discount"`
	IsActive  bool                `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PriceTag) TableName() string {
	return "price_tags"
}

// OrderPriceTag attaches a price tag to an order; Seq preserves
// attachment order, which is the application order for the rules.
type OrderPriceTag struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	PriceTagID uint      `gorm:"not null" json:"price_tag_id"`
	Seq        int       `gorm:"not null" json:"seq"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	PriceTag *PriceTag `gorm:"foreignKey:PriceTagID" json:"price_tag,omitempty"`
}

func (OrderPriceTag) TableName() string {
	return "order_price_tags"
}

// ============================================================
// Racks
// ============================================================

// Rack represents a physical drying frame with numbered hanger slots
type Rack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreID   uint      `gorm:"index;not null" json:"store_id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Type      string    `gorm:"size:20;not null;index" json:"type"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Remaining int       `gorm:"not null" json:"remaining"`
	Cursor    int       `gorm:"not null;default:1" json:"cursor"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Rack) TableName() string {
	return "racks"
}

// ============================================================
// Payments
// ============================================================

// Payment is the zero-or-one settlement record of an order. It owns its
// method details and coupon usages; those rows have no independent
// lifecycle.
type Payment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	StoreID      uint            `gorm:"index;not null" json:"store_id"`
	OrderID      uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Method       string          `gorm:"size:40;not null" json:"method"`
	Status       string          `gorm:"size:20;not null;default:'UNPAID'" json:"status"`
	RefundReason string          `gorm:"type:text" json:"refund_reason"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Details []PaymentMethodDetail `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Usages  []CouponUsage         `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"usages,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentMethodDetail is one row of "this much money was charged via
// this vehicle".
type PaymentMethodDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	PaymentID uint            `gorm:"index;not null" json:"payment_id"`
	Method    string          `gorm:"size:40;not null" json:"method"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentMethodDetail) TableName() string {
	return "payment_method_details"
}

// CouponUsage is one row of "this user coupon contributed Amount to this
// payment". ValueConsumed is what was actually taken from the coupon's
// available value (money, punches, or one use) and is what a refund adds
// back.
type CouponUsage struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	PaymentID     uint            `gorm:"index;not null" json:"payment_id"`
	UserCouponID  uint            `gorm:"index;not null" json:"user_coupon_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ValueConsumed decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value_consumed"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (CouponUsage) TableName() string {
	return "coupon_usages"
}

// ============================================================
// Coupons
// ============================================================

// Coupon is a card/voucher template
type Coupon struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	StoreID        uint                `gorm:"index;not null" json:"store_id"`
	Name           string              `gorm:"size:100;not null" json:"name"`
	Type           string              `gorm:"size:30;not null" json:"type"`
	FaceValue      decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"face_value"`
	UsageValue     decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"usage_value"`
	UsageLimit     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"usage_limit"`
	MinSpend       decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"min_spend"`
	ValidFrom      *time.Time          `json:"valid_from"`
	ValidTo        *time.Time          `json:"valid_to"`
	PurchaseCap    int                 `gorm:"default:0" json:"purchase_cap"`
	UsageCap       int                 `gorm:"default:0" json:"usage_cap"`
	CategoryFilter string              `gorm:"size:200" json:"category_filter"`
	StyleFilter    string              `gorm:"size:200" json:"style_filter"`
	ItemFilter     string              `gorm:"size:200" json:"item_filter"`
	IsActive       bool                `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// InWindow reports whether the template's validity window includes now.
func (cp *Coupon) InWindow(now time.Time) bool {
	if cp.ValidFrom != nil && now.Before(*cp.ValidFrom) {
		return false
	}
	if cp.ValidTo != nil && now.After(*cp.ValidTo) {
		return false
	}
	return true
}

// UserCoupon is a held card instance. AvailableValue is money for
// stored-value and discount cards, punches for session cards, and
// remaining uses for single-use vouchers.
type UserCoupon struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	StoreID        uint            `gorm:"index;not null" json:"store_id"`
	CustomerID     uint            `gorm:"index;not null" json:"customer_id"`
	CouponID       uint            `gorm:"not null" json:"coupon_id"`
	ObtainedAt     time.Time       `gorm:"not null" json:"obtained_at"`
	AvailableValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"available_value"`
	UsageCount     int             `gorm:"default:0" json:"usage_count"`
	Status         string          `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Coupon *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}

func (UserCoupon) TableName() string {
	return "user_coupons"
}

// ============================================================
// Notices & Config
// ============================================================

// NoticeRecord logs every SMS gateway call, success or failure
type NoticeRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreID   uint      `gorm:"index;not null" json:"store_id"`
	OrderID   *uint     `gorm:"index" json:"order_id"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Channel   string    `gorm:"size:10;not null;default:'sms'" json:"channel"`
	Result    string    `gorm:"size:10;not null" json:"result"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NoticeRecord) TableName() string {
	return "notice_records"
}

// SysConfig is a per-store key/value configuration row
type SysConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StoreID     uint      `gorm:"uniqueIndex:idx_store_key;not null" json:"store_id"`
	ConfigKey   string    `gorm:"size:100;uniqueIndex:idx_store_key;not null" json:"config_key"`
	ConfigValue string    `gorm:"size:255" json:"config_value"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SysConfig) TableName() string {
	return "sys_configs"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Order{},
		&Garment{},
		&Adjustment{},
		&PriceTag{},
		&OrderPriceTag{},
		&Rack{},
		&Payment{},
		&PaymentMethodDetail{},
		&CouponUsage{},
		&Coupon{},
		&UserCoupon{},
		&NoticeRecord{},
		&SysConfig{},
	)
}
