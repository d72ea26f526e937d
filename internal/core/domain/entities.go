package domain

import (
	"strings"
	"time"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderProcessing     OrderStatus = "PROCESSING"
	OrderReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderCompleted      OrderStatus = "COMPLETED"
	OrderCancelled      OrderStatus = "CANCELLED"
	OrderRefunded       OrderStatus = "REFUNDED"
)

// PaymentStatus represents the payment state of an order or payment row
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// AlarmLevel flags orders approaching or past their desired completion date
type AlarmLevel string

const (
	AlarmNormal         AlarmLevel = "NORMAL"
	AlarmWarning        AlarmLevel = "WARNING"
	AlarmOverdue        AlarmLevel = "OVERDUE"
	AlarmOverduePending AlarmLevel = "OVERDUE_PENDING"
)

// GarmentStatus represents the lifecycle state of a single garment
type GarmentStatus string

const (
	GarmentProcessing        GarmentStatus = "PROCESSING"
	GarmentReadyForPickup    GarmentStatus = "READY_FOR_PICKUP"
	GarmentPickedUp          GarmentStatus = "PICKED_UP"
	GarmentRefunded          GarmentStatus = "REFUNDED"
	GarmentDelivering        GarmentStatus = "DELIVERING"
	GarmentDelivered         GarmentStatus = "DELIVERED"
	GarmentDeliveryCompleted GarmentStatus = "DELIVERY_COMPLETED"
)

// IsTerminal reports whether the garment no longer occupies a rack slot.
func (s GarmentStatus) IsTerminal() bool {
	switch s {
	case GarmentPickedUp, GarmentRefunded, GarmentDeliveryCompleted:
		return true
	}
	return false
}

// ServiceRequirement is the service-level multiplier tag on a garment
type ServiceRequirement string

const (
	RequirementNormal     ServiceRequirement = "NORMAL"
	RequirementEmergency  ServiceRequirement = "EMERGENCY"
	RequirementSingleWash ServiceRequirement = "SINGLE_WASH"
)

// CouponType distinguishes the payment vehicles a coupon template creates
type CouponType string

const (
	CouponStoredValueCard CouponType = "STORED_VALUE_CARD"
	CouponDiscountCard    CouponType = "DISCOUNT_CARD"
	CouponSpendAndSave    CouponType = "SPEND_AND_SAVE_CARD"
	CouponDiscountCoupon  CouponType = "DISCOUNT_COUPON"
	CouponSessionCard     CouponType = "SESSION_CARD"
)

// UserCouponStatus is the state of a held card instance
type UserCouponStatus string

const (
	UserCouponActive   UserCouponStatus = "ACTIVE"
	UserCouponUsedUp   UserCouponStatus = "USED_UP"
	UserCouponDisabled UserCouponStatus = "DISABLED"
	// UserCouponExpired is derived at read time from the template window,
	// never stored.
	UserCouponExpired UserCouponStatus = "EXPIRED"
)

// PayMethod is the operator-chosen top-level payment method.
// Combined methods take the form <cash-like>And<card-type>.
type PayMethod string

const (
	MethodCash            PayMethod = "Cash"
	MethodAlipay          PayMethod = "Alipay"
	MethodWechatPay       PayMethod = "WechatPay"
	MethodMeituan         PayMethod = "Meituan"
	MethodDouyin          PayMethod = "Douyin"
	MethodOther           PayMethod = "Other"
	MethodStoredValueCard PayMethod = "StoredValueCard"
	MethodDiscountCard    PayMethod = "DiscountCard"
	MethodSessionCard     PayMethod = "SessionCard"
)

var cardMethodByType = map[string]CouponType{
	"StoredValueCard":  CouponStoredValueCard,
	"DiscountCard":     CouponDiscountCard,
	"SpendAndSaveCard": CouponSpendAndSave,
	"DiscountCoupon":   CouponDiscountCoupon,
	"SessionCard":      CouponSessionCard,
}

// Valid reports whether m belongs to the closed method taxonomy.
func (m PayMethod) Valid() bool {
	switch m {
	case MethodCash, MethodAlipay, MethodWechatPay, MethodMeituan, MethodDouyin,
		MethodOther, MethodStoredValueCard, MethodDiscountCard, MethodSessionCard:
		return true
	}
	cash, card, ok := splitCombined(string(m))
	if !ok {
		return false
	}
	_, cardOK := cardMethodByType[card]
	switch cash {
	case "Cash", "Alipay", "WechatPay":
		return cardOK
	}
	return false
}

// CashComponent returns the method charged for the residual left after all
// selected cards are consumed. ok is false for single-card methods, which
// have no residual vehicle.
func (m PayMethod) CashComponent() (PayMethod, bool) {
	switch m {
	case MethodCash, MethodAlipay, MethodWechatPay, MethodMeituan, MethodDouyin, MethodOther:
		return m, true
	case MethodStoredValueCard, MethodDiscountCard, MethodSessionCard:
		return "", false
	}
	if cash, _, ok := splitCombined(string(m)); ok {
		return PayMethod(cash), true
	}
	return "", false
}

// CardComponent returns the card coupon type named by a single-card or
// combined method.
func (m PayMethod) CardComponent() (CouponType, bool) {
	switch m {
	case MethodStoredValueCard:
		return CouponStoredValueCard, true
	case MethodDiscountCard:
		return CouponDiscountCard, true
	case MethodSessionCard:
		return CouponSessionCard, true
	}
	if _, card, ok := splitCombined(string(m)); ok {
		t, tOK := cardMethodByType[card]
		return t, tOK
	}
	return "", false
}

func splitCombined(m string) (cash, card string, ok bool) {
	i := strings.Index(m, "And")
	if i <= 0 || i+3 >= len(m) {
		return "", "", false
	}
	return m[:i], m[i+3:], true
}

// Token is the process-wide authenticated session with the central server.
// Owned by the session manager; mutated only by login, refresh and logout.
type Token struct {
	Access    string
	Refresh   string
	ExpiresAt int64 // second epoch
	Profile   StoreProfile
}

// StoreProfile is the snapshot of the logged-in store account.
type StoreProfile struct {
	StoreID   uint   `json:"store_id"`
	StoreName string `json:"store_name"`
	Account   string `json:"account"`
	Phone     string `json:"phone"`
}

// NoticeResult records the outcome of an SMS gateway call
const (
	NoticeOK   = "ok"
	NoticeFail = "fail"
)

// RemainingValidity returns how long until the token expires.
func (t *Token) RemainingValidity(now time.Time) time.Duration {
	return time.Unix(t.ExpiresAt, 0).Sub(now)
}
