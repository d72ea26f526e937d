package services

import (
	"context"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/adapters/persistence/repositories"
	"freshpress-pos/internal/core/domain"
	"freshpress-pos/internal/pkg/password"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPaid     = domain.E(domain.KindBadRequest, "order is already settled")
	ErrAlreadyRefunded = domain.E(domain.KindBadRequest, "payment is already refunded")
	ErrNotPaid         = domain.E(domain.KindBadRequest, "order has no settled payment")
)

// PaymentService settles and refunds orders. The planner does the math;
// this service owns the transaction, the card mutations, the loyalty
// points and the central-server mirror.
type PaymentService struct {
	db     *gorm.DB
	remote MirrorClient
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, remote MirrorClient) *PaymentService {
	return &PaymentService{db: db, remote: remote}
}

// PayInput is a settlement request
type PayInput struct {
	Method        string       `json:"method" validate:"required"`
	UserCouponIDs []uint       `json:"user_coupon_ids"`
	SessionCounts map[uint]int `json:"session_counts"`
	PayPassword   string       `json:"pay_password"`
}

// Pay settles an order in one transaction: compute the total, plan the
// split, verify the card password, persist the payment with its detail
// and usage rows, debit the cards, award points, and mirror before
// commit. Settling a settled order fails.
func (s *PaymentService) Pay(ctx context.Context, storeID, orderID uint, input PayInput) (*models.Payment, error) {
	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		coupons := repositories.NewCouponRepository(tx)
		customers := repositories.NewCustomerRepository(tx)
		payments := repositories.NewPaymentRepository(tx)

		order, err := orders.GetByID(ctx, storeID, orderID)
		if err == gorm.ErrRecordNotFound {
			return ErrOrderNotFound
		}
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load order")
		}
		if domain.PaymentStatus(order.PaymentStatus) != domain.PaymentUnpaid {
			return ErrAlreadyPaid
		}

		total, err := ComputeOrderTotal(order.Garments, order.PriceTags, order.Adjustment)
		if err != nil {
			return err
		}

		var cards []*models.UserCoupon
		if len(input.UserCouponIDs) > 0 {
			cards, err = coupons.GetUserCouponsForUpdate(ctx, storeID, input.UserCouponIDs)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "load cards")
			}
			if len(cards) != len(input.UserCouponIDs) {
				return domain.E(domain.KindNotFound, "one or more selected cards do not exist")
			}
			for _, card := range cards {
				if card.CustomerID != order.CustomerID {
					return domain.E(domain.KindBadRequest, "card %d belongs to another customer", card.ID)
				}
			}

			customer, err := customers.GetByID(ctx, storeID, order.CustomerID)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "load customer")
			}
			if customer.PayPassword != "" {
				if input.PayPassword == "" {
					return domain.E(domain.KindBadRequest, "payment password required")
				}
				if !password.Verify(input.PayPassword, customer.PayPassword) {
					return domain.E(domain.KindUnauthorized, "wrong payment password")
				}
			}
		}

		plan, err := BuildSettlementPlan(SettlementInput{
			Total:         total,
			Method:        domain.PayMethod(input.Method),
			Cards:         cards,
			SessionCounts: input.SessionCounts,
			Garments:      order.Garments,
			Now:           time.Now(),
		})
		if err != nil {
			return err
		}

		payment = &models.Payment{
			StoreID:     storeID,
			OrderID:     order.ID,
			TotalAmount: plan.PaidAmount,
			Method:      input.Method,
			Status:      string(domain.PaymentPaid),
		}
		for _, d := range plan.Details {
			payment.Details = append(payment.Details, models.PaymentMethodDetail{
				Method: string(d.Method),
				Amount: d.Amount,
			})
		}
		for _, u := range plan.Usages {
			payment.Usages = append(payment.Usages, models.CouponUsage{
				UserCouponID:  u.UserCouponID,
				Amount:        u.Amount,
				ValueConsumed: u.ValueConsumed,
			})
		}
		if err := payments.Create(ctx, payment); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "create payment")
		}

		if err := applyCardStates(ctx, coupons, cards, plan.CardStates); err != nil {
			return err
		}

		if err := orders.UpdateStatus(ctx, order.ID, map[string]interface{}{
			"payment_status": string(domain.PaymentPaid),
		}); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "mark order paid")
		}

		if pts := int(total.IntPart()); pts > 0 {
			if err := customers.AddPoints(ctx, order.CustomerID, pts); err != nil {
				return domain.WrapErr(domain.KindDbError, err, "award points")
			}
		}

		if s.remote != nil {
			return s.remote.MirrorPayment(ctx, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Refund reverses a settled payment in one transaction: restore every
// card's consumed value, claw back the points, free the rack slots,
// flip order and garments to refunded, and mirror before commit.
// Refunding twice fails.
func (s *PaymentService) Refund(ctx context.Context, storeID, orderID uint, reason string) (*models.Payment, error) {
	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		coupons := repositories.NewCouponRepository(tx)
		customers := repositories.NewCustomerRepository(tx)
		payments := repositories.NewPaymentRepository(tx)
		racks := repositories.NewRackRepository(tx)

		order, err := orders.GetByID(ctx, storeID, orderID)
		if err == gorm.ErrRecordNotFound {
			return ErrOrderNotFound
		}
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load order")
		}

		payment, err = payments.GetByOrderID(ctx, storeID, orderID)
		if err == gorm.ErrRecordNotFound {
			return ErrNotPaid
		}
		if err != nil {
			return domain.WrapErr(domain.KindDbError, err, "load payment")
		}
		switch domain.PaymentStatus(payment.Status) {
		case domain.PaymentPaid:
		case domain.PaymentRefunded:
			return ErrAlreadyRefunded
		default:
			return ErrNotPaid
		}

		for _, usage := range payment.Usages {
			card, err := coupons.GetUserCoupon(ctx, storeID, usage.UserCouponID)
			if err != nil {
				return domain.WrapErr(domain.KindDbError, err, "load card")
			}
			card.AvailableValue = card.AvailableValue.Add(usage.ValueConsumed)
			if card.UsageCount > 0 {
				card.UsageCount--
			}
			if domain.UserCouponStatus(card.Status) == domain.UserCouponUsedUp {
				card.Status = string(domain.UserCouponActive)
			}
			if err := coupons.SaveUserCoupon(ctx, card); err != nil {
				return domain.WrapErr(domain.KindDbError, err, "restore card")
			}
		}

		total, err := ComputeOrderTotal(order.Garments, order.PriceTags, order.Adjustment)
		if err != nil {
			return err
		}
		if pts := int(total.IntPart()); pts > 0 {
			if err := customers.AddPoints(ctx, order.CustomerID, -pts); err != nil {
				return domain.WrapErr(domain.KindDbError, err, "claw back points")
			}
		}

		for _, rackID := range racksToRelease(order.Garments) {
			if err := racks.IncrementRemaining(ctx, rackID); err != nil {
				return domain.WrapErr(domain.KindDbError, err, "release slot")
			}
		}
		if err := orders.UpdateGarmentStatus(ctx, order.ID, map[string]interface{}{
			"status": string(domain.GarmentRefunded),
		}); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "mark garments refunded")
		}

		if err := payments.UpdateStatus(ctx, payment.ID, map[string]interface{}{
			"status":        string(domain.PaymentRefunded),
			"refund_reason": reason,
		}); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "mark payment refunded")
		}
		payment.Status = string(domain.PaymentRefunded)
		payment.RefundReason = reason

		if err := orders.UpdateStatus(ctx, order.ID, map[string]interface{}{
			"status":         string(domain.OrderRefunded),
			"payment_status": string(domain.PaymentRefunded),
		}); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "mark order refunded")
		}

		if s.remote != nil {
			return s.remote.MirrorPayment(ctx, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Get returns an order's payment with its detail and usage rows.
func (s *PaymentService) Get(ctx context.Context, storeID, orderID uint) (*models.Payment, error) {
	payment, err := repositories.NewPaymentRepository(s.db).GetByOrderID(ctx, storeID, orderID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotPaid
	}
	if err != nil {
		return nil, domain.WrapErr(domain.KindDbError, err, "load payment")
	}
	return payment, nil
}

// racksToRelease lists the rack ids of garments still occupying a
// hanger slot. Picked-up and delivered garments released theirs
// already; a refund flips their status but frees nothing.
func racksToRelease(garments []models.Garment) []uint {
	var ids []uint
	for _, g := range garments {
		if g.IsTerminal() || g.RackID == nil {
			continue
		}
		ids = append(ids, *g.RackID)
	}
	return ids
}

func applyCardStates(ctx context.Context, coupons *repositories.CouponRepository, cards []*models.UserCoupon, states []CardState) error {
	byID := make(map[uint]*models.UserCoupon, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	for _, st := range states {
		card, ok := byID[st.UserCouponID]
		if !ok {
			return domain.E(domain.KindInternalServer, "plan names unknown card %d", st.UserCouponID)
		}
		card.AvailableValue = st.NewAvailable
		card.UsageCount++
		if !st.NewAvailable.GreaterThan(decimal.Zero) {
			card.Status = string(domain.UserCouponUsedUp)
		}
		if err := coupons.SaveUserCoupon(ctx, card); err != nil {
			return domain.WrapErr(domain.KindDbError, err, "debit card")
		}
	}
	return nil
}
