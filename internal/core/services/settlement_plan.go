package services

import (
	"sort"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"github.com/shopspring/decimal"
)

// SettlementInput is everything the planner needs to split an order
// total across cards, coupons and the residual cash-like vehicle.
// Cards carry their preloaded templates and arrive in the operator's
// selection order.
type SettlementInput struct {
	Total         decimal.Decimal
	Method        domain.PayMethod
	Cards         []*models.UserCoupon
	SessionCounts map[uint]int
	Garments      []models.Garment
	Now           time.Time
}

// DetailSpec is one planned payment-method-detail row.
type DetailSpec struct {
	Method domain.PayMethod
	Amount decimal.Decimal
}

// UsageSpec is one planned coupon-usage row. Amount is what the coupon
// contributed to the bill; ValueConsumed is what was taken from its
// available value and is what a refund restores.
type UsageSpec struct {
	UserCouponID  uint
	Amount        decimal.Decimal
	ValueConsumed decimal.Decimal
}

// CardState is the post-settlement available value of a consumed card.
type CardState struct {
	UserCouponID uint
	NewAvailable decimal.Decimal
}

// SettlementPlan is the planner output. PaidAmount always equals the
// sum of Details amounts.
type SettlementPlan struct {
	Details    []DetailSpec
	Usages     []UsageSpec
	CardStates []CardState
	PaidAmount decimal.Decimal
}

// BuildSettlementPlan validates the selected cards against the chosen
// method and computes how the order total is discharged. It touches no
// storage; persistence is the payment service's job.
func BuildSettlementPlan(in SettlementInput) (*SettlementPlan, error) {
	if !in.Method.Valid() {
		return nil, domain.E(domain.KindBadRequest, "unknown payment method %q", in.Method)
	}

	for _, card := range in.Cards {
		if card.Coupon == nil {
			return nil, domain.E(domain.KindDbError, "coupon template for card %d not loaded", card.ID)
		}
		if domain.UserCouponStatus(card.Status) != domain.UserCouponActive {
			return nil, domain.E(domain.KindBadRequest, "card %q is not active", card.Coupon.Name)
		}
		if !card.Coupon.InWindow(in.Now) {
			return nil, domain.E(domain.KindBadRequest, "card %q is outside its validity window", card.Coupon.Name)
		}
	}

	stored, discount, other := bucketCards(in.Cards)
	populated := 0
	for _, b := range [][]*models.UserCoupon{stored, discount, other} {
		if len(b) > 0 {
			populated++
		}
	}
	if populated > 1 {
		return nil, domain.E(domain.KindBadRequest, "cannot mix card families in one settlement")
	}

	if cardType, ok := in.Method.CardComponent(); ok {
		if err := checkCardTypeMatch(cardType, stored, discount, other); err != nil {
			return nil, err
		}
	} else if len(in.Cards) > 0 {
		return nil, domain.E(domain.KindBadRequest, "method %q does not accept cards", in.Method)
	}

	switch {
	case len(stored) > 0:
		return planBalanceWalk(in, stored, domain.MethodStoredValueCard, in.Total)
	case len(discount) > 0:
		return planDiscountCards(in, discount)
	case len(other) > 0:
		return planOtherCards(in, other)
	}

	// No cards at all: the whole bill goes through the cash-like vehicle.
	cash, ok := in.Method.CashComponent()
	if !ok {
		return nil, domain.E(domain.KindBadRequest, "method %q requires at least one selected card", in.Method)
	}
	plan := &SettlementPlan{PaidAmount: in.Total}
	if in.Total.IsPositive() {
		plan.Details = append(plan.Details, DetailSpec{Method: cash, Amount: in.Total})
	}
	return plan, nil
}

func bucketCards(cards []*models.UserCoupon) (stored, discount, other []*models.UserCoupon) {
	for _, card := range cards {
		switch domain.CouponType(card.Coupon.Type) {
		case domain.CouponStoredValueCard:
			stored = append(stored, card)
		case domain.CouponDiscountCard:
			discount = append(discount, card)
		default:
			other = append(other, card)
		}
	}
	return stored, discount, other
}

func checkCardTypeMatch(want domain.CouponType, stored, discount, other []*models.UserCoupon) error {
	var have domain.CouponType
	switch {
	case len(stored) > 0:
		have = domain.CouponStoredValueCard
	case len(discount) > 0:
		have = domain.CouponDiscountCard
	case len(other) > 0:
		have = domain.CouponType(other[0].Coupon.Type)
	default:
		return domain.E(domain.KindBadRequest, "method names a card type but no card was selected")
	}
	if have != want {
		return domain.E(domain.KindBadRequest, "selected cards do not match the %s payment method", want)
	}
	return nil
}

// planBalanceWalk consumes money balances smallest-first and charges
// any residual to the method's cash-like component. Shared by the
// stored-value and discount card families.
func planBalanceWalk(in SettlementInput, cards []*models.UserCoupon, cardMethod domain.PayMethod, target decimal.Decimal) (*SettlementPlan, error) {
	ordered := make([]*models.UserCoupon, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AvailableValue.LessThan(ordered[j].AvailableValue)
	})

	plan := &SettlementPlan{PaidAmount: target}
	remaining := target
	for _, card := range ordered {
		if !remaining.IsPositive() {
			break
		}
		consume := card.AvailableValue
		if consume.GreaterThan(remaining) {
			consume = remaining
		}
		if !consume.IsPositive() {
			continue
		}
		plan.Details = append(plan.Details, DetailSpec{Method: cardMethod, Amount: consume})
		plan.Usages = append(plan.Usages, UsageSpec{
			UserCouponID:  card.ID,
			Amount:        consume,
			ValueConsumed: consume,
		})
		plan.CardStates = append(plan.CardStates, CardState{
			UserCouponID: card.ID,
			NewAvailable: card.AvailableValue.Sub(consume),
		})
		remaining = remaining.Sub(consume)
	}

	if remaining.IsPositive() {
		cash, ok := in.Method.CashComponent()
		if !ok {
			return nil, domain.E(domain.KindBadRequest, "card balance insufficient: %s short", remaining.StringFixed(2))
		}
		plan.Details = append(plan.Details, DetailSpec{Method: cash, Amount: remaining})
	}
	return plan, nil
}

// planDiscountCards applies the shared rate once to the order total,
// then walks balances against the discounted figure.
func planDiscountCards(in SettlementInput, cards []*models.UserCoupon) (*SettlementPlan, error) {
	rate := cards[0].Coupon.UsageValue
	for _, card := range cards[1:] {
		if !card.Coupon.UsageValue.Equal(rate) {
			return nil, domain.E(domain.KindBadRequest, "discount cards must share the same rate")
		}
	}
	discounted := round2(in.Total.Mul(rate).Div(decHundred))
	return planBalanceWalk(in, cards, domain.MethodDiscountCard, discounted)
}

// planOtherCards dispatches the remaining family: a uniform group of
// session cards, or exactly one single-use voucher.
func planOtherCards(in SettlementInput, cards []*models.UserCoupon) (*SettlementPlan, error) {
	allSession := true
	for _, card := range cards {
		if domain.CouponType(card.Coupon.Type) != domain.CouponSessionCard {
			allSession = false
			break
		}
	}
	if allSession {
		return planSessionCards(in, cards)
	}
	if len(cards) != 1 {
		return nil, domain.E(domain.KindBadRequest, "vouchers cannot be combined with other cards")
	}
	return planSingleVoucher(in, cards[0])
}

// planSessionCards spends punches garment-by-garment. Punches cover the
// most expensive garments; whatever garments remain are billed at their
// base unit prices through the cash-like vehicle.
func planSessionCards(in SettlementInput, cards []*models.UserCoupon) (*SettlementPlan, error) {
	plan := &SettlementPlan{PaidAmount: decimal.Zero}
	covered := 0
	for _, card := range cards {
		requested, ok := in.SessionCounts[card.ID]
		if !ok || requested <= 0 {
			return nil, domain.E(domain.KindBadRequest, "session card %q needs a punch count", card.Coupon.Name)
		}
		punches := int(card.AvailableValue.IntPart())
		if requested > punches {
			return nil, domain.E(domain.KindBadRequest, "session card %q has only %d punches left", card.Coupon.Name, punches)
		}
		use := requested
		if rest := len(in.Garments) - covered; use > rest {
			use = rest
		}
		if use <= 0 {
			continue
		}
		used := decimal.NewFromInt(int64(use))
		plan.Usages = append(plan.Usages, UsageSpec{
			UserCouponID:  card.ID,
			Amount:        used,
			ValueConsumed: used,
		})
		plan.CardStates = append(plan.CardStates, CardState{
			UserCouponID: card.ID,
			NewAvailable: card.AvailableValue.Sub(used),
		})
		covered += use
	}

	uncovered := len(in.Garments) - covered
	if uncovered <= 0 {
		return plan, nil
	}

	prices := make([]decimal.Decimal, len(in.Garments))
	for i := range in.Garments {
		prices[i] = in.Garments[i].UnitPrice
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].LessThan(prices[j]) })
	residual := decimal.Zero
	for _, p := range prices[:uncovered] {
		residual = residual.Add(p)
	}
	residual = round2(residual)

	cash, ok := in.Method.CashComponent()
	if !ok {
		return nil, domain.E(domain.KindBadRequest, "session punches cover only %d of %d garments", covered, len(in.Garments))
	}
	if residual.IsPositive() {
		plan.Details = append(plan.Details, DetailSpec{Method: cash, Amount: residual})
		plan.PaidAmount = residual
	}
	return plan, nil
}

// planSingleVoucher handles discount coupons and spend-and-save cards:
// one use, min-spend gated, discount capped at the order total.
func planSingleVoucher(in SettlementInput, card *models.UserCoupon) (*SettlementPlan, error) {
	tpl := card.Coupon
	if card.AvailableValue.LessThan(decOne) {
		return nil, domain.E(domain.KindBadRequest, "voucher %q has no uses remaining", tpl.Name)
	}
	if in.Total.LessThan(tpl.MinSpend) {
		return nil, domain.E(domain.KindBadRequest,
			"voucher %q needs a minimum spend of %s", tpl.Name, tpl.MinSpend.StringFixed(2))
	}

	var cut decimal.Decimal
	switch domain.CouponType(tpl.Type) {
	case domain.CouponDiscountCoupon:
		cut = round2(in.Total.Sub(in.Total.Mul(tpl.UsageValue).Div(decHundred)))
		if tpl.UsageLimit.Valid && cut.GreaterThan(tpl.UsageLimit.Decimal) {
			cut = tpl.UsageLimit.Decimal
		}
	case domain.CouponSpendAndSave:
		cut = tpl.UsageValue
	default:
		return nil, domain.E(domain.KindBadRequest, "card type %s cannot settle alone", tpl.Type)
	}
	if cut.GreaterThan(in.Total) {
		cut = in.Total
	}

	residual := in.Total.Sub(cut)
	plan := &SettlementPlan{
		Usages: []UsageSpec{{
			UserCouponID:  card.ID,
			Amount:        cut,
			ValueConsumed: decOne,
		}},
		CardStates: []CardState{{
			UserCouponID: card.ID,
			NewAvailable: card.AvailableValue.Sub(decOne),
		}},
		PaidAmount: residual,
	}

	if residual.IsPositive() {
		cash, ok := in.Method.CashComponent()
		if !ok {
			return nil, domain.E(domain.KindBadRequest, "voucher leaves %s unpaid", residual.StringFixed(2))
		}
		plan.Details = append(plan.Details, DetailSpec{Method: cash, Amount: residual})
	}
	return plan, nil
}
