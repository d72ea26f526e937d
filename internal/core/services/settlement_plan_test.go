package services

import (
	"testing"
	"time"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id uint, couponType domain.CouponType, available string, tpl models.Coupon) *models.UserCoupon {
	tpl.ID = id + 100
	tpl.Type = string(couponType)
	if tpl.Name == "" {
		tpl.Name = string(couponType)
	}
	return &models.UserCoupon{
		ID:             id,
		CouponID:       tpl.ID,
		AvailableValue: dec(available),
		Status:         string(domain.UserCouponActive),
		Coupon:         &tpl,
	}
}

func sumDetails(plan *SettlementPlan) decimal.Decimal {
	total := decimal.Zero
	for _, d := range plan.Details {
		total = total.Add(d.Amount)
	}
	return total
}

func TestPlanCashOnly(t *testing.T) {
	plan, err := BuildSettlementPlan(SettlementInput{
		Total:  dec("105"),
		Method: domain.MethodWechatPay,
		Now:    time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, plan.Details, 1)
	assert.Equal(t, domain.MethodWechatPay, plan.Details[0].Method)
	assert.True(t, dec("105").Equal(plan.PaidAmount))
	assert.Empty(t, plan.Usages)
}

func TestPlanStoredValueWalk(t *testing.T) {
	small := card(1, domain.CouponStoredValueCard, "30", models.Coupon{})
	big := card(2, domain.CouponStoredValueCard, "80", models.Coupon{})

	t.Run("smallest balance drains first", func(t *testing.T) {
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.MethodStoredValueCard,
			Cards:  []*models.UserCoupon{big, small},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		require.Len(t, plan.Usages, 2)
		assert.Equal(t, uint(1), plan.Usages[0].UserCouponID)
		assert.True(t, dec("30").Equal(plan.Usages[0].Amount))
		assert.Equal(t, uint(2), plan.Usages[1].UserCouponID)
		assert.True(t, dec("70").Equal(plan.Usages[1].Amount))
		assert.True(t, dec("100").Equal(plan.PaidAmount))
		assert.True(t, sumDetails(plan).Equal(plan.PaidAmount))

		require.Len(t, plan.CardStates, 2)
		assert.True(t, plan.CardStates[0].NewAvailable.IsZero())
		assert.True(t, dec("10").Equal(plan.CardStates[1].NewAvailable))
	})

	t.Run("residual goes to the cash component", func(t *testing.T) {
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("150"),
			Method: domain.PayMethod("CashAndStoredValueCard"),
			Cards:  []*models.UserCoupon{small, big},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		last := plan.Details[len(plan.Details)-1]
		assert.Equal(t, domain.MethodCash, last.Method)
		assert.True(t, dec("40").Equal(last.Amount))
		assert.True(t, dec("150").Equal(plan.PaidAmount))
	})

	t.Run("bare card method rejects a residual", func(t *testing.T) {
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("150"),
			Method: domain.MethodStoredValueCard,
			Cards:  []*models.UserCoupon{small, big},
			Now:    time.Now(),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindBadRequest))
	})

	t.Run("drained card contributes no usage row", func(t *testing.T) {
		empty := card(3, domain.CouponStoredValueCard, "0", models.Coupon{})
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("20"),
			Method: domain.MethodStoredValueCard,
			Cards:  []*models.UserCoupon{empty, small},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		require.Len(t, plan.Usages, 1)
		assert.Equal(t, uint(1), plan.Usages[0].UserCouponID)
	})
}

func TestPlanDiscountCards(t *testing.T) {
	tpl := models.Coupon{UsageValue: dec("90")} // pay 90% of the bill

	t.Run("rate applies once then balances walk", func(t *testing.T) {
		c := card(1, domain.CouponDiscountCard, "50", tpl)
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndDiscountCard"),
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		// 100 * 90% = 90 payable: 50 from the card, 40 cash.
		assert.True(t, dec("90").Equal(plan.PaidAmount))
		require.Len(t, plan.Details, 2)
		assert.Equal(t, domain.MethodDiscountCard, plan.Details[0].Method)
		assert.True(t, dec("50").Equal(plan.Details[0].Amount))
		assert.Equal(t, domain.MethodCash, plan.Details[1].Method)
		assert.True(t, dec("40").Equal(plan.Details[1].Amount))
	})

	t.Run("mismatched rates are rejected", func(t *testing.T) {
		a := card(1, domain.CouponDiscountCard, "50", tpl)
		b := card(2, domain.CouponDiscountCard, "50", models.Coupon{UsageValue: dec("85")})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndDiscountCard"),
			Cards:  []*models.UserCoupon{a, b},
			Now:    time.Now(),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindBadRequest))
	})
}

func TestPlanSessionCards(t *testing.T) {
	garments := []models.Garment{
		garment("10", "0", "NORMAL"),
		garment("30", "0", "NORMAL"),
		garment("20", "0", "NORMAL"),
	}

	t.Run("punches cover garments, residual bills the cheapest", func(t *testing.T) {
		c := card(1, domain.CouponSessionCard, "5", models.Coupon{})
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:         dec("60"),
			Method:        domain.PayMethod("CashAndSessionCard"),
			Cards:         []*models.UserCoupon{c},
			SessionCounts: map[uint]int{1: 2},
			Garments:      garments,
			Now:           time.Now(),
		})
		require.NoError(t, err)
		require.Len(t, plan.Usages, 1)
		assert.True(t, dec("2").Equal(plan.Usages[0].ValueConsumed))
		assert.True(t, dec("3").Equal(plan.CardStates[0].NewAvailable))
		// one garment uncovered: billed at the cheapest base price.
		require.Len(t, plan.Details, 1)
		assert.True(t, dec("10").Equal(plan.Details[0].Amount))
		assert.True(t, dec("10").Equal(plan.PaidAmount))
	})

	t.Run("full coverage settles with no money", func(t *testing.T) {
		c := card(1, domain.CouponSessionCard, "5", models.Coupon{})
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:         dec("60"),
			Method:        domain.MethodSessionCard,
			Cards:         []*models.UserCoupon{c},
			SessionCounts: map[uint]int{1: 3},
			Garments:      garments,
			Now:           time.Now(),
		})
		require.NoError(t, err)
		assert.Empty(t, plan.Details)
		assert.True(t, plan.PaidAmount.IsZero())
	})

	t.Run("punch request beyond balance fails", func(t *testing.T) {
		c := card(1, domain.CouponSessionCard, "2", models.Coupon{})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:         dec("60"),
			Method:        domain.MethodSessionCard,
			Cards:         []*models.UserCoupon{c},
			SessionCounts: map[uint]int{1: 3},
			Garments:      garments,
			Now:           time.Now(),
		})
		require.Error(t, err)
	})

	t.Run("bare session method cannot cover a residual", func(t *testing.T) {
		c := card(1, domain.CouponSessionCard, "5", models.Coupon{})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:         dec("60"),
			Method:        domain.MethodSessionCard,
			Cards:         []*models.UserCoupon{c},
			SessionCounts: map[uint]int{1: 1},
			Garments:      garments,
			Now:           time.Now(),
		})
		require.Error(t, err)
	})
}

func TestPlanSingleVoucher(t *testing.T) {
	t.Run("discount coupon cuts by rate", func(t *testing.T) {
		c := card(1, domain.CouponDiscountCoupon, "1", models.Coupon{UsageValue: dec("80")})
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndDiscountCoupon"),
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		// pay 80%: 20 off, 80 cash, one use consumed.
		assert.True(t, dec("80").Equal(plan.PaidAmount))
		require.Len(t, plan.Usages, 1)
		assert.True(t, dec("20").Equal(plan.Usages[0].Amount))
		assert.True(t, dec("1").Equal(plan.Usages[0].ValueConsumed))
		assert.True(t, plan.CardStates[0].NewAvailable.IsZero())
	})

	t.Run("usage limit caps the cut", func(t *testing.T) {
		tpl := models.Coupon{
			UsageValue: dec("80"),
			UsageLimit: decimal.NewNullDecimal(dec("10")),
		}
		c := card(1, domain.CouponDiscountCoupon, "1", tpl)
		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndDiscountCoupon"),
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		assert.True(t, dec("10").Equal(plan.Usages[0].Amount))
		assert.True(t, dec("90").Equal(plan.PaidAmount))
	})

	t.Run("spend and save needs its minimum", func(t *testing.T) {
		tpl := models.Coupon{UsageValue: dec("30"), MinSpend: dec("200")}
		c := card(1, domain.CouponSpendAndSave, "1", tpl)

		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndSpendAndSaveCard"),
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.Error(t, err)

		plan, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("250"),
			Method: domain.PayMethod("CashAndSpendAndSaveCard"),
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.NoError(t, err)
		assert.True(t, dec("220").Equal(plan.PaidAmount))
		assert.True(t, dec("30").Equal(plan.Usages[0].Amount))
	})

	t.Run("spent voucher is rejected", func(t *testing.T) {
		c := card(1, domain.CouponDiscountCoupon, "0", models.Coupon{UsageValue: dec("80")})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndDiscountCoupon"),
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.Error(t, err)
	})
}

func TestPlanValidation(t *testing.T) {
	t.Run("unknown method", func(t *testing.T) {
		_, err := BuildSettlementPlan(SettlementInput{Total: dec("10"), Method: "Barter", Now: time.Now()})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindBadRequest))
	})

	t.Run("mixing card families", func(t *testing.T) {
		stored := card(1, domain.CouponStoredValueCard, "50", models.Coupon{})
		disc := card(2, domain.CouponDiscountCard, "50", models.Coupon{UsageValue: dec("90")})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndStoredValueCard"),
			Cards:  []*models.UserCoupon{stored, disc},
			Now:    time.Now(),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindBadRequest))
	})

	t.Run("card type must match the method", func(t *testing.T) {
		disc := card(1, domain.CouponDiscountCard, "50", models.Coupon{UsageValue: dec("90")})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.PayMethod("CashAndStoredValueCard"),
			Cards:  []*models.UserCoupon{disc},
			Now:    time.Now(),
		})
		require.Error(t, err)
	})

	t.Run("plain method refuses cards", func(t *testing.T) {
		stored := card(1, domain.CouponStoredValueCard, "50", models.Coupon{})
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.MethodCash,
			Cards:  []*models.UserCoupon{stored},
			Now:    time.Now(),
		})
		require.Error(t, err)
	})

	t.Run("expired template", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		tpl := models.Coupon{ValidTo: &past}
		c := card(1, domain.CouponStoredValueCard, "50", tpl)
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.MethodStoredValueCard,
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindBadRequest))
	})

	t.Run("inactive card", func(t *testing.T) {
		c := card(1, domain.CouponStoredValueCard, "50", models.Coupon{})
		c.Status = string(domain.UserCouponDisabled)
		_, err := BuildSettlementPlan(SettlementInput{
			Total:  dec("100"),
			Method: domain.MethodStoredValueCard,
			Cards:  []*models.UserCoupon{c},
			Now:    time.Now(),
		})
		require.Error(t, err)
	})
}

// A refund adds ValueConsumed back; after planning and reversing, every
// card is back at its original balance.
func TestPlanReversalRestoresBalances(t *testing.T) {
	small := card(1, domain.CouponStoredValueCard, "30", models.Coupon{})
	big := card(2, domain.CouponStoredValueCard, "80", models.Coupon{})
	original := map[uint]decimal.Decimal{1: dec("30"), 2: dec("80")}

	plan, err := BuildSettlementPlan(SettlementInput{
		Total:  dec("100"),
		Method: domain.MethodStoredValueCard,
		Cards:  []*models.UserCoupon{small, big},
		Now:    time.Now(),
	})
	require.NoError(t, err)

	after := map[uint]decimal.Decimal{}
	for _, st := range plan.CardStates {
		after[st.UserCouponID] = st.NewAvailable
	}
	for _, u := range plan.Usages {
		after[u.UserCouponID] = after[u.UserCouponID].Add(u.ValueConsumed)
	}
	for id, want := range original {
		assert.True(t, want.Equal(after[id]), "card %d: want %s got %s", id, want, after[id])
	}
}
