package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayMethodValid(t *testing.T) {
	valid := []PayMethod{
		MethodCash, MethodAlipay, MethodWechatPay, MethodMeituan, MethodDouyin, MethodOther,
		MethodStoredValueCard, MethodDiscountCard, MethodSessionCard,
		"CashAndStoredValueCard", "AlipayAndDiscountCard", "WechatPayAndSessionCard",
		"CashAndSpendAndSaveCard", "CashAndDiscountCoupon",
	}
	for _, m := range valid {
		assert.True(t, m.Valid(), "%s should be valid", m)
	}

	invalid := []PayMethod{
		"", "Barter", "cash", "CashAnd", "AndStoredValueCard",
		"MeituanAndStoredValueCard", "CashAndGiftCard",
	}
	for _, m := range invalid {
		assert.False(t, m.Valid(), "%s should be invalid", m)
	}
}

func TestPayMethodComponents(t *testing.T) {
	cash, ok := PayMethod("CashAndStoredValueCard").CashComponent()
	assert.True(t, ok)
	assert.Equal(t, MethodCash, cash)

	cash, ok = MethodAlipay.CashComponent()
	assert.True(t, ok)
	assert.Equal(t, MethodAlipay, cash)

	_, ok = MethodStoredValueCard.CashComponent()
	assert.False(t, ok, "single-card methods have no residual vehicle")

	card, ok := PayMethod("CashAndSpendAndSaveCard").CardComponent()
	assert.True(t, ok)
	assert.Equal(t, CouponSpendAndSave, card)

	card, ok = MethodSessionCard.CardComponent()
	assert.True(t, ok)
	assert.Equal(t, CouponSessionCard, card)

	_, ok = MethodCash.CardComponent()
	assert.False(t, ok)
}
