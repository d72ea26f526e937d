package services

import (
	"testing"

	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func garment(unit, surcharge, requirement string) models.Garment {
	return models.Garment{
		UnitPrice:          dec(unit),
		ProcessSurcharge:   dec(surcharge),
		ServiceRequirement: requirement,
	}
}

func TestGarmentLineTotal(t *testing.T) {
	tests := []struct {
		name        string
		unit        string
		surcharge   string
		requirement string
		want        string
	}{
		{"normal", "30", "0", "NORMAL", "30"},
		{"normal with surcharge", "30", "5", "NORMAL", "35"},
		{"emergency doubles", "30", "5", "EMERGENCY", "65"},
		{"single wash is one and a half", "20", "0", "SINGLE_WASH", "30"},
		{"surcharge outside the multiplier", "10", "3", "EMERGENCY", "23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := garment(tt.unit, tt.surcharge, tt.requirement)
			assert.True(t, dec(tt.want).Equal(GarmentLineTotal(&g)), "got %s", GarmentLineTotal(&g))
		})
	}
}

func absoluteTag(id uint, value string) models.OrderPriceTag {
	return models.OrderPriceTag{
		PriceTagID: id,
		PriceTag: &models.PriceTag{
			ID:    id,
			Value: decimal.NewNullDecimal(dec(value)),
		},
	}
}

func percentTag(id uint, discount string) models.OrderPriceTag {
	return models.OrderPriceTag{
		PriceTagID: id,
		PriceTag: &models.PriceTag{
			ID:       id,
			Discount: decimal.NewNullDecimal(dec(discount)),
		},
	}
}

func TestComputeOrderTotal(t *testing.T) {
	garments := []models.Garment{
		garment("30", "0", "NORMAL"),
		garment("35", "5", "EMERGENCY"), // 75
	}

	t.Run("no tags no adjustment", func(t *testing.T) {
		total, err := ComputeOrderTotal(garments, nil, nil)
		require.NoError(t, err)
		assert.True(t, dec("105").Equal(total), "got %s", total)
	})

	t.Run("tags apply in attachment order", func(t *testing.T) {
		// absolute 100 first, then 10% off: 100 - 10 = 90.
		tags := []models.OrderPriceTag{absoluteTag(1, "100"), percentTag(2, "10")}
		total, err := ComputeOrderTotal(garments, tags, nil)
		require.NoError(t, err)
		assert.True(t, dec("90").Equal(total), "got %s", total)

		// swapped: 10% off 105 = 94.5, then absolute 100 wins.
		tags = []models.OrderPriceTag{percentTag(2, "10"), absoluteTag(1, "100")}
		total, err = ComputeOrderTotal(garments, tags, nil)
		require.NoError(t, err)
		assert.True(t, dec("100").Equal(total), "got %s", total)
	})

	t.Run("percentage cut truncates to cents", func(t *testing.T) {
		one := []models.Garment{garment("99.99", "0", "NORMAL")}
		// 3% of 99.99 = 2.9997 -> 2.99 cut.
		total, err := ComputeOrderTotal(one, []models.OrderPriceTag{percentTag(1, "3")}, nil)
		require.NoError(t, err)
		assert.True(t, dec("97").Equal(total), "got %s", total)
	})

	t.Run("adjustment add and sub", func(t *testing.T) {
		adj := &models.Adjustment{AddAmount: dec("10"), SubAmount: dec("20")}
		total, err := ComputeOrderTotal(garments, nil, adj)
		require.NoError(t, err)
		assert.True(t, dec("95").Equal(total), "got %s", total)
	})

	t.Run("override beats add and sub", func(t *testing.T) {
		adj := &models.Adjustment{
			AddAmount: dec("10"),
			SubAmount: dec("20"),
			Override:  decimal.NewNullDecimal(dec("50")),
		}
		total, err := ComputeOrderTotal(garments, nil, adj)
		require.NoError(t, err)
		assert.True(t, dec("50").Equal(total), "got %s", total)
	})

	t.Run("adjustment applies after tags", func(t *testing.T) {
		tags := []models.OrderPriceTag{absoluteTag(1, "80")}
		adj := &models.Adjustment{SubAmount: dec("5")}
		total, err := ComputeOrderTotal(garments, tags, adj)
		require.NoError(t, err)
		assert.True(t, dec("75").Equal(total), "got %s", total)
	})

	t.Run("total clamps at zero", func(t *testing.T) {
		adj := &models.Adjustment{SubAmount: dec("500")}
		total, err := ComputeOrderTotal(garments, nil, adj)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("empty tag rule is rejected", func(t *testing.T) {
		tags := []models.OrderPriceTag{{PriceTagID: 9, PriceTag: &models.PriceTag{ID: 9, Name: "broken"}}}
		_, err := ComputeOrderTotal(garments, tags, nil)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindParseError))
	})
}
