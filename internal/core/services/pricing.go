package services

import (
	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/core/domain"

	"github.com/shopspring/decimal"
)

var (
	decTwo        = decimal.NewFromInt(2)
	decOneAndHalf = decimal.RequireFromString("1.5")
	decHundred    = decimal.NewFromInt(100)
	decOne        = decimal.NewFromInt(1)
)

// round2 truncates toward zero at two decimal places. All price math
// stays in decimal; this is the only rounding policy in the engine.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

// GarmentLineTotal prices a single garment: base unit price times the
// service-requirement multiplier, plus the process surcharge.
func GarmentLineTotal(g *models.Garment) decimal.Decimal {
	price := g.UnitPrice
	switch domain.ServiceRequirement(g.ServiceRequirement) {
	case domain.RequirementEmergency:
		price = price.Mul(decTwo)
	case domain.RequirementSingleWash:
		price = price.Mul(decOneAndHalf)
	}
	return price.Add(g.ProcessSurcharge)
}

// ComputeOrderTotal turns garments, attached price-tag rules and the
// optional adjustment into the payable total. Price-tag rules apply in
// attachment order; an absolute rule replaces the running price, a
// percentage rule discounts it. The adjustment override wins over
// add/sub. The result is clamped at zero.
func ComputeOrderTotal(garments []models.Garment, tags []models.OrderPriceTag, adj *models.Adjustment) (decimal.Decimal, error) {
	running := decimal.Zero
	for i := range garments {
		running = running.Add(GarmentLineTotal(&garments[i]))
	}

	for _, rel := range tags {
		rule := rel.PriceTag
		if rule == nil {
			return decimal.Zero, domain.E(domain.KindDbError, "price tag %d not loaded", rel.PriceTagID)
		}
		switch {
		case rule.Value.Valid:
			running = rule.Value.Decimal
		case rule.Discount.Valid:
			cut := round2(running.Mul(rule.Discount.Decimal).Div(decHundred))
			running = running.Sub(cut)
		default:
			return decimal.Zero, domain.E(domain.KindParseError, "price tag %q has neither value nor discount", rule.Name)
		}
	}

	if adj != nil {
		if adj.Override.Valid {
			running = adj.Override.Decimal
		} else {
			running = running.Add(adj.AddAmount).Sub(adj.SubAmount)
		}
	}

	total := round2(running)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total, nil
}
