package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recomputes the unit cost of a product after a
// receipt. The existing on-hand value and the received value are
// pooled and divided by the combined quantity, rounded half-up to two
// decimal places.
//
// When nothing is on hand the received cost becomes the new cost
// unchanged (apart from rounding).
func WeightedAverageCost(onHandQty int64, currentCost decimal.Decimal, receivedQty int64, receivedCost decimal.Decimal) decimal.Decimal {
	if receivedQty <= 0 {
		return currentCost.Round(2)
	}
	if onHandQty <= 0 {
		return receivedCost.Round(2)
	}

	onHand := decimal.NewFromInt(onHandQty)
	received := decimal.NewFromInt(receivedQty)

	totalValue := currentCost.Mul(onHand).Add(receivedCost.Mul(received))
	totalQty := onHand.Add(received)

	return totalValue.Div(totalQty).Round(2)
}
