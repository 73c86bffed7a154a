package types

import (
	"cosmossdk.io/math"
)

// Shortfall returns how much actual falls below expected, or zero when the
// actual balance covers the expectation. A surplus is never reported.
func Shortfall(expected, actual math.Int) math.Int {
	if actual.GTE(expected) {
		return math.ZeroInt()
	}

	return expected.Sub(actual)
}

// DistributeShortfall splits shortfall over weights proportionally and
// returns each weight's share. No share exceeds its weight and the shares
// always sum to min(shortfall, sum(weights)). Truncation leftovers are
// charged from the last weight backwards.
func DistributeShortfall(weights []math.Int, shortfall math.Int) []math.Int {
	shares := make([]math.Int, len(weights))
	total := math.ZeroInt()
	for i, w := range weights {
		shares[i] = math.ZeroInt()
		if w.IsPositive() {
			total = total.Add(w)
		}
	}

	if total.IsZero() || !shortfall.IsPositive() {
		return shares
	}

	if shortfall.GT(total) {
		shortfall = total
	}

	leftover := shortfall
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}

		shares[i] = shortfall.Mul(w).Quo(total)
		leftover = leftover.Sub(shares[i])
	}

	for i := len(weights) - 1; i >= 0 && leftover.IsPositive(); i-- {
		if !weights[i].IsPositive() {
			continue
		}

		extra := math.MinInt(leftover, weights[i].Sub(shares[i]))
		shares[i] = shares[i].Add(extra)
		leftover = leftover.Sub(extra)
	}

	return shares
}
