package types

import (
	"cosmossdk.io/math"
)

// SplitByWeight splits amount proportionally to weights. When every weight
// is zero the amount is split evenly. The truncation remainder goes to the
// last entry, so the parts always sum to amount.
func SplitByWeight(weights []math.Int, amount math.Int) []math.Int {
	parts := make([]math.Int, len(weights))
	if len(weights) == 0 {
		return parts
	}

	total := math.ZeroInt()
	for _, w := range weights {
		if w.IsPositive() {
			total = total.Add(w)
		}
	}

	assigned := math.ZeroInt()
	for i, w := range weights {
		switch {
		case total.IsZero():
			parts[i] = amount.QuoRaw(int64(len(weights)))
		case w.IsPositive():
			parts[i] = amount.Mul(w).Quo(total)
		default:
			parts[i] = math.ZeroInt()
		}

		assigned = assigned.Add(parts[i])
	}

	last := len(parts) - 1
	parts[last] = parts[last].Add(amount.Sub(assigned))

	return parts
}

// TakeGreedy draws amount from the available balances in order and returns
// how much is taken from each. Balances are never overdrawn; if they cannot
// cover amount, every balance is drained.
func TakeGreedy(available []math.Int, amount math.Int) []math.Int {
	taken := make([]math.Int, len(available))
	left := amount
	for i, a := range available {
		taken[i] = math.ZeroInt()
		if !left.IsPositive() || !a.IsPositive() {
			continue
		}

		taken[i] = math.MinInt(a, left)
		left = left.Sub(taken[i])
	}

	return taken
}
