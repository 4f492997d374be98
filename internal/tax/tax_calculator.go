package tax

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Sorted orders brackets by rate, then by ceiling with open ended brackets last.
func Sorted(brackets []Bracket) []Bracket {
	out := make([]Bracket, len(brackets))
	copy(out, brackets)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Rate.Equal(out[j].Rate) {
			return out[i].Rate.LessThan(out[j].Rate)
		}
		switch {
		case !out[i].Block.Valid:
			return false
		case !out[j].Block.Valid:
			return true
		}
		return out[i].Block.Decimal.LessThan(out[j].Block.Decimal)
	})
	return out
}

// Calculate walks the brackets accumulating rate x slice. Income above the
// last ceiling is taxed at the last rate. The result is rounded to 2 dp.
func Calculate(brackets []Bracket, taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() || len(brackets) == 0 {
		return decimal.Zero
	}

	sorted := Sorted(brackets)
	total := decimal.Zero
	previous := decimal.Zero

	for _, b := range sorted {
		rate := b.Rate.Div(hundred)
		if !b.Block.Valid || taxable.LessThanOrEqual(b.Block.Decimal) {
			total = total.Add(taxable.Sub(previous).Mul(rate))
			return total.Round(2)
		}
		if b.Block.Decimal.GreaterThan(previous) {
			total = total.Add(b.Block.Decimal.Sub(previous).Mul(rate))
			previous = b.Block.Decimal
		}
	}

	last := sorted[len(sorted)-1]
	total = total.Add(taxable.Sub(previous).Mul(last.Rate.Div(hundred)))
	return total.Round(2)
}
