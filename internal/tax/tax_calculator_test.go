package tax_test

import (
	"testing"

	"go-payroll/internal/tax"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bracket(block string, rate string) tax.Bracket {
	b := tax.Bracket{Rate: d(rate), Active: true}
	if block != "" {
		b.Block = decimal.NewNullDecimal(d(block))
	}
	return b
}

// uneven ceilings so slices do not divide cleanly
func unevenTable() []tax.Bracket {
	return []tax.Bracket{
		bracket("490", "0"),
		bracket("600", "5"),
		bracket("730", "10"),
		bracket("3896.67", "17.5"),
		bracket("", "25"),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		brackets []tax.Bracket
		taxable  string
		want     string
	}{
		{"below first ceiling", unevenTable(), "400", "0"},
		{"first taxed slice", unevenTable(), "600", "5.50"},
		{"partial third slice", unevenTable(), "700", "15.50"},
		{"fourth slice", unevenTable(), "1000", "65.75"},
		{"open ended top bracket", unevenTable(), "5000", "848.50"},
		{"zero income", unevenTable(), "0", "0"},
		{"negative income", unevenTable(), "-50", "0"},
		{"single zero-rate bracket", []tax.Bracket{bracket("2000", "0")}, "1890", "0"},
		{"beyond last ceiling uses last rate", []tax.Bracket{bracket("1000", "0"), bracket("2000", "10")}, "3000", "200"},
		{"no table", nil, "1000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tax.Calculate(tt.brackets, d(tt.taxable))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestCalculate_OrderIndependent(t *testing.T) {
	table := unevenTable()
	reversed := []tax.Bracket{table[4], table[2], table[0], table[3], table[1]}

	assert.True(t, tax.Calculate(table, d("2750.40")).Equal(tax.Calculate(reversed, d("2750.40"))))
}

func TestCalculate_Monotonic(t *testing.T) {
	table := unevenTable()
	previous := decimal.Zero
	step := d("7.31")

	for amount := decimal.Zero; amount.LessThan(d("6000")); amount = amount.Add(step) {
		got := tax.Calculate(table, amount)
		assert.True(t, got.GreaterThanOrEqual(previous), "tax dropped at %s", amount)
		previous = got
	}
}

func TestCalculate_ContinuousAtBoundaries(t *testing.T) {
	table := unevenTable()
	epsilon := d("1")

	for _, tc := range []struct {
		block    string
		nextRate string
	}{
		{"490", "5"},
		{"600", "10"},
		{"730", "17.5"},
		{"3896.67", "25"},
	} {
		at := tax.Calculate(table, d(tc.block))
		after := tax.Calculate(table, d(tc.block).Add(epsilon))
		want := d(tc.nextRate).Div(decimal.NewFromInt(100)).Mul(epsilon)

		assert.InDelta(t, want.InexactFloat64(), after.Sub(at).InexactFloat64(), 0.01, "boundary %s", tc.block)
	}
}
