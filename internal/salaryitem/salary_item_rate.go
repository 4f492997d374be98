package salaryitem

import (
	salaryitemerrors "go-payroll/internal/salaryitem/errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ResolveAmount applies the item's rate strategy for one employee.
//
// A factor item based on another item uses that item's configured rate amount,
// not the amount resolved for the employee. Chains of factor items therefore
// compound on configuration values only.
func ResolveAmount(item SalaryItem, basic decimal.Decimal, dependency *SalaryItem, multiplier decimal.NullDecimal) (decimal.Decimal, error) {
	switch item.RateType {
	case RateFixed:
		return item.RateAmount.Round(2), nil
	case RateFactor:
		base := basic
		if item.RateDependency != DependencyBasic {
			if dependency == nil {
				return decimal.Zero, salaryitemerrors.ErrDependencyNotFound
			}
			base = dependency.RateAmount
		}
		return item.RateAmount.Div(hundred).Mul(base).Round(2), nil
	case RateVariable:
		if !multiplier.Valid {
			return decimal.Zero, nil
		}
		return item.RateAmount.Mul(multiplier.Decimal).Round(2), nil
	}
	return decimal.Zero, salaryitemerrors.ErrInvalidRateType
}
