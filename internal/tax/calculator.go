// Package tax computes head-wise GST splits for taxable lines. All
// arithmetic is fixed-point decimal; amounts are rounded half-up to the
// paisa exactly once, at the split boundary.
package tax

import (
	"github.com/shopspring/decimal"

	"taxos/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// AllowedRates is the statutory GST rate slab set.
var AllowedRates = []int64{0, 5, 12, 18, 28}

// RateAllowed reports whether rate is one of the statutory slabs.
func RateAllowed(rate decimal.Decimal) bool {
	for _, r := range AllowedRates {
		if rate.Equal(decimal.NewFromInt(r)) {
			return true
		}
	}
	return false
}

// Compute splits a taxable line into head-wise tax amounts.
//
// For inclusive lines the taxable value is extracted in one division and
// rounded once, so nothing compounds. Intra-state CGST and SGST are both
// computed from the same half-rate product and are therefore bit-equal;
// they are never derived as rounded halves of a pre-summed total.
func Compute(line domain.TaxableLine) (domain.TaxSplit, error) {
	if line.Amount.IsNegative() {
		return domain.TaxSplit{}, domain.ErrNegativeAmount
	}
	if !RateAllowed(line.Rate) {
		return domain.TaxSplit{}, domain.ErrInvalidRate
	}
	if line.CessRate.IsNegative() {
		return domain.TaxSplit{}, domain.ErrInvalidRate
	}

	taxable := line.Amount
	if line.IsInclusive {
		combined := line.Rate.Add(line.CessRate)
		divisor := decimal.NewFromInt(1).Add(combined.Div(hundred))
		taxable = line.Amount.Div(divisor).Round(2)
	} else {
		taxable = taxable.Round(2)
	}

	split := domain.TaxSplit{
		TaxableValue: taxable,
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
		Cess:         decimal.Zero,
	}

	if line.IsInterState {
		split.IGST = taxable.Mul(line.Rate).Div(hundred).Round(2)
	} else {
		half := taxable.Mul(line.Rate.Div(two)).Div(hundred).Round(2)
		split.CGST = half
		split.SGST = half
	}
	if line.CessRate.IsPositive() {
		split.Cess = taxable.Mul(line.CessRate).Div(hundred).Round(2)
	}
	return split, nil
}
