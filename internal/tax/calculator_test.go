package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxos/internal/domain"
	"taxos/internal/tax"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(amount, rate string, interState, inclusive bool) domain.TaxableLine {
	return domain.TaxableLine{
		Amount:       dec(amount),
		Rate:         dec(rate),
		IsInterState: interState,
		IsInclusive:  inclusive,
	}
}

func TestCompute_IntraState(t *testing.T) {
	// 10,000 at 18% intra-state: CGST 900, SGST 900, IGST 0.
	split, err := tax.Compute(line("10000", "18", false, false))
	require.NoError(t, err)

	assert.True(t, split.CGST.Equal(dec("900")), "cgst = %s", split.CGST)
	assert.True(t, split.SGST.Equal(dec("900")), "sgst = %s", split.SGST)
	assert.True(t, split.IGST.IsZero())
	assert.True(t, split.TotalTax().Equal(dec("1800")))
}

func TestCompute_InterState(t *testing.T) {
	split, err := tax.Compute(line("10000", "18", true, false))
	require.NoError(t, err)

	assert.True(t, split.IGST.Equal(dec("1800")), "igst = %s", split.IGST)
	assert.True(t, split.CGST.IsZero())
	assert.True(t, split.SGST.IsZero())
}

func TestCompute_HalvesAlwaysEqual(t *testing.T) {
	// Odd taxable values produce a half-rate product that needs rounding;
	// both halves must still come out identical.
	amounts := []string{"1", "33.33", "999.99", "12345.67", "0.01"}
	rates := []string{"5", "12", "18", "28"}
	for _, a := range amounts {
		for _, r := range rates {
			split, err := tax.Compute(line(a, r, false, false))
			require.NoError(t, err)
			assert.True(t, split.CGST.Equal(split.SGST),
				"amount=%s rate=%s cgst=%s sgst=%s", a, r, split.CGST, split.SGST)
		}
	}
}

func TestCompute_SplitWithinOneRoundingUnit(t *testing.T) {
	split, err := tax.Compute(line("333.33", "18", false, false))
	require.NoError(t, err)

	exact := dec("333.33").Mul(dec("18")).Div(dec("100"))
	diff := split.CGST.Add(split.SGST).Sub(exact).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")), "diff = %s", diff)
}

func TestCompute_Inclusive(t *testing.T) {
	t.Run("extracts_taxable_value", func(t *testing.T) {
		// 11,800 inclusive of 18% → taxable 10,000.
		split, err := tax.Compute(line("11800", "18", true, true))
		require.NoError(t, err)
		assert.True(t, split.TaxableValue.Equal(dec("10000")), "taxable = %s", split.TaxableValue)
		assert.True(t, split.IGST.Equal(dec("1800")))
	})

	t.Run("round_trip_within_one_unit", func(t *testing.T) {
		excl, err := tax.Compute(line("4736.84", "12", false, false))
		require.NoError(t, err)

		gross := excl.TaxableValue.Add(excl.TotalTax())
		incl, err := tax.Compute(domain.TaxableLine{
			Amount: gross, Rate: dec("12"), IsInclusive: true,
		})
		require.NoError(t, err)

		diff := incl.TaxableValue.Sub(excl.TaxableValue).Abs()
		assert.True(t, diff.LessThanOrEqual(dec("0.01")), "taxable drift = %s", diff)
	})
}

func TestCompute_Cess(t *testing.T) {
	// 28% + 12% cess, inter-state: cess applies on taxable value regardless.
	l := line("1000", "28", true, false)
	l.CessRate = dec("12")
	split, err := tax.Compute(l)
	require.NoError(t, err)

	assert.True(t, split.IGST.Equal(dec("280")))
	assert.True(t, split.Cess.Equal(dec("120")))

	l.IsInterState = false
	split, err = tax.Compute(l)
	require.NoError(t, err)
	assert.True(t, split.CGST.Equal(dec("140")))
	assert.True(t, split.Cess.Equal(dec("120")))
}

func TestCompute_ZeroRate(t *testing.T) {
	split, err := tax.Compute(line("5000", "0", false, false))
	require.NoError(t, err)
	assert.True(t, split.TotalTax().IsZero())
	assert.True(t, split.TaxableValue.Equal(dec("5000")))
}

func TestCompute_Errors(t *testing.T) {
	t.Run("invalid_rate", func(t *testing.T) {
		_, err := tax.Compute(line("100", "17", false, false))
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})

	t.Run("negative_amount", func(t *testing.T) {
		_, err := tax.Compute(line("-1", "18", false, false))
		assert.ErrorIs(t, err, domain.ErrNegativeAmount)
	})

	t.Run("negative_cess", func(t *testing.T) {
		l := line("100", "18", false, false)
		l.CessRate = dec("-1")
		_, err := tax.Compute(l)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})
}

func TestRateAllowed(t *testing.T) {
	assert.True(t, tax.RateAllowed(dec("0")))
	assert.True(t, tax.RateAllowed(dec("28")))
	assert.False(t, tax.RateAllowed(dec("10")))
	assert.False(t, tax.RateAllowed(dec("18.5")))
}
