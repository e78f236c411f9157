package gst_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxos/internal/domain"
	"taxos/internal/gst"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func outward(num, amount, rate string) domain.OutwardInvoice {
	return domain.OutwardInvoice{
		InvoiceNumber: num,
		InvoiceDate:   time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		PlaceOfSupply: "27",
		Amount:        dec(amount),
		Rate:          dec(rate),
	}
}

func TestClassify_Precedence(t *testing.T) {
	c := gst.NewClassifier(decimal.Zero)

	t.Run("note_beats_everything", func(t *testing.T) {
		inv := outward("CN-1", "5000", "18")
		inv.NoteRef = "INV-9"
		inv.NoteType = domain.NoteTypeCredit
		inv.IsExport = true
		inv.CounterpartyRegistered = true

		ci, err := c.Classify(inv)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryCreditNote, ci.Category)
	})

	t.Run("debit_note", func(t *testing.T) {
		inv := outward("DN-1", "5000", "18")
		inv.NoteRef = "INV-9"
		inv.NoteType = domain.NoteTypeDebit

		ci, err := c.Classify(inv)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryDebitNote, ci.Category)
	})

	t.Run("export_beats_registration", func(t *testing.T) {
		inv := outward("EXP-1", "900000", "18")
		inv.IsExport = true
		inv.CounterpartyRegistered = true

		ci, err := c.Classify(inv)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryExport, ci.Category)
	})

	t.Run("registered_is_b2b_regardless_of_value", func(t *testing.T) {
		inv := outward("INV-1", "10", "18")
		inv.CounterpartyRegistered = true
		inv.CounterpartyGSTIN = "27AAPFU0939F1ZV"

		ci, err := c.Classify(inv)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryB2B, ci.Category)
	})

	t.Run("large_unregistered_interstate_is_b2cl", func(t *testing.T) {
		inv := outward("INV-2", "300000", "18")
		inv.IsInterState = true

		ci, err := c.Classify(inv)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryB2CL, ci.Category)
	})

	t.Run("threshold_is_exclusive", func(t *testing.T) {
		inv := outward("INV-3", "250000", "18")
		inv.IsInterState = true

		ci, err := c.Classify(inv)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryB2CS, ci.Category, "exactly at threshold stays B2CS")
	})

	t.Run("zero_rate_is_nil", func(t *testing.T) {
		ci, err := c.Classify(outward("INV-4", "1000", "0"))
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryNil, ci.Category)
	})

	t.Run("small_unregistered_is_b2cs", func(t *testing.T) {
		ci, err := c.Classify(outward("INV-5", "1000", "18"))
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryB2CS, ci.Category)
	})
}

func TestClassifyBatch_CollectsErrors(t *testing.T) {
	c := gst.NewClassifier(decimal.Zero)

	bad := outward("BAD-1", "100", "17")
	good := outward("OK-1", "100", "18")

	classified, errs := c.ClassifyBatch([]domain.OutwardInvoice{bad, good})
	assert.Len(t, classified, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, "BAD-1", errs[0].RecordID)
}

func TestClassifyBatch_PartitionLaw(t *testing.T) {
	c := gst.NewClassifier(decimal.Zero)

	invs := []domain.OutwardInvoice{
		outward("A", "1000", "18"),
		outward("B", "2000", "5"),
		outward("C", "3000", "0"),
	}
	reg := outward("D", "4000", "12")
	reg.CounterpartyRegistered = true
	invs = append(invs, reg)
	exp := outward("E", "5000", "18")
	exp.IsExport = true
	invs = append(invs, exp)

	classified, errs := c.ClassifyBatch(invs)
	require.Empty(t, errs)
	assert.Len(t, classified, len(invs), "every invoice in exactly one category")

	byCategory := map[domain.InvoiceCategory]int{}
	total := decimal.Zero
	for _, ci := range classified {
		byCategory[ci.Category]++
		total = total.Add(ci.Tax.TaxableValue)
	}
	count := 0
	for _, n := range byCategory {
		count += n
	}
	assert.Equal(t, len(invs), count)
	assert.True(t, total.Equal(dec("15000")), "category totals sum to grand total, got %s", total)
}

func TestConsolidateB2CS(t *testing.T) {
	c := gst.NewClassifier(decimal.Zero)

	var classified []domain.ClassifiedInvoice
	for _, spec := range []struct{ num, amount, rate, pos string }{
		{"A", "100", "18", "27"},
		{"B", "200", "18", "27"},
		{"C", "300", "18", "29"},
		{"D", "400", "5", "27"},
	} {
		inv := outward(spec.num, spec.amount, spec.rate)
		inv.PlaceOfSupply = spec.pos
		ci, err := c.Classify(inv)
		require.NoError(t, err)
		classified = append(classified, ci)
	}

	lines := gst.ConsolidateB2CS(classified)
	require.Len(t, lines, 3, "one line per (state, rate)")

	// Sorted by state then rate: (27,5), (27,18), (29,18).
	assert.Equal(t, "27", lines[0].StateCode)
	assert.True(t, lines[0].Rate.Equal(dec("5")))
	assert.Equal(t, 1, lines[0].Count)

	assert.Equal(t, "27", lines[1].StateCode)
	assert.True(t, lines[1].Rate.Equal(dec("18")))
	assert.Equal(t, 2, lines[1].Count)
	assert.True(t, lines[1].TaxableValue.Equal(dec("300")))
	assert.True(t, lines[1].Tax.CGST.Equal(dec("27")), "cgst = %s", lines[1].Tax.CGST)

	assert.Equal(t, "29", lines[2].StateCode)
}
