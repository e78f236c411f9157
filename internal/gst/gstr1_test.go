package gst_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxos/internal/domain"
	"taxos/internal/gst"
)

func classifySet(t *testing.T) []domain.ClassifiedInvoice {
	t.Helper()
	c := gst.NewClassifier(decimal.Zero)

	b2b := outward("INV-B2B", "10000", "18")
	b2b.CounterpartyRegistered = true
	b2b.CounterpartyGSTIN = "27AAPFU0939F1ZV"
	b2b.HSNCode = "8471"
	b2b.UQC = "NOS"
	b2b.Quantity = dec("2")

	b2cs := outward("INV-B2CS", "500", "18")
	b2cs.HSNCode = "8471"
	b2cs.UQC = "NOS"
	b2cs.Quantity = dec("1")

	exp := outward("INV-EXP", "20000", "18")
	exp.IsExport = true
	exp.HSNCode = "6109"
	exp.UQC = "PCS"
	exp.Quantity = dec("50")

	note := outward("CN-1", "1000", "18")
	note.NoteRef = "INV-B2B"
	note.NoteType = domain.NoteTypeCredit
	note.HSNCode = "8471"
	note.UQC = "NOS"
	note.Quantity = dec("1")

	var classified []domain.ClassifiedInvoice
	for _, inv := range []domain.OutwardInvoice{b2b, b2cs, exp, note} {
		ci, err := c.Classify(inv)
		require.NoError(t, err)
		classified = append(classified, ci)
	}
	return classified
}

func TestGSTR1Builder_Sections(t *testing.T) {
	period := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	p := gst.NewGSTR1Builder("27AAPFU0939F1ZV", period).Build(classifySet(t))

	assert.Equal(t, "022025", p.Period)
	assert.Equal(t, "2024-25", p.FinancialYear)

	require.Len(t, p.B2B, 1)
	assert.Equal(t, "INV-B2B", p.B2B[0].InvoiceNumber)
	assert.Equal(t, "27AAPFU0939F1ZV", p.B2B[0].GSTIN)

	require.Len(t, p.B2CS, 1)
	assert.Equal(t, 1, p.B2CS[0].Count)

	require.Len(t, p.Export, 1)
	require.Len(t, p.CDNR, 1)
	assert.Equal(t, "INV-B2B", p.CDNR[0].NoteRef)
	assert.Empty(t, p.B2CL)
}

func TestGSTR1Builder_TotalsExcludeNotes(t *testing.T) {
	period := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	p := gst.NewGSTR1Builder("27AAPFU0939F1ZV", period).Build(classifySet(t))

	// Outward total is B2B + B2CS + Export; the credit note is tracked apart.
	assert.Equal(t, 3, p.GrandTotal.Count)
	assert.True(t, p.GrandTotal.TaxableValue.Equal(dec("30500")),
		"grand total = %s", p.GrandTotal.TaxableValue)
	assert.Equal(t, 1, p.NoteTotal.Count)
	assert.True(t, p.NoteTotal.TaxableValue.Equal(dec("1000")))

	// Section totals partition the grand total exactly.
	sum := decimal.Zero
	for cat, st := range p.SectionTotals {
		if cat == domain.CategoryCreditNote || cat == domain.CategoryDebitNote {
			continue
		}
		sum = sum.Add(st.TaxableValue)
	}
	assert.True(t, sum.Equal(p.GrandTotal.TaxableValue))
}

func TestGSTR1Builder_HSNSummary(t *testing.T) {
	period := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	p := gst.NewGSTR1Builder("27AAPFU0939F1ZV", period).Build(classifySet(t))

	// 8471/NOS groups B2B + B2CS + the note; 6109/PCS is the export.
	require.Len(t, p.HSN, 2)
	assert.Equal(t, "6109", p.HSN[0].HSNCode)
	assert.Equal(t, "8471", p.HSN[1].HSNCode)
	assert.True(t, p.HSN[1].Quantity.Equal(dec("4")))
	assert.True(t, p.HSN[1].TaxableValue.Equal(dec("11500")))
}

func TestGSTR1Builder_Idempotent(t *testing.T) {
	period := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	set := classifySet(t)

	b := gst.NewGSTR1Builder("27AAPFU0939F1ZV", period)
	first, err := json.Marshal(b.Build(set))
	require.NoError(t, err)

	// Reversed input order must produce byte-identical output.
	reversed := make([]domain.ClassifiedInvoice, 0, len(set))
	for i := len(set) - 1; i >= 0; i-- {
		reversed = append(reversed, set[i])
	}
	second, err := json.Marshal(b.Build(reversed))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
