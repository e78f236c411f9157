package xlsxexport

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"taxos/internal/gst"
)

func samplePayload() *gst.GSTR1Payload {
	return &gst.GSTR1Payload{
		GSTIN:  "27AAPFU0939F1ZV",
		Period: "022025",
		B2B: []gst.InvoiceEntry{
			{
				InvoiceNumber: "INV-001",
				InvoiceDate:   "10-02-2025",
				GSTIN:         "29AABCT1332L1ZU",
				PlaceOfSupply: "29",
				Rate:          decimal.NewFromInt(18),
				TaxableValue:  decimal.NewFromInt(10000),
				IGST:          decimal.NewFromInt(1800),
			},
		},
		B2CS: []gst.B2CSEntry{
			{
				PlaceOfSupply: "27",
				Rate:          decimal.NewFromInt(5),
				TaxableValue:  decimal.NewFromInt(4000),
				CGST:          decimal.NewFromInt(100),
				SGST:          decimal.NewFromInt(100),
				Count:         3,
			},
		},
		HSN: []gst.HSNEntry{
			{
				HSNCode:      "8471",
				UQC:          "NOS",
				Quantity:     decimal.NewFromInt(5),
				TaxableValue: decimal.NewFromInt(10000),
				IGST:         decimal.NewFromInt(1800),
			},
		},
	}
}

func TestWorkbook_SheetsAndCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter(samplePayload()).WriteTo(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	for _, want := range []string{"B2B", "B2CL", "B2CS", "CDNR", "EXP", "NIL", "HSN"} {
		assert.Contains(t, sheets, want)
	}
	assert.NotContains(t, sheets, "Sheet1")

	inum, err := f.GetCellValue("B2B", "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV-001", inum)

	igst, err := f.GetCellValue("B2B", "I2")
	require.NoError(t, err)
	assert.Equal(t, "1800", igst)

	count, err := f.GetCellValue("B2CS", "H2")
	require.NoError(t, err)
	assert.Equal(t, "3", count)

	hsn, err := f.GetCellValue("HSN", "A2")
	require.NoError(t, err)
	assert.Equal(t, "8471", hsn)
}

func TestWorkbook_EmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter(&gst.GSTR1Payload{}).WriteTo(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	header, err := f.GetCellValue("B2B", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Number", header)
}
