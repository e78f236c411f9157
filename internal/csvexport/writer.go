package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"taxos/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the reconciliation report header row.
var columns = []string{
	"Counterparty GSTIN",
	"Invoice Number",
	"Match Status",
	"Fuzzy Matched",
	"Ambiguous",
	"Books Taxable",
	"Books Tax",
	"Feed Taxable",
	"Feed Tax",
	"Difference",
	"Feed Invoice Number",
}

// Writer wraps csv.Writer for exporting reconciliation units as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteUnits converts a batch of reconciliation units to CSV rows and
// writes them.
func (w *Writer) WriteUnits(units []domain.ReconUnit) error {
	for i := range units {
		row := unitToRow(&units[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func unitToRow(u *domain.ReconUnit) []string {
	return []string{
		u.GSTIN,
		u.InvoiceNumber,
		string(u.MatchStatus),
		strconv.FormatBool(u.FuzzyMatched),
		strconv.FormatBool(u.Ambiguous),
		u.BooksTaxable.StringFixed(2),
		u.BooksTax.StringFixed(2),
		u.FeedTaxable.StringFixed(2),
		u.FeedTax.StringFixed(2),
		u.Difference.StringFixed(2),
		u.FeedInvoiceNumber,
	}
}
