package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"taxos/internal/gst"
)

// invoiceHeader is the column layout shared by the itemized sheets.
var invoiceHeader = []interface{}{
	"Invoice Number", "Invoice Date", "Counterparty GSTIN", "Place of Supply",
	"Rate", "Taxable Value", "CGST", "SGST", "IGST", "Cess", "Note Ref", "Note Type",
}

// WorkbookWriter renders a GSTR-1 payload as an Excel workbook, one sheet
// per section plus the HSN summary.
type WorkbookWriter struct {
	payload *gst.GSTR1Payload
}

// NewWorkbookWriter creates a writer for the given payload.
func NewWorkbookWriter(payload *gst.GSTR1Payload) *WorkbookWriter {
	return &WorkbookWriter{payload: payload}
}

// WriteTo renders the workbook and streams it to w.
func (ww *WorkbookWriter) WriteTo(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sections := []struct {
		name    string
		entries []gst.InvoiceEntry
	}{
		{"B2B", ww.payload.B2B},
		{"B2CL", ww.payload.B2CL},
		{"CDNR", ww.payload.CDNR},
		{"EXP", ww.payload.Export},
		{"NIL", ww.payload.Nil},
	}
	for _, s := range sections {
		if err := ww.writeInvoiceSheet(f, s.name, s.entries); err != nil {
			return err
		}
	}
	if err := ww.writeB2CSSheet(f); err != nil {
		return err
	}
	if err := ww.writeHSNSheet(f); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on B2B.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("deleting default sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (ww *WorkbookWriter) writeInvoiceSheet(f *excelize.File, name string, entries []gst.InvoiceEntry) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &invoiceHeader); err != nil {
		return err
	}
	for i := range entries {
		e := &entries[i]
		row := []interface{}{
			e.InvoiceNumber, e.InvoiceDate, e.GSTIN, e.PlaceOfSupply,
			e.Rate.InexactFloat64(), e.TaxableValue.InexactFloat64(),
			e.CGST.InexactFloat64(), e.SGST.InexactFloat64(),
			e.IGST.InexactFloat64(), e.Cess.InexactFloat64(),
			e.NoteRef, string(e.NoteType),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (ww *WorkbookWriter) writeB2CSSheet(f *excelize.File) error {
	const name = "B2CS"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	header := []interface{}{
		"Place of Supply", "Rate", "Taxable Value", "CGST", "SGST", "IGST", "Cess", "Invoice Count",
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i := range ww.payload.B2CS {
		e := &ww.payload.B2CS[i]
		row := []interface{}{
			e.PlaceOfSupply, e.Rate.InexactFloat64(), e.TaxableValue.InexactFloat64(),
			e.CGST.InexactFloat64(), e.SGST.InexactFloat64(),
			e.IGST.InexactFloat64(), e.Cess.InexactFloat64(), e.Count,
		}
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (ww *WorkbookWriter) writeHSNSheet(f *excelize.File) error {
	const name = "HSN"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	header := []interface{}{
		"HSN Code", "UQC", "Quantity", "Taxable Value", "CGST", "SGST", "IGST", "Cess",
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i := range ww.payload.HSN {
		e := &ww.payload.HSN[i]
		row := []interface{}{
			e.HSNCode, e.UQC, e.Quantity.InexactFloat64(), e.TaxableValue.InexactFloat64(),
			e.CGST.InexactFloat64(), e.SGST.InexactFloat64(),
			e.IGST.InexactFloat64(), e.Cess.InexactFloat64(),
		}
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
