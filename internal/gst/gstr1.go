package gst

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"taxos/internal/domain"
	"taxos/internal/fiscal"
)

// InvoiceEntry is one itemized invoice line inside a GSTR-1 section,
// keyed the way the filing schema expects.
type InvoiceEntry struct {
	InvoiceNumber string          `json:"inum"`
	InvoiceDate   string          `json:"idt"`
	GSTIN         string          `json:"ctin,omitempty"`
	PlaceOfSupply string          `json:"pos,omitempty"`
	Rate          decimal.Decimal `json:"rt"`
	TaxableValue  decimal.Decimal `json:"txval"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	Cess          decimal.Decimal `json:"cess"`
	// NoteRef links a credit/debit note back to its original invoice.
	NoteRef  string          `json:"ont_num,omitempty"`
	NoteType domain.NoteType `json:"ntty,omitempty"`
}

// B2CSEntry is one consolidated small-consumer summary line.
type B2CSEntry struct {
	PlaceOfSupply string          `json:"pos"`
	Rate          decimal.Decimal `json:"rt"`
	TaxableValue  decimal.Decimal `json:"txval"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	Cess          decimal.Decimal `json:"cess"`
	Count         int             `json:"cnt"`
}

// HSNEntry is one (hsn, uqc) group in the HSN summary.
type HSNEntry struct {
	HSNCode      string          `json:"hsn_sc"`
	UQC          string          `json:"uqc"`
	Quantity     decimal.Decimal `json:"qty"`
	TaxableValue decimal.Decimal `json:"txval"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
}

// SectionTotals carries a section's taxable value and head-wise tax.
type SectionTotals struct {
	Count        int             `json:"count"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	Tax          domain.TaxHeads `json:"tax"`
}

// GSTR1Payload is the canonical outward-supply return payload.
type GSTR1Payload struct {
	GSTIN         string `json:"gstin"`
	Period        string `json:"ret_period"`
	FinancialYear string `json:"fy"`

	B2B    []InvoiceEntry `json:"b2b"`
	B2CL   []InvoiceEntry `json:"b2cl"`
	B2CS   []B2CSEntry    `json:"b2cs"`
	CDNR   []InvoiceEntry `json:"cdnr"`
	Export []InvoiceEntry `json:"exp"`
	Nil    []InvoiceEntry `json:"nil"`
	HSN    []HSNEntry     `json:"hsn"`

	SectionTotals map[domain.InvoiceCategory]SectionTotals `json:"section_totals"`
	// GrandTotal covers outward supplies; notes are tracked separately.
	GrandTotal SectionTotals `json:"grand_total"`
	NoteTotal  SectionTotals `json:"note_total"`
}

// GSTR1Builder aggregates classified invoices into a GSTR-1 payload.
type GSTR1Builder struct {
	gstin  string
	period time.Time
}

// NewGSTR1Builder creates a builder for one (gstin, period).
func NewGSTR1Builder(gstin string, period time.Time) *GSTR1Builder {
	return &GSTR1Builder{gstin: gstin, period: period}
}

func entryFrom(ci *domain.ClassifiedInvoice) InvoiceEntry {
	return InvoiceEntry{
		InvoiceNumber: ci.InvoiceNumber,
		InvoiceDate:   ci.InvoiceDate.Format("02-01-2006"),
		GSTIN:         ci.CounterpartyGSTIN,
		PlaceOfSupply: ci.PlaceOfSupply,
		Rate:          ci.Rate,
		TaxableValue:  ci.Tax.TaxableValue,
		CGST:          ci.Tax.CGST,
		SGST:          ci.Tax.SGST,
		IGST:          ci.Tax.IGST,
		Cess:          ci.Tax.Cess,
		NoteRef:       ci.NoteRef,
		NoteType:      ci.NoteType,
	}
}

func addTotals(t *SectionTotals, ci *domain.ClassifiedInvoice) {
	t.Count++
	t.TaxableValue = t.TaxableValue.Add(ci.Tax.TaxableValue)
	t.Tax = t.Tax.Add(domain.TaxHeads{
		CGST: ci.Tax.CGST, SGST: ci.Tax.SGST,
		IGST: ci.Tax.IGST, Cess: ci.Tax.Cess,
	})
}

// Build groups classified invoices into sections, consolidates B2CS,
// computes the HSN summary and section totals. Deterministic for a fixed
// input set regardless of input order.
func (b *GSTR1Builder) Build(invs []domain.ClassifiedInvoice) *GSTR1Payload {
	sorted := make([]domain.ClassifiedInvoice, len(invs))
	copy(sorted, invs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].InvoiceNumber < sorted[j].InvoiceNumber
	})

	p := &GSTR1Payload{
		GSTIN:         b.gstin,
		Period:        fiscal.ReturnPeriod(b.period),
		FinancialYear: fiscal.FinancialYear(b.period),
		B2B:           []InvoiceEntry{},
		B2CL:          []InvoiceEntry{},
		B2CS:          []B2CSEntry{},
		CDNR:          []InvoiceEntry{},
		Export:        []InvoiceEntry{},
		Nil:           []InvoiceEntry{},
		SectionTotals: make(map[domain.InvoiceCategory]SectionTotals),
	}

	for i := range sorted {
		ci := &sorted[i]
		st := p.SectionTotals[ci.Category]
		addTotals(&st, ci)
		p.SectionTotals[ci.Category] = st

		switch ci.Category {
		case domain.CategoryB2B:
			p.B2B = append(p.B2B, entryFrom(ci))
		case domain.CategoryB2CL:
			p.B2CL = append(p.B2CL, entryFrom(ci))
		case domain.CategoryExport:
			p.Export = append(p.Export, entryFrom(ci))
		case domain.CategoryNil:
			p.Nil = append(p.Nil, entryFrom(ci))
		case domain.CategoryCreditNote, domain.CategoryDebitNote:
			p.CDNR = append(p.CDNR, entryFrom(ci))
			addTotals(&p.NoteTotal, ci)
			continue
		}
		addTotals(&p.GrandTotal, ci)
	}

	for _, s := range ConsolidateB2CS(sorted) {
		p.B2CS = append(p.B2CS, B2CSEntry{
			PlaceOfSupply: s.StateCode,
			Rate:          s.Rate,
			TaxableValue:  s.TaxableValue,
			CGST:          s.Tax.CGST,
			SGST:          s.Tax.SGST,
			IGST:          s.Tax.IGST,
			Cess:          s.Tax.Cess,
			Count:         s.Count,
		})
	}
	p.HSN = hsnSummary(sorted)
	return p
}

// hsnSummary groups all line items by (hsn, uqc) independent of invoice
// category, notes included.
func hsnSummary(invs []domain.ClassifiedInvoice) []HSNEntry {
	type key struct{ hsn, uqc string }
	groups := make(map[key]*HSNEntry)
	for i := range invs {
		ci := &invs[i]
		k := key{hsn: ci.HSNCode, uqc: ci.UQC}
		g, ok := groups[k]
		if !ok {
			g = &HSNEntry{HSNCode: k.hsn, UQC: k.uqc}
			groups[k] = g
		}
		g.Quantity = g.Quantity.Add(ci.Quantity)
		g.TaxableValue = g.TaxableValue.Add(ci.Tax.TaxableValue)
		g.CGST = g.CGST.Add(ci.Tax.CGST)
		g.SGST = g.SGST.Add(ci.Tax.SGST)
		g.IGST = g.IGST.Add(ci.Tax.IGST)
		g.Cess = g.Cess.Add(ci.Tax.Cess)
	}

	out := make([]HSNEntry, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HSNCode != out[j].HSNCode {
			return out[i].HSNCode < out[j].HSNCode
		}
		return out[i].UQC < out[j].UQC
	})
	return out
}
