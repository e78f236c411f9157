package gst

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxos/internal/domain"
)

// totalsErr reports one section whose stored aggregate drifted from the
// sum of its own entries.
func totalsErr(section string, want, got decimal.Decimal) error {
	return fmt.Errorf("%s totals drift: entries sum to %s, stored total is %s",
		section, got, want)
}

func sumEntries(entries []InvoiceEntry) SectionTotals {
	var t SectionTotals
	for i := range entries {
		e := &entries[i]
		t.Count++
		t.TaxableValue = t.TaxableValue.Add(e.TaxableValue)
		t.Tax = t.Tax.Add(domain.TaxHeads{
			CGST: e.CGST, SGST: e.SGST, IGST: e.IGST, Cess: e.Cess,
		})
	}
	return t
}

func checkSection(section string, entries []InvoiceEntry, stored SectionTotals) error {
	got := sumEntries(entries)
	if got.Count != stored.Count {
		return fmt.Errorf("%s count drift: %d entries, stored count is %d",
			section, got.Count, stored.Count)
	}
	if !got.TaxableValue.Equal(stored.TaxableValue) {
		return totalsErr(section, stored.TaxableValue, got.TaxableValue)
	}
	if !got.Tax.Total().Equal(stored.Tax.Total()) {
		return totalsErr(section+" tax", stored.Tax.Total(), got.Tax.Total())
	}
	return nil
}

// CheckTotals re-derives every section total and the grand total from the
// payload's own entries. Both sides of the books must agree before a
// return may be marked validated.
func (p *GSTR1Payload) CheckTotals() error {
	sections := []struct {
		name     string
		category domain.InvoiceCategory
		entries  []InvoiceEntry
	}{
		{"b2b", domain.CategoryB2B, p.B2B},
		{"b2cl", domain.CategoryB2CL, p.B2CL},
		{"exp", domain.CategoryExport, p.Export},
		{"nil", domain.CategoryNil, p.Nil},
	}

	var grand SectionTotals
	for _, s := range sections {
		if err := checkSection(s.name, s.entries, p.SectionTotals[s.category]); err != nil {
			return err
		}
		t := sumEntries(s.entries)
		grand.Count += t.Count
		grand.TaxableValue = grand.TaxableValue.Add(t.TaxableValue)
		grand.Tax = grand.Tax.Add(t.Tax)
	}

	// B2CS is consolidated, so entry counts cover invoices, not lines.
	var b2cs SectionTotals
	for i := range p.B2CS {
		e := &p.B2CS[i]
		b2cs.Count += e.Count
		b2cs.TaxableValue = b2cs.TaxableValue.Add(e.TaxableValue)
		b2cs.Tax = b2cs.Tax.Add(domain.TaxHeads{
			CGST: e.CGST, SGST: e.SGST, IGST: e.IGST, Cess: e.Cess,
		})
	}
	stored := p.SectionTotals[domain.CategoryB2CS]
	if !b2cs.TaxableValue.Equal(stored.TaxableValue) {
		return totalsErr("b2cs", stored.TaxableValue, b2cs.TaxableValue)
	}
	grand.Count += b2cs.Count
	grand.TaxableValue = grand.TaxableValue.Add(b2cs.TaxableValue)
	grand.Tax = grand.Tax.Add(b2cs.Tax)

	if !grand.TaxableValue.Equal(p.GrandTotal.TaxableValue) {
		return totalsErr("grand", p.GrandTotal.TaxableValue, grand.TaxableValue)
	}
	if !grand.Tax.Total().Equal(p.GrandTotal.Tax.Total()) {
		return totalsErr("grand tax", p.GrandTotal.Tax.Total(), grand.Tax.Total())
	}

	notes := sumEntries(p.CDNR)
	if !notes.TaxableValue.Equal(p.NoteTotal.TaxableValue) {
		return totalsErr("cdnr", p.NoteTotal.TaxableValue, notes.TaxableValue)
	}
	return nil
}

// CheckTotals verifies the set-off arithmetic: for each of the three main
// heads, liability must equal credit utilized plus cash payable, and cess
// usage must stay within the net cess credit.
func (p *GSTR3BPayload) CheckTotals() error {
	liability := p.Liability.OutwardTax.Add(p.Liability.ReverseChargeTax)
	u := p.Utilization

	igst := u.IGSTToIGST.Add(u.CGSTToIGST).Add(u.SGSTToIGST).Add(p.CashPayable.IGST)
	if !igst.Equal(liability.IGST) {
		return totalsErr("igst set-off", liability.IGST, igst)
	}
	cgst := u.IGSTToCGST.Add(u.CGSTToCGST).Add(p.CashPayable.CGST)
	if !cgst.Equal(liability.CGST) {
		return totalsErr("cgst set-off", liability.CGST, cgst)
	}
	sgst := u.IGSTToSGST.Add(u.SGSTToSGST).Add(p.CashPayable.SGST)
	if !sgst.Equal(liability.SGST) {
		return totalsErr("sgst set-off", liability.SGST, sgst)
	}

	cessUsed := liability.Cess.Sub(p.CashPayable.Cess)
	if cessUsed.IsNegative() || cessUsed.GreaterThan(decimal.Max(decimal.Zero, p.ITC.Net.Cess)) {
		return fmt.Errorf("cess set-off drift: %s used against %s net credit",
			cessUsed, p.ITC.Net.Cess)
	}
	return nil
}
