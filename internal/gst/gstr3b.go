package gst

import (
	"time"

	"github.com/shopspring/decimal"

	"taxos/internal/domain"
	"taxos/internal/fiscal"
)

// LiabilitySection is table 3.1 of the summary return: outward and
// reverse-charge inward liabilities split by tax head.
type LiabilitySection struct {
	OutwardTaxableValue decimal.Decimal `json:"outward_taxable_value"`
	OutwardTax          domain.TaxHeads `json:"outward_tax"`
	ZeroRatedValue      decimal.Decimal `json:"zero_rated_value"`
	NilExemptValue      decimal.Decimal `json:"nil_exempt_value"`
	ReverseChargeValue  decimal.Decimal `json:"reverse_charge_value"`
	ReverseChargeTax    domain.TaxHeads `json:"reverse_charge_tax"`
}

// ITCSection is table 4: claimed input credit by source, minus reversals.
type ITCSection struct {
	Import        domain.TaxHeads `json:"import"`
	ReverseCharge domain.TaxHeads `json:"reverse_charge"`
	ISD           domain.TaxHeads `json:"isd"`
	Other         domain.TaxHeads `json:"other"`
	Reversed      domain.TaxHeads `json:"reversed"`
	Net           domain.TaxHeads `json:"net"`
}

// GSTR3BPayload is the canonical summary-return payload: liability, net
// ITC, credit utilization and cash payable per head.
type GSTR3BPayload struct {
	GSTIN         string `json:"gstin"`
	Period        string `json:"ret_period"`
	FinancialYear string `json:"fy"`

	Liability   LiabilitySection `json:"liability"`
	ITC         ITCSection       `json:"itc"`
	Utilization Utilization      `json:"utilization"`
	CashPayable domain.TaxHeads  `json:"cash_payable"`
}

// GSTR3BBuilder aggregates outward classifications, inward supplies and
// ITC reversals into a GSTR-3B payload.
type GSTR3BBuilder struct {
	gstin  string
	period time.Time
}

// NewGSTR3BBuilder creates a builder for one (gstin, period).
func NewGSTR3BBuilder(gstin string, period time.Time) *GSTR3BBuilder {
	return &GSTR3BBuilder{gstin: gstin, period: period}
}

// Build computes the liability and ITC sections and runs the set-off
// cascade. Reversals come from the eligibility tracker as head-wise
// amounts flagged for mandatory reversal this period.
func (b *GSTR3BBuilder) Build(
	outward []domain.ClassifiedInvoice,
	inward []domain.InwardSupply,
	reversals domain.TaxHeads,
) *GSTR3BPayload {
	p := &GSTR3BPayload{
		GSTIN:         b.gstin,
		Period:        fiscal.ReturnPeriod(b.period),
		FinancialYear: fiscal.FinancialYear(b.period),
	}

	for i := range outward {
		ci := &outward[i]
		switch ci.Category {
		case domain.CategoryExport:
			p.Liability.ZeroRatedValue = p.Liability.ZeroRatedValue.Add(ci.Tax.TaxableValue)
		case domain.CategoryNil:
			p.Liability.NilExemptValue = p.Liability.NilExemptValue.Add(ci.Tax.TaxableValue)
		case domain.CategoryCreditNote, domain.CategoryDebitNote:
			// Notes adjust the original period's liability, not this one.
		default:
			p.Liability.OutwardTaxableValue = p.Liability.OutwardTaxableValue.Add(ci.Tax.TaxableValue)
			p.Liability.OutwardTax = p.Liability.OutwardTax.Add(domain.TaxHeads{
				CGST: ci.Tax.CGST, SGST: ci.Tax.SGST,
				IGST: ci.Tax.IGST, Cess: ci.Tax.Cess,
			})
		}
	}

	for i := range inward {
		s := &inward[i]
		if s.ReverseCharge {
			p.Liability.ReverseChargeValue = p.Liability.ReverseChargeValue.Add(s.TaxableValue)
			p.Liability.ReverseChargeTax = p.Liability.ReverseChargeTax.Add(s.Tax)
		}
		switch s.Source {
		case domain.ITCSourceImport:
			p.ITC.Import = p.ITC.Import.Add(s.Tax)
		case domain.ITCSourceReverseCharge:
			p.ITC.ReverseCharge = p.ITC.ReverseCharge.Add(s.Tax)
		case domain.ITCSourceISD:
			p.ITC.ISD = p.ITC.ISD.Add(s.Tax)
		default:
			p.ITC.Other = p.ITC.Other.Add(s.Tax)
		}
	}

	p.ITC.Reversed = reversals
	gross := p.ITC.Import.Add(p.ITC.ReverseCharge).Add(p.ITC.ISD).Add(p.ITC.Other)
	p.ITC.Net = domain.TaxHeads{
		CGST: gross.CGST.Sub(reversals.CGST),
		SGST: gross.SGST.Sub(reversals.SGST),
		IGST: gross.IGST.Sub(reversals.IGST),
		Cess: gross.Cess.Sub(reversals.Cess),
	}

	liability := p.Liability.OutwardTax.Add(p.Liability.ReverseChargeTax)
	p.Utilization, p.CashPayable = SetOff(liability, p.ITC.Net)
	return p
}
