package gst

import (
	"github.com/shopspring/decimal"

	"taxos/internal/domain"
)

// Utilization records how much credit from each head was applied against
// each liability head during set-off.
type Utilization struct {
	IGSTToIGST decimal.Decimal `json:"igst_to_igst"`
	IGSTToCGST decimal.Decimal `json:"igst_to_cgst"`
	IGSTToSGST decimal.Decimal `json:"igst_to_sgst"`
	CGSTToCGST decimal.Decimal `json:"cgst_to_cgst"`
	CGSTToIGST decimal.Decimal `json:"cgst_to_igst"`
	SGSTToSGST decimal.Decimal `json:"sgst_to_sgst"`
	SGSTToIGST decimal.Decimal `json:"sgst_to_igst"`
}

// apply offsets up to avail of liability, returning the amount used.
// Negative balances on either side contribute nothing.
func apply(liability, credit *decimal.Decimal) decimal.Decimal {
	used := decimal.Max(decimal.Zero, decimal.Min(*liability, *credit))
	*liability = liability.Sub(used)
	*credit = credit.Sub(used)
	return used
}

// SetOff applies the mandated credit utilization order and returns the
// per-pair utilization and the cash payable per head.
//
// Order: IGST credit against IGST, then CGST, then SGST liability; CGST
// credit against CGST then IGST; SGST credit against SGST then IGST.
// CGST credit never offsets SGST liability, nor the reverse. Cess credit
// offsets only cess liability.
func SetOff(liability, credit domain.TaxHeads) (Utilization, domain.TaxHeads) {
	var u Utilization

	u.IGSTToIGST = apply(&liability.IGST, &credit.IGST)
	u.IGSTToCGST = apply(&liability.CGST, &credit.IGST)
	u.IGSTToSGST = apply(&liability.SGST, &credit.IGST)

	u.CGSTToCGST = apply(&liability.CGST, &credit.CGST)
	u.CGSTToIGST = apply(&liability.IGST, &credit.CGST)

	u.SGSTToSGST = apply(&liability.SGST, &credit.SGST)
	u.SGSTToIGST = apply(&liability.IGST, &credit.SGST)

	apply(&liability.Cess, &credit.Cess)

	// What remains of the liability is payable in cash.
	return u, liability
}
