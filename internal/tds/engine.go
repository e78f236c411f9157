// Package tds computes withheld-tax deductions, groups them into challan
// batches and issues deduction certificates from deposited challans.
package tds

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxos/internal/domain"
	"taxos/internal/fiscal"
)

var hundred = decimal.NewFromInt(100)

// ComputeDeduction computes the withheld tax for one vendor payment. A
// lower-deduction certificate rate, when present, replaces the section
// rate. Surcharge and cess are zero for resident payees.
func ComputeDeduction(
	vendorID, section string,
	gross decimal.Decimal,
	rate decimal.Decimal,
	lowerRate *decimal.Decimal,
	paymentDate time.Time,
) (domain.TDSDeduction, error) {
	if gross.IsNegative() {
		return domain.TDSDeduction{}, domain.ErrNegativeAmount
	}
	effective := rate
	if lowerRate != nil {
		effective = *lowerRate
	}
	if effective.IsNegative() {
		return domain.TDSDeduction{}, domain.ErrInvalidRate
	}

	return domain.TDSDeduction{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Section:       section,
		GrossAmount:   gross,
		Rate:          rate,
		LowerRate:     lowerRate,
		TaxAmount:     gross.Mul(effective).Div(hundred).Round(2),
		PaymentDate:   paymentDate,
		FinancialYear: fiscal.FinancialYear(paymentDate),
		Quarter:       fiscal.Quarter(paymentDate),
	}, nil
}

// ChallanNumber formats a challan identifier, monotonic within
// (financial year, quarter).
func ChallanNumber(fy string, quarter, seq int) string {
	return fmt.Sprintf("CHL-%s-Q%d-%04d", fy, quarter, seq)
}

// CertificateNumber formats a certificate identifier, monotonic within
// (financial year, quarter).
func CertificateNumber(fy string, quarter, seq int) string {
	return fmt.Sprintf("CERT-%s-Q%d-%04d", fy, quarter, seq)
}

// BuildChallan groups the unlinked deductions of one (financial year,
// quarter) into a challan carrying the given sequence number. Deductions
// already linked to a challan, or from other periods, are rejected.
func BuildChallan(fy string, quarter, seq int, deds []domain.TDSDeduction) (domain.TDSChallan, error) {
	if len(deds) == 0 {
		return domain.TDSChallan{}, domain.ErrNoUnlinkedDeductions
	}

	ch := domain.TDSChallan{
		ID:            uuid.New(),
		ChallanNumber: ChallanNumber(fy, quarter, seq),
		Sequence:      seq,
		FinancialYear: fy,
		Quarter:       quarter,
		Status:        domain.ChallanStatusPending,
	}
	for i := range deds {
		d := &deds[i]
		if d.ChallanRef != nil {
			return domain.TDSChallan{}, fmt.Errorf("deduction %s already linked to %s: %w",
				d.ID, *d.ChallanRef, domain.ErrDeductionLinked)
		}
		if d.FinancialYear != fy || d.Quarter != quarter {
			return domain.TDSChallan{}, fmt.Errorf("deduction %s belongs to %s Q%d, challan is %s Q%d",
				d.ID, d.FinancialYear, d.Quarter, fy, quarter)
		}
		ch.AmountTotal = ch.AmountTotal.Add(d.TaxAmount)
		ch.DeductionRefs = append(ch.DeductionRefs, d.ID)
	}
	return ch, nil
}

// BuildCertificate issues a deduction certificate for one (vendor,
// financial year, quarter) from the vendor's deposited, challan-linked
// deductions. At least one qualifying deduction is required.
func BuildCertificate(
	vendorID, fy string,
	quarter, seq int,
	deds []domain.TDSDeduction,
	depositedChallans map[string]bool,
	issuedAt time.Time,
) (domain.TDSCertificate, error) {
	cert := domain.TDSCertificate{
		ID:                uuid.New(),
		CertificateNumber: CertificateNumber(fy, quarter, seq),
		Sequence:          seq,
		VendorID:          vendorID,
		FinancialYear:     fy,
		Quarter:           quarter,
		IssuedAt:          issuedAt,
	}
	for i := range deds {
		d := &deds[i]
		if d.VendorID != vendorID || d.FinancialYear != fy || d.Quarter != quarter {
			continue
		}
		if d.ChallanRef == nil || !depositedChallans[*d.ChallanRef] {
			continue
		}
		cert.GrossTotal = cert.GrossTotal.Add(d.GrossAmount)
		cert.TaxTotal = cert.TaxTotal.Add(d.TaxAmount)
		cert.DeductionCount++
	}
	if cert.DeductionCount == 0 {
		return domain.TDSCertificate{}, domain.ErrNoDepositedDeductions
	}
	return cert, nil
}
