// Package gst classifies outward supplies into regulatory buckets and
// builds the GSTR-1 and GSTR-3B return payloads from them.
package gst

import (
	"sort"

	"github.com/shopspring/decimal"

	"taxos/internal/domain"
	"taxos/internal/tax"
)

// DefaultB2CLThreshold is the statutory large-invoice cutoff for
// unregistered inter-state supplies (2.5 lakh).
var DefaultB2CLThreshold = decimal.NewFromInt(250000)

// Classifier sorts outward invoices into regulatory categories.
type Classifier struct {
	b2clThreshold decimal.Decimal
}

// NewClassifier creates a Classifier with the given B2CL threshold; a zero
// threshold falls back to the statutory default.
func NewClassifier(b2clThreshold decimal.Decimal) *Classifier {
	if b2clThreshold.IsZero() {
		b2clThreshold = DefaultB2CLThreshold
	}
	return &Classifier{b2clThreshold: b2clThreshold}
}

// Classify computes the tax split for one invoice and assigns its
// category. Precedence: note → export → B2B → B2CL → NIL → B2CS.
func (c *Classifier) Classify(inv domain.OutwardInvoice) (domain.ClassifiedInvoice, error) {
	split, err := tax.Compute(inv.Line())
	if err != nil {
		return domain.ClassifiedInvoice{}, err
	}

	out := domain.ClassifiedInvoice{OutwardInvoice: inv, Tax: split}
	switch {
	case inv.NoteRef != "" && inv.NoteType == domain.NoteTypeDebit:
		out.Category = domain.CategoryDebitNote
	case inv.NoteRef != "":
		out.Category = domain.CategoryCreditNote
	case inv.IsExport:
		out.Category = domain.CategoryExport
	case inv.Rate.IsZero():
		// Nil-rated supplies report in their own section regardless of the
		// counterparty's registration.
		out.Category = domain.CategoryNil
	case inv.CounterpartyRegistered:
		out.Category = domain.CategoryB2B
	case inv.IsInterState && split.TaxableValue.GreaterThan(c.b2clThreshold):
		out.Category = domain.CategoryB2CL
	default:
		out.Category = domain.CategoryB2CS
	}
	return out, nil
}

// ClassifyBatch classifies a snapshot of invoices. Records with bad rates
// or amounts are collected as per-record errors; the rest of the batch is
// still classified.
func (c *Classifier) ClassifyBatch(invs []domain.OutwardInvoice) ([]domain.ClassifiedInvoice, []domain.RecordError) {
	classified := make([]domain.ClassifiedInvoice, 0, len(invs))
	var errs []domain.RecordError
	for i := range invs {
		ci, err := c.Classify(invs[i])
		if err != nil {
			errs = append(errs, domain.RecordError{
				RecordID: invs[i].InvoiceNumber,
				Rule:     "classify",
				Message:  err.Error(),
			})
			continue
		}
		classified = append(classified, ci)
	}
	return classified, errs
}

// B2CSSummary is one consolidated small-consumer line for a
// (destination state, rate) pair within a period.
type B2CSSummary struct {
	StateCode    string          `json:"state_code"`
	Rate         decimal.Decimal `json:"rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	Tax          domain.TaxHeads `json:"tax"`
	Count        int             `json:"count"`
}

// ConsolidateB2CS merges B2CS invoices into one summary line per
// (destination state, rate). Output order is deterministic.
func ConsolidateB2CS(invs []domain.ClassifiedInvoice) []B2CSSummary {
	type key struct {
		state string
		rate  string
	}
	groups := make(map[key]*B2CSSummary)
	for i := range invs {
		if invs[i].Category != domain.CategoryB2CS {
			continue
		}
		k := key{state: invs[i].PlaceOfSupply, rate: invs[i].Rate.String()}
		g, ok := groups[k]
		if !ok {
			g = &B2CSSummary{StateCode: k.state, Rate: invs[i].Rate}
			groups[k] = g
		}
		g.TaxableValue = g.TaxableValue.Add(invs[i].Tax.TaxableValue)
		g.Tax = g.Tax.Add(domain.TaxHeads{
			CGST: invs[i].Tax.CGST,
			SGST: invs[i].Tax.SGST,
			IGST: invs[i].Tax.IGST,
			Cess: invs[i].Tax.Cess,
		})
		g.Count++
	}

	out := make([]B2CSSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StateCode != out[j].StateCode {
			return out[i].StateCode < out[j].StateCode
		}
		return out[i].Rate.LessThan(out[j].Rate)
	})
	return out
}
