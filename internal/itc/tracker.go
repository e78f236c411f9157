// Package itc tracks per-invoice input tax credit eligibility under the
// statutory 180-day payment rule.
package itc

import (
	"fmt"
	"time"

	"taxos/internal/domain"
)

// PaymentRuleDays is the statutory payment window from invoice date.
const PaymentRuleDays = 180

// DefaultWarningWindowDays is how close to the deadline a record moves to
// at_risk when payment is still outstanding.
const DefaultWarningWindowDays = 15

// Tracker evaluates ITC records against eligibility conditions and the
// payment deadline.
//
// Boundary convention: the deadline is invoice date + 180 days, and
// payment on the deadline day itself still qualifies. A record expires
// from day 181 onward.
type Tracker struct {
	warningWindowDays int
}

// NewTracker creates a Tracker; warningWindowDays <= 0 uses the default.
func NewTracker(warningWindowDays int) *Tracker {
	if warningWindowDays <= 0 {
		warningWindowDays = DefaultWarningWindowDays
	}
	return &Tracker{warningWindowDays: warningWindowDays}
}

// Register initialises a fresh record for a purchase invoice entering the
// system.
func (t *Tracker) Register(rec *domain.ITCRecord) {
	rec.PaymentDeadline = rec.InvoiceDate.AddDate(0, 0, PaymentRuleDays)
	rec.Status = domain.ITCStatusPending
	rec.ClaimStatus = domain.ClaimStatusPending
}

// ApplyEvent flips one condition and re-evaluates the record as of the
// event time. Events on a reversed record are rejected; that identity is
// dead and the credit can only come back as a new invoice reference.
func (t *Tracker) ApplyEvent(rec *domain.ITCRecord, ev domain.ITCEvent, at time.Time) error {
	if rec.Status == domain.ITCStatusReversed {
		return fmt.Errorf("applying %s to %s: %w", ev, rec.InvoiceRef, domain.ErrReversedRecord)
	}
	switch ev {
	case domain.ITCEventGoodsReceived:
		rec.GoodsReceived = true
	case domain.ITCEventInvoiceReceived:
		rec.InvoiceReceived = true
	case domain.ITCEventPaymentMade:
		rec.PaymentMade = true
		paid := at
		rec.PaymentDate = &paid
	case domain.ITCEventFeedMatched:
		rec.FeedMatched = true
		rec.FeedMismatched = false
	case domain.ITCEventFeedMismatch:
		rec.FeedMismatched = true
		rec.FeedMatched = false
	default:
		return fmt.Errorf("unknown ITC event %q", ev)
	}
	t.Evaluate(rec, at)
	return nil
}

// Evaluate recomputes the record's status as of the given time and
// returns it. Claimed and reversed are sticky except for expiry, which
// flags claimed credit for mandatory reversal.
func (t *Tracker) Evaluate(rec *domain.ITCRecord, asOf time.Time) domain.ITCStatus {
	if rec.Status == domain.ITCStatusReversed {
		return rec.Status
	}

	paidInTime := rec.PaymentMade &&
		rec.PaymentDate != nil &&
		!rec.PaymentDate.After(rec.PaymentDeadline)

	// Expiry is unconditional once the deadline passes unpaid.
	if !paidInTime && asOf.After(rec.PaymentDeadline) {
		rec.IsExpired = true
		if rec.ClaimStatus == domain.ClaimStatusClaimed {
			rec.ReversalRequired = true
		} else {
			rec.ClaimStatus = domain.ClaimStatusLapsed
		}
		rec.Status = domain.ITCStatusExpired
		return rec.Status
	}

	if rec.Status == domain.ITCStatusClaimed {
		return rec.Status
	}

	if rec.FeedMismatched {
		rec.Status = domain.ITCStatusIneligible
		return rec.Status
	}

	otherConditions := rec.GoodsReceived && rec.InvoiceReceived && rec.FeedMatched
	switch {
	case otherConditions && paidInTime:
		rec.Status = domain.ITCStatusEligible
	case otherConditions && !rec.PaymentMade && withinWindow(asOf, rec.PaymentDeadline, t.warningWindowDays):
		rec.Status = domain.ITCStatusAtRisk
	default:
		rec.Status = domain.ITCStatusPending
	}
	return rec.Status
}

// Claim moves an eligible record to claimed.
func (t *Tracker) Claim(rec *domain.ITCRecord, asOf time.Time) error {
	if t.Evaluate(rec, asOf) != domain.ITCStatusEligible {
		return fmt.Errorf("claiming %s: %w", rec.InvoiceRef, domain.ErrNotClaimable)
	}
	rec.Status = domain.ITCStatusClaimed
	rec.ClaimStatus = domain.ClaimStatusClaimed
	return nil
}

// Reverse marks claimed credit as reversed. Irreversible within a period.
func (t *Tracker) Reverse(rec *domain.ITCRecord) error {
	if rec.ClaimStatus != domain.ClaimStatusClaimed {
		return fmt.Errorf("reversing %s: %w", rec.InvoiceRef, domain.ErrNotClaimable)
	}
	rec.Status = domain.ITCStatusReversed
	rec.ClaimStatus = domain.ClaimStatusReversed
	rec.ReversalRequired = false
	return nil
}

func withinWindow(asOf, deadline time.Time, days int) bool {
	return !asOf.After(deadline) && deadline.Sub(asOf) <= time.Duration(days)*24*time.Hour
}

// Report aggregates a record set into head-wise totals per status bucket.
type Report struct {
	Eligible   domain.TaxHeads `json:"eligible"`
	AtRisk     domain.TaxHeads `json:"at_risk"`
	Ineligible domain.TaxHeads `json:"ineligible"`
	Expired    domain.TaxHeads `json:"expired"`
	// ReversalDue is claimed credit that expired and must be paid back.
	ReversalDue domain.TaxHeads    `json:"reversal_due"`
	Counts      map[domain.ITCStatus]int `json:"counts"`
}

// BuildReport evaluates every record as of asOf and aggregates totals.
func (t *Tracker) BuildReport(recs []domain.ITCRecord, asOf time.Time) Report {
	rep := Report{Counts: make(map[domain.ITCStatus]int)}
	for i := range recs {
		status := t.Evaluate(&recs[i], asOf)
		rep.Counts[status]++
		switch status {
		case domain.ITCStatusEligible, domain.ITCStatusClaimed:
			rep.Eligible = rep.Eligible.Add(recs[i].Tax)
		case domain.ITCStatusAtRisk:
			rep.AtRisk = rep.AtRisk.Add(recs[i].Tax)
		case domain.ITCStatusIneligible:
			rep.Ineligible = rep.Ineligible.Add(recs[i].Tax)
		case domain.ITCStatusExpired:
			rep.Expired = rep.Expired.Add(recs[i].Tax)
			if recs[i].ReversalRequired {
				rep.ReversalDue = rep.ReversalDue.Add(recs[i].Tax)
			}
		}
	}
	return rep
}
