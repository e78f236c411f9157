// Package recon matches book-side purchase records against the
// counterparty-reported feed for a period.
package recon

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxos/internal/domain"
)

// DefaultTolerance is the value-comparison tolerance: one currency unit.
var DefaultTolerance = decimal.NewFromInt(1)

// DefaultFuzzyDateWindowDays bounds how far apart invoice dates may be for
// the fuzzy pass to consider two records the same transaction.
const DefaultFuzzyDateWindowDays = 0

// Matcher runs the exact and fuzzy reconciliation passes. A Matcher is
// stateless and safe for concurrent use across (company, period) pairs.
type Matcher struct {
	tolerance       decimal.Decimal
	fuzzyWindowDays int
	fuzzyEnabled    bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithTolerance overrides the value-comparison tolerance.
func WithTolerance(t decimal.Decimal) Option {
	return func(m *Matcher) { m.tolerance = t }
}

// WithFuzzyPass enables the secondary (GSTIN, date, amount) join with the
// given date window in days.
func WithFuzzyPass(windowDays int) Option {
	return func(m *Matcher) {
		m.fuzzyEnabled = true
		m.fuzzyWindowDays = windowDays
	}
}

// NewMatcher creates a Matcher with the default one-unit tolerance.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{tolerance: DefaultTolerance}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Tolerance returns the configured value-comparison tolerance.
func (m *Matcher) Tolerance() decimal.Decimal {
	return m.tolerance
}

// Result is one reconciliation outcome set.
type Result struct {
	Units   []domain.ReconUnit
	Summary domain.ReconSummary
}

// SummaryJSON marshals the summary for persistence.
func (r *Result) SummaryJSON() (json.RawMessage, error) {
	b, err := json.Marshal(r.Summary)
	if err != nil {
		return nil, fmt.Errorf("marshaling recon summary: %w", err)
	}
	return b, nil
}

// Run reconciles books against feed. Every input record lands in exactly
// one unit; the classification is deterministic and independent of input
// order. The fuzzy pass, when enabled, checks ctx each iteration so a
// large run can be cancelled between comparisons.
func (m *Matcher) Run(ctx context.Context, runID uuid.UUID, books, feed []domain.ReconRecord) (*Result, error) {
	bs := sortedCopy(books)
	fs := sortedCopy(feed)

	res := &Result{Units: make([]domain.ReconUnit, 0, len(bs)+len(fs))}
	var booksRest, feedRest []domain.ReconRecord

	// Exact pass: merge-join on (GSTIN, invoice number).
	i, j := 0, 0
	for i < len(bs) && j < len(fs) {
		bk, fk := bs[i].Key(), fs[j].Key()
		switch {
		case bk == fk:
			res.Units = append(res.Units, m.compare(runID, &bs[i], &fs[j], false))
			i++
			j++
		case bk < fk:
			booksRest = append(booksRest, bs[i])
			i++
		default:
			feedRest = append(feedRest, fs[j])
			j++
		}
	}
	booksRest = append(booksRest, bs[i:]...)
	feedRest = append(feedRest, fs[j:]...)

	if m.fuzzyEnabled {
		var err error
		booksRest, feedRest, err = m.fuzzyPass(ctx, runID, booksRest, feedRest, res)
		if err != nil {
			return nil, err
		}
	}

	for i := range booksRest {
		res.Units = append(res.Units, unmatchedUnit(runID, &booksRest[i], domain.MatchStatusOnlyInBooks))
	}
	for i := range feedRest {
		res.Units = append(res.Units, unmatchedUnit(runID, &feedRest[i], domain.MatchStatusOnlyInFeed))
	}

	res.Summary = summarize(res.Units, books, feed)
	return res, nil
}

// compare classifies an exact or fuzzy pair. Taxable value and tax amount
// are each held to the tolerance; the recorded difference is the signed
// total (taxable + tax) gap.
func (m *Matcher) compare(runID uuid.UUID, b, f *domain.ReconRecord, fuzzy bool) domain.ReconUnit {
	diff := b.Total().Sub(f.Total())
	taxableDiff := b.TaxableValue.Sub(f.TaxableValue).Abs()
	taxDiff := b.TotalTax.Sub(f.TotalTax).Abs()
	status := domain.MatchStatusMatched
	if taxableDiff.GreaterThan(m.tolerance) || taxDiff.GreaterThan(m.tolerance) {
		status = domain.MatchStatusValueMismatch
	}
	return domain.ReconUnit{
		ID:                uuid.New(),
		RunID:             runID,
		GSTIN:             b.GSTIN,
		InvoiceNumber:     b.InvoiceNumber,
		MatchStatus:       status,
		Difference:        diff,
		FuzzyMatched:      fuzzy,
		BooksTaxable:      b.TaxableValue,
		BooksTax:          b.TotalTax,
		FeedTaxable:       f.TaxableValue,
		FeedTax:           f.TotalTax,
		FeedInvoiceNumber: f.InvoiceNumber,
	}
}

// fuzzyPass re-joins the exact-pass remainders on (GSTIN, invoice date,
// amount within tolerance) to recover typo'd invoice numbers. A books
// record with more than one candidate is not silently resolved: it is
// reported as value_mismatch against the best candidate with the
// ambiguity flagged for a human reviewer.
func (m *Matcher) fuzzyPass(
	ctx context.Context,
	runID uuid.UUID,
	booksRest, feedRest []domain.ReconRecord,
	res *Result,
) ([]domain.ReconRecord, []domain.ReconRecord, error) {
	feedUsed := make([]bool, len(feedRest))
	var booksLeft []domain.ReconRecord

	for bi := range booksRest {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		b := &booksRest[bi]

		best := -1
		candidates := 0
		var bestDiff decimal.Decimal
		for fi := range feedRest {
			if feedUsed[fi] {
				continue
			}
			f := &feedRest[fi]
			if f.GSTIN != b.GSTIN {
				continue
			}
			days := b.InvoiceDate.Sub(f.InvoiceDate).Hours() / 24
			if days < 0 {
				days = -days
			}
			if days > float64(m.fuzzyWindowDays) {
				continue
			}
			diff := b.Total().Sub(f.Total()).Abs()
			if diff.GreaterThan(m.tolerance) {
				continue
			}
			candidates++
			if best < 0 || diff.LessThan(bestDiff) {
				best = fi
				bestDiff = diff
			}
		}

		if best < 0 {
			booksLeft = append(booksLeft, *b)
			continue
		}
		unit := m.compare(runID, b, &feedRest[best], true)
		if candidates > 1 {
			unit.MatchStatus = domain.MatchStatusValueMismatch
			unit.Ambiguous = true
		}
		res.Units = append(res.Units, unit)
		feedUsed[best] = true
	}

	var feedLeft []domain.ReconRecord
	for fi := range feedRest {
		if !feedUsed[fi] {
			feedLeft = append(feedLeft, feedRest[fi])
		}
	}
	return booksLeft, feedLeft, nil
}

func unmatchedUnit(runID uuid.UUID, r *domain.ReconRecord, status domain.MatchStatus) domain.ReconUnit {
	u := domain.ReconUnit{
		ID:            uuid.New(),
		RunID:         runID,
		GSTIN:         r.GSTIN,
		InvoiceNumber: r.InvoiceNumber,
		MatchStatus:   status,
	}
	if status == domain.MatchStatusOnlyInBooks {
		u.BooksTaxable = r.TaxableValue
		u.BooksTax = r.TotalTax
		u.Difference = r.Total()
	} else {
		u.FeedTaxable = r.TaxableValue
		u.FeedTax = r.TotalTax
		u.Difference = r.Total().Neg()
	}
	return u
}

func summarize(units []domain.ReconUnit, books, feed []domain.ReconRecord) domain.ReconSummary {
	s := domain.ReconSummary{}
	for i := range units {
		switch units[i].MatchStatus {
		case domain.MatchStatusMatched:
			s.Matched++
		case domain.MatchStatusValueMismatch:
			s.ValueMismatch++
		case domain.MatchStatusOnlyInBooks:
			s.OnlyInBooks++
		case domain.MatchStatusOnlyInFeed:
			s.OnlyInFeed++
		}
	}
	for i := range books {
		s.BooksTotal = s.BooksTotal.Add(books[i].Total())
	}
	for i := range feed {
		s.FeedTotal = s.FeedTotal.Add(feed[i].Total())
	}
	s.NetDifference = s.BooksTotal.Sub(s.FeedTotal)
	return s
}

func sortedCopy(in []domain.ReconRecord) []domain.ReconRecord {
	out := make([]domain.ReconRecord, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
