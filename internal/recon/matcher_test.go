package recon_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxos/internal/domain"
	"taxos/internal/recon"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rec(src domain.ReconSource, gstin, inv, taxable, tax string, day int) domain.ReconRecord {
	return domain.ReconRecord{
		Source:        src,
		GSTIN:         gstin,
		InvoiceNumber: inv,
		InvoiceDate:   time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC),
		TaxableValue:  dec(taxable),
		TotalTax:      dec(tax),
	}
}

const gstinA = "27AAPFU0939F1ZV"
const gstinB = "29AABCT1332L1ZU"

func TestMatcher_ExactPass(t *testing.T) {
	m := recon.NewMatcher()
	runID := uuid.New()

	books := []domain.ReconRecord{
		rec(domain.ReconSourceBooks, gstinA, "INV-1", "1000", "180", 5),
		rec(domain.ReconSourceBooks, gstinA, "INV-2", "2000", "360", 6),
		rec(domain.ReconSourceBooks, gstinB, "INV-9", "500", "90", 7),
	}
	feed := []domain.ReconRecord{
		rec(domain.ReconSourceFeed, gstinA, "INV-1", "1000", "180", 5),
		rec(domain.ReconSourceFeed, gstinA, "INV-2", "2500", "450", 6),
		rec(domain.ReconSourceFeed, gstinB, "INV-8", "700", "126", 7),
	}

	res, err := m.Run(context.Background(), runID, books, feed)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Matched)
	assert.Equal(t, 1, res.Summary.ValueMismatch)
	assert.Equal(t, 1, res.Summary.OnlyInBooks)
	assert.Equal(t, 1, res.Summary.OnlyInFeed)

	byStatus := map[domain.MatchStatus]domain.ReconUnit{}
	for _, u := range res.Units {
		byStatus[u.MatchStatus] = u
	}
	assert.Equal(t, "INV-1", byStatus[domain.MatchStatusMatched].InvoiceNumber)
	mismatch := byStatus[domain.MatchStatusValueMismatch]
	assert.Equal(t, "INV-2", mismatch.InvoiceNumber)
	assert.True(t, mismatch.Difference.Equal(dec("-590")), "signed diff = %s", mismatch.Difference)
}

func TestMatcher_ToleranceBoundary(t *testing.T) {
	m := recon.NewMatcher() // one currency unit
	runID := uuid.New()

	t.Run("within_tolerance_matches", func(t *testing.T) {
		books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "INV-1", "1000.00", "180.00", 5)}
		feed := []domain.ReconRecord{rec(domain.ReconSourceFeed, gstinA, "INV-1", "1000.99", "180.50", 5)}
		res, err := m.Run(context.Background(), runID, books, feed)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Summary.Matched)
	})

	t.Run("beyond_tolerance_mismatches", func(t *testing.T) {
		books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "INV-1", "1000.00", "180.00", 5)}
		feed := []domain.ReconRecord{rec(domain.ReconSourceFeed, gstinA, "INV-1", "1001.01", "180.00", 5)}
		res, err := m.Run(context.Background(), runID, books, feed)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Summary.ValueMismatch)
	})
}

func TestMatcher_Completeness(t *testing.T) {
	m := recon.NewMatcher()
	books := []domain.ReconRecord{
		rec(domain.ReconSourceBooks, gstinA, "A", "1", "0", 1),
		rec(domain.ReconSourceBooks, gstinA, "B", "2", "0", 2),
		rec(domain.ReconSourceBooks, gstinB, "C", "3", "0", 3),
	}
	feed := []domain.ReconRecord{
		rec(domain.ReconSourceFeed, gstinA, "B", "2", "0", 2),
		rec(domain.ReconSourceFeed, gstinB, "D", "4", "0", 4),
	}

	res, err := m.Run(context.Background(), uuid.New(), books, feed)
	require.NoError(t, err)

	s := res.Summary
	assert.Equal(t, 4, s.Matched+s.ValueMismatch+s.OnlyInBooks+s.OnlyInFeed,
		"every key-identity record in exactly one bucket")
	assert.LessOrEqual(t, s.Matched+s.ValueMismatch, 2, "pairs bounded by min side")
}

func TestMatcher_OrderIndependence(t *testing.T) {
	m := recon.NewMatcher()
	runID := uuid.New()

	books := []domain.ReconRecord{
		rec(domain.ReconSourceBooks, gstinB, "Z", "10", "1.8", 1),
		rec(domain.ReconSourceBooks, gstinA, "A", "20", "3.6", 2),
	}
	feed := []domain.ReconRecord{
		rec(domain.ReconSourceFeed, gstinA, "A", "20", "3.6", 2),
		rec(domain.ReconSourceFeed, gstinB, "Z", "10", "1.8", 1),
	}

	res1, err := m.Run(context.Background(), runID, books, feed)
	require.NoError(t, err)

	// Reverse both sides.
	books[0], books[1] = books[1], books[0]
	feed[0], feed[1] = feed[1], feed[0]
	res2, err := m.Run(context.Background(), runID, books, feed)
	require.NoError(t, err)

	require.Len(t, res2.Units, len(res1.Units))
	for i := range res1.Units {
		assert.Equal(t, res1.Units[i].InvoiceNumber, res2.Units[i].InvoiceNumber)
		assert.Equal(t, res1.Units[i].MatchStatus, res2.Units[i].MatchStatus)
	}
	assert.Equal(t, res1.Summary, res2.Summary)
}

func TestMatcher_FuzzyPass(t *testing.T) {
	t.Run("recovers_typoed_invoice_number", func(t *testing.T) {
		m := recon.NewMatcher(recon.WithFuzzyPass(0))
		books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "INV-001", "1000", "180", 5)}
		feed := []domain.ReconRecord{rec(domain.ReconSourceFeed, gstinA, "INV-O01", "1000", "180", 5)}

		res, err := m.Run(context.Background(), uuid.New(), books, feed)
		require.NoError(t, err)
		require.Equal(t, 1, res.Summary.Matched)
		assert.True(t, res.Units[0].FuzzyMatched)
		assert.Equal(t, "INV-001", res.Units[0].InvoiceNumber)
		assert.Equal(t, "INV-O01", res.Units[0].FeedInvoiceNumber)
	})

	t.Run("ambiguity_is_flagged_not_resolved", func(t *testing.T) {
		m := recon.NewMatcher(recon.WithFuzzyPass(0))
		books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "INV-001", "1000", "180", 5)}
		feed := []domain.ReconRecord{
			rec(domain.ReconSourceFeed, gstinA, "INV-X", "1000", "180", 5),
			rec(domain.ReconSourceFeed, gstinA, "INV-Y", "1000.50", "180", 5),
		}

		res, err := m.Run(context.Background(), uuid.New(), books, feed)
		require.NoError(t, err)

		var flagged *domain.ReconUnit
		for i := range res.Units {
			if res.Units[i].Ambiguous {
				flagged = &res.Units[i]
			}
		}
		require.NotNil(t, flagged, "ambiguous candidate must be flagged")
		assert.Equal(t, domain.MatchStatusValueMismatch, flagged.MatchStatus)
		assert.Equal(t, "INV-X", flagged.FeedInvoiceNumber, "best candidate wins")
		assert.Equal(t, 1, res.Summary.OnlyInFeed, "losing candidate stays unmatched")
	})

	t.Run("date_outside_window_not_joined", func(t *testing.T) {
		m := recon.NewMatcher(recon.WithFuzzyPass(1))
		books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "INV-001", "1000", "180", 5)}
		feed := []domain.ReconRecord{rec(domain.ReconSourceFeed, gstinA, "INV-X", "1000", "180", 10)}

		res, err := m.Run(context.Background(), uuid.New(), books, feed)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Summary.OnlyInBooks)
		assert.Equal(t, 1, res.Summary.OnlyInFeed)
	})
}

func TestMatcher_Cancellation(t *testing.T) {
	m := recon.NewMatcher(recon.WithFuzzyPass(0))

	// Remainders force the fuzzy pass to run.
	books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "INV-1", "1000", "180", 5)}
	feed := []domain.ReconRecord{rec(domain.ReconSourceFeed, gstinA, "INV-2", "1000", "180", 5)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Run(ctx, uuid.New(), books, feed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatcher_SummaryTotals(t *testing.T) {
	m := recon.NewMatcher()
	books := []domain.ReconRecord{rec(domain.ReconSourceBooks, gstinA, "A", "1000", "180", 1)}
	feed := []domain.ReconRecord{rec(domain.ReconSourceFeed, gstinA, "B", "500", "90", 1)}

	res, err := m.Run(context.Background(), uuid.New(), books, feed)
	require.NoError(t, err)

	assert.True(t, res.Summary.BooksTotal.Equal(dec("1180")))
	assert.True(t, res.Summary.FeedTotal.Equal(dec("590")))
	assert.True(t, res.Summary.NetDifference.Equal(dec("590")))
}
