package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxos/internal/domain"
	"taxos/internal/recon"
	"taxos/internal/service"
	"taxos/mocks"
)

func reconRecord(source domain.ReconSource, num string, taxable int64) domain.ReconRecord {
	return domain.ReconRecord{
		Source:        source,
		GSTIN:         buyerGSTIN,
		InvoiceNumber: num,
		InvoiceDate:   feb2025(),
		TaxableValue:  decimal.NewFromInt(taxable),
		TotalTax:      decimal.NewFromInt(taxable).Mul(decimal.NewFromFloat(0.18)),
	}
}

func TestReconService_RunReconciliation_Persists(t *testing.T) {
	repo := new(mocks.MockReconRepo)
	svc := service.NewReconService(repo, recon.NewMatcher())

	repo.On("CreateRun", mock.Anything, mock.AnythingOfType("*domain.ReconRun"), mock.AnythingOfType("[]domain.ReconUnit")).
		Return(nil)

	books := []domain.ReconRecord{reconRecord(domain.ReconSourceBooks, "INV-1", 1000)}
	feed := []domain.ReconRecord{reconRecord(domain.ReconSourceFeed, "INV-1", 1000)}

	res, err := svc.RunReconciliation(context.Background(), testGSTIN, feb2025(), books, feed)
	require.NoError(t, err)

	assert.Equal(t, testGSTIN, res.Run.GSTIN)
	assert.Equal(t, "022025", res.Run.Period)
	require.Len(t, res.Units, 1)
	assert.Equal(t, domain.MatchStatusMatched, res.Units[0].MatchStatus)
	repo.AssertExpectations(t)
}

func TestReconService_RunReconciliation_InvalidGSTIN(t *testing.T) {
	svc := service.NewReconService(new(mocks.MockReconRepo), recon.NewMatcher())

	_, err := svc.RunReconciliation(context.Background(), "bogus", feb2025(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidGSTIN)
}

func TestReconService_GetRun_NotFound(t *testing.T) {
	repo := new(mocks.MockReconRepo)
	svc := service.NewReconService(repo, recon.NewMatcher())

	id := uuid.New()
	repo.On("GetRun", mock.Anything, id).Return(nil, domain.ErrRecordNotFound)

	_, err := svc.GetRun(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestReconService_ExportCSV(t *testing.T) {
	repo := new(mocks.MockReconRepo)
	svc := service.NewReconService(repo, recon.NewMatcher())

	id := uuid.New()
	repo.On("GetRun", mock.Anything, id).Return(&domain.ReconRun{ID: id}, nil)
	repo.On("ListUnits", mock.Anything, id, domain.MatchStatus("")).Return([]domain.ReconUnit{
		{
			GSTIN:         buyerGSTIN,
			InvoiceNumber: "INV-1",
			MatchStatus:   domain.MatchStatusOnlyInBooks,
			BooksTaxable:  decimal.NewFromInt(1000),
			BooksTax:      decimal.NewFromInt(180),
		},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), id, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "missing BOM")
	assert.Contains(t, out, "Counterparty GSTIN")
	assert.Contains(t, out, "INV-1")
	assert.Contains(t, out, "only_in_books")
	assert.Contains(t, out, "1000.00")
}
