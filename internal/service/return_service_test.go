package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxos/internal/domain"
	"taxos/internal/gst"
	"taxos/internal/service"
	"taxos/mocks"
)

const (
	testGSTIN = "27AAPFU0939F1ZV"
	buyerGSTIN = "29AABCT1332L1ZU"
)

func feb2025() time.Time {
	return time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
}

func newReturnService(retRepo *mocks.MockReturnRepo, itcRepo *mocks.MockITCRepo) service.ReturnService {
	return service.NewReturnService(retRepo, itcRepo, gst.NewClassifier(decimal.Zero))
}

func outwardInvoice(num string, amount int64) domain.OutwardInvoice {
	return domain.OutwardInvoice{
		InvoiceNumber:          num,
		InvoiceDate:            feb2025(),
		CounterpartyGSTIN:      buyerGSTIN,
		CounterpartyRegistered: true,
		PlaceOfSupply:          "29",
		IsInterState:           true,
		Amount:                 decimal.NewFromInt(amount),
		Rate:                   decimal.NewFromInt(18),
		HSNCode:                "8471",
		UQC:                    "NOS",
		Quantity:               decimal.NewFromInt(1),
	}
}

func TestReturnService_GenerateGSTR1_Success(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	itcRepo := new(mocks.MockITCRepo)
	svc := newReturnService(retRepo, itcRepo)

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(nil, domain.ErrReturnNotFound)
	retRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PeriodReturn")).Return(nil)

	res, err := svc.GenerateGSTR1(context.Background(), testGSTIN, feb2025(),
		[]domain.OutwardInvoice{outwardInvoice("INV-001", 10000)})

	require.NoError(t, err)
	assert.Equal(t, domain.ReturnStatusGenerated, res.Return.Status)
	assert.Equal(t, "022025", res.Return.Period)
	assert.Equal(t, "2024-25", res.Return.FinancialYear)
	assert.Empty(t, res.Rejected)

	var payload gst.GSTR1Payload
	require.NoError(t, json.Unmarshal(res.Return.Payload, &payload))
	assert.Len(t, payload.B2B, 1)
	assert.NoError(t, payload.CheckTotals())
	retRepo.AssertExpectations(t)
}

func TestReturnService_GenerateGSTR1_CollectsRejections(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	itcRepo := new(mocks.MockITCRepo)
	svc := newReturnService(retRepo, itcRepo)

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(nil, domain.ErrReturnNotFound)
	retRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PeriodReturn")).Return(nil)

	bad := outwardInvoice("INV-BAD", 5000)
	bad.Rate = decimal.NewFromInt(17)

	res, err := svc.GenerateGSTR1(context.Background(), testGSTIN, feb2025(),
		[]domain.OutwardInvoice{outwardInvoice("INV-001", 10000), bad})

	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "INV-BAD", res.Rejected[0].RecordID)

	var payload gst.GSTR1Payload
	require.NoError(t, json.Unmarshal(res.Return.Payload, &payload))
	assert.Len(t, payload.B2B, 1)
}

func TestReturnService_GenerateGSTR1_InvalidGSTIN(t *testing.T) {
	svc := newReturnService(new(mocks.MockReturnRepo), new(mocks.MockITCRepo))

	_, err := svc.GenerateGSTR1(context.Background(), "27AAPFU0939F1ZZ", feb2025(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidGSTIN)
}

func TestReturnService_GenerateGSTR1_FiledPeriodFrozen(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{Status: domain.ReturnStatusFiled}, nil)

	_, err := svc.GenerateGSTR1(context.Background(), testGSTIN, feb2025(), nil)
	assert.ErrorIs(t, err, domain.ErrPeriodAlreadyFiled)
	retRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestReturnService_GenerateGSTR1_RegenerateDraft(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{Status: domain.ReturnStatusGenerated}, nil)
	retRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PeriodReturn")).Return(nil)

	res, err := svc.GenerateGSTR1(context.Background(), testGSTIN, feb2025(),
		[]domain.OutwardInvoice{outwardInvoice("INV-001", 10000)})

	require.NoError(t, err)
	assert.Equal(t, domain.ReturnStatusGenerated, res.Return.Status)
	retRepo.AssertExpectations(t)
}

func TestReturnService_GenerateGSTR1_RegenerateKeepsStoredID(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	storedID := uuid.New()
	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{ID: storedID, Status: domain.ReturnStatusGenerated}, nil)
	// The conflict branch of the upsert keeps the existing row's id and
	// reads it back into the record.
	retRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PeriodReturn")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.PeriodReturn).ID = storedID
		}).
		Return(nil)

	res, err := svc.GenerateGSTR1(context.Background(), testGSTIN, feb2025(),
		[]domain.OutwardInvoice{outwardInvoice("INV-001", 10000)})

	require.NoError(t, err)
	assert.Equal(t, storedID, res.Return.ID)
}

func TestReturnService_GenerateGSTR3B_IncludesReversals(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	itcRepo := new(mocks.MockITCRepo)
	svc := newReturnService(retRepo, itcRepo)

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR3B, "022025").
		Return(nil, domain.ErrReturnNotFound)
	retRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.PeriodReturn")).Return(nil)
	itcRepo.On("ListReversalDue", mock.Anything).Return([]domain.ITCRecord{
		{Tax: domain.TaxHeads{IGST: decimal.NewFromInt(500)}},
	}, nil)

	inward := []domain.InwardSupply{{
		InvoiceRef:   "PINV-1",
		Source:       domain.ITCSourceOther,
		TaxableValue: decimal.NewFromInt(20000),
		Tax:          domain.TaxHeads{IGST: decimal.NewFromInt(3600)},
	}}

	res, err := svc.GenerateGSTR3B(context.Background(), testGSTIN, feb2025(),
		[]domain.OutwardInvoice{outwardInvoice("INV-001", 10000)}, inward)

	require.NoError(t, err)
	var payload gst.GSTR3BPayload
	require.NoError(t, json.Unmarshal(res.Return.Payload, &payload))

	// Net credit 3600-500=3100 against 1800 IGST liability: no cash due.
	assert.True(t, payload.ITC.Net.IGST.Equal(decimal.NewFromInt(3100)),
		"net igst = %s", payload.ITC.Net.IGST)
	assert.True(t, payload.CashPayable.IGST.IsZero())
	assert.NoError(t, payload.CheckTotals())
}

func TestReturnService_ValidateReturn_Success(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	itcRepo := new(mocks.MockITCRepo)
	svc := newReturnService(retRepo, itcRepo)

	payload := gst.NewGSTR1Builder(testGSTIN, feb2025()).Build(nil)
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{
			GSTIN:      testGSTIN,
			ReturnType: domain.ReturnTypeGSTR1,
			Period:     "022025",
			Status:     domain.ReturnStatusGenerated,
			Payload:    raw,
		}, nil)
	retRepo.On("UpdateStatus", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025", domain.ReturnStatusValidated).
		Return(nil)

	ret, err := svc.ValidateReturn(context.Background(), testGSTIN, domain.ReturnTypeGSTR1, "022025")
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnStatusValidated, ret.Status)
	retRepo.AssertExpectations(t)
}

func TestReturnService_ValidateReturn_TotalsDriftMarksError(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	payload := gst.NewGSTR1Builder(testGSTIN, feb2025()).Build(
		[]domain.ClassifiedInvoice{})
	payload.GrandTotal.TaxableValue = decimal.NewFromInt(999)
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{
			Status:  domain.ReturnStatusGenerated,
			Payload: raw,
		}, nil)
	retRepo.On("UpdateStatus", mock.Anything, "", domain.ReturnTypeGSTR1, "022025", domain.ReturnStatusError).
		Return(nil)

	_, err = svc.ValidateReturn(context.Background(), "", domain.ReturnTypeGSTR1, "022025")
	assert.Error(t, err)
	retRepo.AssertExpectations(t)
}

func TestReturnService_ValidateReturn_WrongState(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{Status: domain.ReturnStatusDraft}, nil)

	_, err := svc.ValidateReturn(context.Background(), testGSTIN, domain.ReturnTypeGSTR1, "022025")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReturnService_MarkFiled_FromValidated(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{Status: domain.ReturnStatusValidated}, nil)
	retRepo.On("UpdateStatus", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025", domain.ReturnStatusSubmitted).
		Return(nil)
	retRepo.On("UpdateStatus", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025", domain.ReturnStatusFiled).
		Return(nil)

	ret, err := svc.MarkFiled(context.Background(), testGSTIN, domain.ReturnTypeGSTR1, "022025")
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnStatusFiled, ret.Status)
	retRepo.AssertExpectations(t)
}

func TestReturnService_MarkFiled_FromGenerated_Rejected(t *testing.T) {
	retRepo := new(mocks.MockReturnRepo)
	svc := newReturnService(retRepo, new(mocks.MockITCRepo))

	retRepo.On("Get", mock.Anything, testGSTIN, domain.ReturnTypeGSTR1, "022025").
		Return(&domain.PeriodReturn{Status: domain.ReturnStatusGenerated}, nil)

	_, err := svc.MarkFiled(context.Background(), testGSTIN, domain.ReturnTypeGSTR1, "022025")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
