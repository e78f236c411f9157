package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
	"taxos/internal/handler"
	"taxos/mocks"
)

func newTDSHandler() (*handler.TDSHandler, *mocks.MockTDSService) {
	mockSvc := new(mocks.MockTDSService)
	h := handler.NewTDSHandler(mockSvc)
	return h, mockSvc
}

func TestTDSHandler_RecordDeduction_Success(t *testing.T) {
	h, mockSvc := newTDSHandler()

	mockSvc.On("RecordDeduction", mock.Anything, mock.AnythingOfType("service.RecordDeductionInput")).
		Return(&domain.TDSDeduction{
			VendorID:  "VEND-1",
			TaxAmount: decimal.NewFromInt(5000),
		}, nil)

	w := postJSON(h.RecordDeduction, "/api/v1/tds/deductions", map[string]interface{}{
		"vendor_id":    "VEND-1",
		"section":      "194J",
		"gross_amount": "50000",
		"rate":         "10",
		"payment_date": "2025-02-10T00:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTDSHandler_RecordDeduction_MissingVendor(t *testing.T) {
	h, _ := newTDSHandler()

	w := postJSON(h.RecordDeduction, "/api/v1/tds/deductions", map[string]interface{}{
		"section":      "194J",
		"payment_date": "2025-02-10T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTDSHandler_CreateChallan_Empty(t *testing.T) {
	h, mockSvc := newTDSHandler()

	mockSvc.On("CreateChallan", mock.Anything, "2024-25", 4).
		Return(nil, domain.ErrNoUnlinkedDeductions)

	w := postJSON(h.CreateChallan, "/api/v1/tds/challans", map[string]interface{}{
		"financial_year": "2024-25",
		"quarter":        4,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_UNLINKED_DEDUCTIONS", resp.Error.Code)
}

func TestTDSHandler_Deposit_BadID(t *testing.T) {
	h, _ := newTDSHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/tds/challans/nope/deposit", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.Deposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTDSHandler_Deposit_AlreadyDeposited(t *testing.T) {
	h, mockSvc := newTDSHandler()

	id := uuid.New()
	mockSvc.On("MarkChallanDeposited", mock.Anything, id).
		Return(nil, domain.ErrChallanDeposited)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/tds/challans/"+id.String()+"/deposit", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Deposit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
