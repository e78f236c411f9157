package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxos/internal/service"
)

// TDSHandler handles withholding endpoints.
type TDSHandler struct {
	tdsService service.TDSService
}

// NewTDSHandler creates a new TDSHandler.
func NewTDSHandler(tdsService service.TDSService) *TDSHandler {
	return &TDSHandler{tdsService: tdsService}
}

// RecordDeduction handles POST /api/v1/tds/deductions
func (h *TDSHandler) RecordDeduction(c *gin.Context) {
	var input service.RecordDeductionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	d, err := h.tdsService.RecordDeduction(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, d)
}

// PeriodInput identifies one (financial year, quarter).
type PeriodInput struct {
	FinancialYear string `json:"financial_year" binding:"required"`
	Quarter       int    `json:"quarter" binding:"required,min=1,max=4"`
}

// CreateChallan handles POST /api/v1/tds/challans
func (h *TDSHandler) CreateChallan(c *gin.Context) {
	var input PeriodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	ch, err := h.tdsService.CreateChallan(c.Request.Context(), input.FinancialYear, input.Quarter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, ch)
}

// Deposit handles POST /api/v1/tds/challans/:id/deposit
func (h *TDSHandler) Deposit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "challan id must be a UUID")
		return
	}
	ch, err := h.tdsService.MarkChallanDeposited(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ch)
}

// CertificateInput identifies a vendor's quarter.
type CertificateInput struct {
	VendorID      string `json:"vendor_id" binding:"required"`
	FinancialYear string `json:"financial_year" binding:"required"`
	Quarter       int    `json:"quarter" binding:"required,min=1,max=4"`
}

// IssueCertificate handles POST /api/v1/tds/certificates
func (h *TDSHandler) IssueCertificate(c *gin.Context) {
	var input CertificateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	cert, err := h.tdsService.IssueCertificate(c.Request.Context(), input.VendorID, input.FinancialYear, input.Quarter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, cert)
}
