package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxos/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrReturnNotFound):
		return http.StatusNotFound, "RETURN_NOT_FOUND", "return not found for this period"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrInvalidGSTIN):
		return http.StatusBadRequest, "INVALID_GSTIN", "GSTIN failed format or checksum validation"
	case errors.Is(err, domain.ErrInvalidRate):
		return http.StatusBadRequest, "INVALID_RATE", "tax rate is not in the permitted schedule"
	case errors.Is(err, domain.ErrNegativeAmount):
		return http.StatusBadRequest, "NEGATIVE_AMOUNT", "amounts must be non-negative"
	case errors.Is(err, domain.ErrPeriodAlreadyFiled):
		return http.StatusConflict, "PERIOD_ALREADY_FILED", "return for this period is already filed and frozen"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", "return status does not allow this transition"
	case errors.Is(err, domain.ErrDuplicateInvoiceRef):
		return http.StatusConflict, "DUPLICATE_INVOICE_REF", "credit record already exists for this invoice reference"
	case errors.Is(err, domain.ErrReversedRecord):
		return http.StatusConflict, "RECORD_REVERSED", "reversed credit records accept no further events"
	case errors.Is(err, domain.ErrNotClaimable):
		return http.StatusConflict, "NOT_CLAIMABLE", "credit is not in a claimable state"
	case errors.Is(err, domain.ErrChallanDeposited):
		return http.StatusConflict, "CHALLAN_DEPOSITED", "challan is already deposited and immutable"
	case errors.Is(err, domain.ErrDeductionLinked):
		return http.StatusConflict, "DEDUCTION_LINKED", "deduction is already linked to a challan"
	case errors.Is(err, domain.ErrDuplicateChallanNumber):
		return http.StatusConflict, "DUPLICATE_CHALLAN_NUMBER", "challan number already exists for this period"
	case errors.Is(err, domain.ErrNoUnlinkedDeductions):
		return http.StatusBadRequest, "NO_UNLINKED_DEDUCTIONS", "no unlinked deductions available for this period"
	case errors.Is(err, domain.ErrNoDepositedDeductions):
		return http.StatusBadRequest, "NO_DEPOSITED_DEDUCTIONS", "vendor has no deposited deductions for this period"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps err and sends the error response, logging 5xx causes.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
