package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxos/internal/domain"
	"taxos/internal/gst"
	"taxos/internal/service"
	"taxos/internal/xlsxexport"
)

// ReturnHandler handles return generation and lifecycle endpoints.
type ReturnHandler struct {
	returnService service.ReturnService
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(returnService service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// GenerateGSTR1Input is the request body for GSTR-1 generation.
type GenerateGSTR1Input struct {
	GSTIN    string                  `json:"gstin" binding:"required"`
	Period   string                  `json:"period" binding:"required"`
	Invoices []domain.OutwardInvoice `json:"invoices"`
}

// GenerateGSTR3BInput is the request body for GSTR-3B generation.
type GenerateGSTR3BInput struct {
	GSTIN   string                  `json:"gstin" binding:"required"`
	Period  string                  `json:"period" binding:"required"`
	Outward []domain.OutwardInvoice `json:"outward"`
	Inward  []domain.InwardSupply   `json:"inward"`
}

// parseMonth accepts a tax period as "2006-01".
func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("period must be formatted YYYY-MM: %w", err)
	}
	return t, nil
}

func parseReturnType(s string) (domain.ReturnType, bool) {
	switch s {
	case "gstr1":
		return domain.ReturnTypeGSTR1, true
	case "gstr3b":
		return domain.ReturnTypeGSTR3B, true
	}
	return "", false
}

// GenerateGSTR1 handles POST /api/v1/returns/gstr1
func (h *ReturnHandler) GenerateGSTR1(c *gin.Context) {
	var input GenerateGSTR1Input
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	period, err := parseMonth(input.Period)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.returnService.GenerateGSTR1(c.Request.Context(), input.GSTIN, period, input.Invoices)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}

// GenerateGSTR3B handles POST /api/v1/returns/gstr3b
func (h *ReturnHandler) GenerateGSTR3B(c *gin.Context) {
	var input GenerateGSTR3BInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	period, err := parseMonth(input.Period)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.returnService.GenerateGSTR3B(c.Request.Context(), input.GSTIN, period, input.Outward, input.Inward)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}

// returnKey pulls the (type, gstin, period) triple from the path.
func returnKey(c *gin.Context) (domain.ReturnType, string, string, bool) {
	rt, ok := parseReturnType(c.Param("type"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "return type must be gstr1 or gstr3b")
		return "", "", "", false
	}
	return rt, c.Param("gstin"), c.Param("period"), true
}

// Get handles GET /api/v1/returns/:type/:gstin/:period
func (h *ReturnHandler) Get(c *gin.Context) {
	rt, gstin, period, ok := returnKey(c)
	if !ok {
		return
	}
	ret, err := h.returnService.Get(c.Request.Context(), gstin, rt, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ret)
}

// List handles GET /api/v1/returns?gstin=
func (h *ReturnHandler) List(c *gin.Context) {
	gstin := c.Query("gstin")
	if gstin == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "gstin query parameter is required")
		return
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	returns, total, err := h.returnService.List(c.Request.Context(), gstin, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, returns, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Validate handles POST /api/v1/returns/:type/:gstin/:period/validate
func (h *ReturnHandler) Validate(c *gin.Context) {
	rt, gstin, period, ok := returnKey(c)
	if !ok {
		return
	}
	ret, err := h.returnService.ValidateReturn(c.Request.Context(), gstin, rt, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ret)
}

// ExportGSTR1 handles GET /api/v1/returns/gstr1/:gstin/:period/export
// and streams the stored payload as an Excel workbook.
func (h *ReturnHandler) ExportGSTR1(c *gin.Context) {
	gstin, period := c.Param("gstin"), c.Param("period")
	ret, err := h.returnService.Get(c.Request.Context(), gstin, domain.ReturnTypeGSTR1, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	var payload gst.GSTR1Payload
	if err := json.Unmarshal(ret.Payload, &payload); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("gstr1_%s_%s.xlsx", gstin, period)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := xlsxexport.NewWorkbookWriter(&payload).WriteTo(c.Writer); err != nil {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] gstr1 export failed: %v", requestID, err)
	}
}

// File handles POST /api/v1/returns/:type/:gstin/:period/file
func (h *ReturnHandler) File(c *gin.Context) {
	rt, gstin, period, ok := returnKey(c)
	if !ok {
		return
	}
	ret, err := h.returnService.MarkFiled(c.Request.Context(), gstin, rt, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ret)
}
