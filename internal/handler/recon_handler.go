package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxos/internal/domain"
	"taxos/internal/service"
)

// ReconHandler handles reconciliation endpoints.
type ReconHandler struct {
	reconService service.ReconService
}

// NewReconHandler creates a new ReconHandler.
func NewReconHandler(reconService service.ReconService) *ReconHandler {
	return &ReconHandler{reconService: reconService}
}

// RunInput is the request body for a reconciliation run.
type RunInput struct {
	GSTIN  string               `json:"gstin" binding:"required"`
	Period string               `json:"period" binding:"required"`
	Books  []domain.ReconRecord `json:"books"`
	Feed   []domain.ReconRecord `json:"feed"`
}

// Run handles POST /api/v1/reconciliation/runs
func (h *ReconHandler) Run(c *gin.Context) {
	var input RunInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	period, err := parseMonth(input.Period)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.reconService.RunReconciliation(c.Request.Context(), input.GSTIN, period, input.Books, input.Feed)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}

func runID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "run id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// GetRun handles GET /api/v1/reconciliation/runs/:id
func (h *ReconHandler) GetRun(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	res, err := h.reconService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ListUnits handles GET /api/v1/reconciliation/runs/:id/units?status=
func (h *ReconHandler) ListUnits(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	units, err := h.reconService.ListUnits(c.Request.Context(), id, domain.MatchStatus(c.Query("status")))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, units)
}

// ExportCSV handles GET /api/v1/reconciliation/runs/:id/export
func (h *ReconHandler) ExportCSV(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "recon_"+id.String()+".csv"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	if err := h.reconService.ExportCSV(c.Request.Context(), id, c.Writer); err != nil {
		HandleError(c, err)
	}
}
