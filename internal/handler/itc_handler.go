package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxos/internal/domain"
	"taxos/internal/service"
)

// ITCHandler handles input credit tracking endpoints.
type ITCHandler struct {
	itcService service.ITCService
}

// NewITCHandler creates a new ITCHandler.
func NewITCHandler(itcService service.ITCService) *ITCHandler {
	return &ITCHandler{itcService: itcService}
}

// Register handles POST /api/v1/itc/records
func (h *ITCHandler) Register(c *gin.Context) {
	var input service.RegisterITCInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	rec, err := h.itcService.RegisterInvoice(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rec)
}

// EventInput is one eligibility condition event.
type EventInput struct {
	Event domain.ITCEvent `json:"event" binding:"required"`
	At    time.Time       `json:"at"`
}

// ApplyEvent handles POST /api/v1/itc/records/:ref/events
func (h *ITCHandler) ApplyEvent(c *gin.Context) {
	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if input.At.IsZero() {
		input.At = time.Now().UTC()
	}
	rec, err := h.itcService.ApplyEvent(c.Request.Context(), c.Param("ref"), input.Event, input.At)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// asOf reads the as_of query parameter, defaulting to now.
func asOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now().UTC(), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "as_of must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// Claim handles POST /api/v1/itc/records/:ref/claim
func (h *ITCHandler) Claim(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}
	rec, err := h.itcService.Claim(c.Request.Context(), c.Param("ref"), at)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Reverse handles POST /api/v1/itc/records/:ref/reverse
func (h *ITCHandler) Reverse(c *gin.Context) {
	rec, err := h.itcService.Reverse(c.Request.Context(), c.Param("ref"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Evaluate handles POST /api/v1/itc/evaluate?as_of=
func (h *ITCHandler) Evaluate(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}
	changed, err := h.itcService.EvaluateAsOf(c.Request.Context(), at)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"changed": changed, "as_of": at})
}

// Report handles GET /api/v1/itc/report?as_of=
func (h *ITCHandler) Report(c *gin.Context) {
	at, ok := asOf(c)
	if !ok {
		return
	}
	report, err := h.itcService.Report(c.Request.Context(), at)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}
