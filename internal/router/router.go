package router

import (
	"github.com/gin-gonic/gin"

	"taxos/internal/handler"
	"taxos/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsOrigins []string,
	returnH *handler.ReturnHandler,
	reconH *handler.ReconHandler,
	itcH *handler.ITCHandler,
	tdsH *handler.TDSHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Return generation and lifecycle
	returns := v1.Group("/returns")
	returns.POST("/gstr1", returnH.GenerateGSTR1)
	returns.POST("/gstr3b", returnH.GenerateGSTR3B)
	returns.GET("", returnH.List)
	returns.GET("/gstr1/:gstin/:period/export", returnH.ExportGSTR1)
	returns.GET("/:type/:gstin/:period", returnH.Get)
	returns.POST("/:type/:gstin/:period/validate", returnH.Validate)
	returns.POST("/:type/:gstin/:period/file", returnH.File)

	// Reconciliation runs
	recon := v1.Group("/reconciliation")
	recon.POST("/runs", reconH.Run)
	recon.GET("/runs/:id", reconH.GetRun)
	recon.GET("/runs/:id/units", reconH.ListUnits)
	recon.GET("/runs/:id/export", reconH.ExportCSV)

	// Input credit tracking
	itc := v1.Group("/itc")
	itc.POST("/records", itcH.Register)
	itc.POST("/records/:ref/events", itcH.ApplyEvent)
	itc.POST("/records/:ref/claim", itcH.Claim)
	itc.POST("/records/:ref/reverse", itcH.Reverse)
	itc.POST("/evaluate", itcH.Evaluate)
	itc.GET("/report", itcH.Report)

	// Withholding
	tds := v1.Group("/tds")
	tds.POST("/deductions", tdsH.RecordDeduction)
	tds.POST("/challans", tdsH.CreateChallan)
	tds.POST("/challans/:id/deposit", tdsH.Deposit)
	tds.POST("/certificates", tdsH.IssueCertificate)

	return r
}
