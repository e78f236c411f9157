package main

import (
	"fmt"
	"log"

	"taxos/internal/config"
	"taxos/internal/gst"
	"taxos/internal/handler"
	"taxos/internal/itc"
	"taxos/internal/recon"
	"taxos/internal/repository/postgres"
	"taxos/internal/router"
	"taxos/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	returnRepo := postgres.NewReturnRepo(db)
	reconRepo := postgres.NewReconRepo(db)
	itcRepo := postgres.NewITCRepo(db)
	tdsRepo := postgres.NewTDSRepo(db)

	// Engine cores, configured from statutory knobs
	classifier := gst.NewClassifier(cfg.Engine.B2CLThreshold)
	matcherOpts := []recon.Option{recon.WithTolerance(cfg.Engine.ReconTolerance)}
	if cfg.Engine.FuzzyEnabled {
		matcherOpts = append(matcherOpts, recon.WithFuzzyPass(cfg.Engine.FuzzyWindowDays))
	}
	matcher := recon.NewMatcher(matcherOpts...)
	tracker := itc.NewTracker(cfg.Engine.ITCWarningWindowDays)

	// Initialize services
	returnSvc := service.NewReturnService(returnRepo, itcRepo, classifier)
	reconSvc := service.NewReconService(reconRepo, matcher)
	itcSvc := service.NewITCService(itcRepo, tracker)
	tdsSvc := service.NewTDSService(tdsRepo)

	// Initialize handlers
	returnH := handler.NewReturnHandler(returnSvc)
	reconH := handler.NewReconHandler(reconSvc)
	itcH := handler.NewITCHandler(itcSvc)
	tdsH := handler.NewTDSHandler(tdsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, returnH, reconH, itcH, tdsH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
