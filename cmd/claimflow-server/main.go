package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/claimflow/claimflow/internal/config"
	"github.com/claimflow/claimflow/internal/domain/batches"
	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/domain/insights"
	"github.com/claimflow/claimflow/internal/domain/intake"
	"github.com/claimflow/claimflow/internal/domain/knowledge"
	"github.com/claimflow/claimflow/internal/domain/review"
	"github.com/claimflow/claimflow/internal/platform/ai"
	"github.com/claimflow/claimflow/internal/platform/auth"
	"github.com/claimflow/claimflow/internal/platform/db"
	"github.com/claimflow/claimflow/internal/platform/middleware"
	"github.com/claimflow/claimflow/internal/platform/telemetry"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "claimflow-server",
		Short: "ClaimFlow claims management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the ClaimFlow API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo fixtures into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Storage != "postgres" {
				return fmt.Errorf("seed requires STORAGE=postgres (memory storage seeds itself at startup)")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			stores := newPGStores(pool)
			if err := seedFixtures(ctx, stores); err != nil {
				return err
			}
			fmt.Println("Fixtures loaded.")
			return nil
		},
	}
}

// stores groups the repositories behind one storage selection.
type stores struct {
	claims   claims.Repository
	batches  batches.Repository
	concepts knowledge.ConceptRepository
	pairings knowledge.PairingRepository
	findings knowledge.FindingRepository
	records  insights.RecordRepository
	feedback insights.FeedbackRepository
}

func newPGStores(pool *pgxpool.Pool) stores {
	return stores{
		claims:   claims.NewRepoPG(pool),
		batches:  batches.NewRepoPG(pool),
		concepts: knowledge.NewConceptRepoPG(pool),
		pairings: knowledge.NewPairingRepoPG(pool),
		findings: knowledge.NewFindingRepoPG(pool),
		records:  insights.NewRecordRepoPG(pool),
		feedback: insights.NewFeedbackRepoPG(pool),
	}
}

func newMemStores() stores {
	return stores{
		claims:   claims.NewRepoMem(),
		batches:  batches.NewRepoMem(),
		concepts: knowledge.NewConceptRepoMem(),
		pairings: knowledge.NewPairingRepoMem(),
		findings: knowledge.NewFindingRepoMem(),
		records:  insights.NewRecordRepoMem(),
		feedback: insights.NewFeedbackRepoMem(),
	}
}

func seedFixtures(ctx context.Context, s stores) error {
	now := time.Now().UTC()
	for _, b := range batches.Fixtures(now) {
		if err := s.batches.Create(ctx, b); err != nil {
			return fmt.Errorf("seed batch %s: %w", b.ID, err)
		}
	}
	for _, c := range claims.Fixtures(now) {
		if err := s.claims.Create(ctx, c); err != nil {
			return fmt.Errorf("seed claim %s: %w", c.ClaimNumber, err)
		}
	}
	for _, c := range knowledge.ConceptFixtures() {
		if err := s.concepts.Create(ctx, c); err != nil {
			return fmt.Errorf("seed concept %s: %w", c.ID, err)
		}
	}
	for _, p := range knowledge.PairingFixtures(now) {
		if err := s.pairings.Create(ctx, p); err != nil {
			return fmt.Errorf("seed pairing %s: %w", p.ID, err)
		}
	}
	for _, f := range knowledge.FindingFixtures(now) {
		if err := s.findings.Create(ctx, f); err != nil {
			return fmt.Errorf("seed finding %s: %w", f.ID, err)
		}
	}
	return nil
}

// claimCounter adapts the claim repository to the batch integrity check.
type claimCounter struct{ repo claims.Repository }

func (a claimCounter) CountByBatch(ctx context.Context, batchID string) (int, error) {
	_, total, err := a.repo.ListByBatch(ctx, batchID, 1, 0)
	return total, err
}

// demoBackend returns a stub with canned payloads for every prompt, so the
// server is fully explorable offline.
func demoBackend() *ai.StubBackend {
	return ai.NewStubBackend().
		Respond(insights.PromptSummary, `{"summary":"Inpatient claim with consistent diagnosis, procedures, and supporting documentation. No narrative contradictions found."}`).
		Respond(insights.PromptFraud, `{"isFraudulent":false,"fraudProbability":0.08,"fraudReason":"Billed services align with the documented diagnosis and the provider has no anomaly history.","recommendedAction":"No action required."}`).
		Respond(insights.PromptTAT, `{"predictedTat":"5-7 days","confidenceScore":0.82,"factors":"Complete documentation and a provider in good standing shorten the expected processing time."}`).
		Respond(insights.PromptCriticality, `{"isCritical":false,"reason":"The inferred diagnosis and procedure concepts form a routine treatment pairing.","suggestedPathway":"Non-Critical"}`).
		Respond(insights.PromptChronology, `{"chronology":[{"eventDate":"2025-05-25","eventName":"Patient admission","source":"Medical Record","isPredicted":false},{"eventDate":"2025-05-26","eventName":"Primary procedure performed","source":"Claim Submission","isPredicted":false},{"eventDate":"2025-05-27","eventName":"Post-operative recovery period","source":"AI Prediction","details":"Inferred from the gap between procedure and discharge.","isPredicted":true},{"eventDate":"2025-05-28","eventName":"Discharge","source":"Medical Record","isPredicted":false}]}`).
		Respond(intake.PromptEnrich, `{"providerFullAddress":"Jl. Jend. Sudirman Kav. 52-53, Jakarta 12190","providerType":"General Hospital","serviceDate":"2025-05-25","enrichedNotes":"Provider resolved against the simulated directory.","aiDataQualityAssessment":"Clean","aiReviewNotes":"Data appears suitable for further processing.","aiAmountAssessmentNotes":"Claim amount is plausible for the described services."}`)
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	var s stores
	switch cfg.Storage {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
		s = newPGStores(pool)
	case "memory":
		s = newMemStores()
		if err := seedFixtures(ctx, s); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed memory storage")
		}
		logger.Info().Msg("memory storage seeded with demo fixtures")
	}

	var backend ai.Backend
	switch cfg.AIBackend {
	case "http":
		backend = ai.NewHTTPBackend(ai.HTTPBackendConfig{
			Endpoint: cfg.AIEndpoint,
			APIKey:   cfg.AIAPIKey,
			Model:    cfg.AIModel,
			Timeout:  cfg.AITimeout(),
		})
		logger.Info().Str("model", cfg.AIModel).Msg("using HTTP generative backend")
	case "stub":
		backend = demoBackend()
		logger.Warn().Msg("using stub generative backend; insights are canned")
	}

	metrics := telemetry.NewRegistry("claimflow")

	// Services
	claimSvc := claims.NewService(s.claims)
	batchSvc := batches.NewService(s.batches)
	batchSvc.SetClaimCounter(claimCounter{repo: s.claims})
	kbSvc := knowledge.NewService(s.concepts, s.pairings, s.findings)

	gen := insights.NewGenerator(insights.GeneratorConfig{
		Backend:   backend,
		Exemplars: kbSvc,
		Findings:  kbSvc,
		Timeout:   cfg.AITimeout(),
		Logger:    logger,
		Metrics:   metrics,
	})
	tracker := insights.NewTracker(s.feedback)
	dispatcher := insights.NewDispatcher(claimSvc, gen, s.records, tracker, logger)

	reviewSvc := review.NewService(claimSvc)
	intakeSvc := intake.NewService(backend, cfg.AITimeout(), logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/metrics", metrics.Handler())

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	claimHandler := claims.NewHandler(claimSvc)
	claimHandler.SetRegenerator(dispatcher)
	claimHandler.SetLogger(logger)
	claimHandler.RegisterRoutes(apiV1)

	batches.NewHandler(batchSvc).RegisterRoutes(apiV1)
	knowledge.NewHandler(kbSvc).RegisterRoutes(apiV1)
	insights.NewHandler(dispatcher, tracker, gen, claimSvc).RegisterRoutes(apiV1)
	review.NewHandler(reviewSvc, claimSvc).RegisterRoutes(apiV1)
	intake.NewHandler(intakeSvc).RegisterRoutes(apiV1)

	// Start and wait for shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
