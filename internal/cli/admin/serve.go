package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prepdeck/brief/internal/api/handlers"
	"github.com/prepdeck/brief/internal/config"
	"github.com/prepdeck/brief/internal/database"
	"github.com/prepdeck/brief/internal/jobs"
	"github.com/prepdeck/brief/internal/openai"
	"github.com/prepdeck/brief/internal/repository"
	"github.com/prepdeck/brief/internal/scrape"
	"github.com/prepdeck/brief/internal/server"
	"github.com/prepdeck/brief/internal/service"
	"github.com/prepdeck/brief/internal/storage"
	"github.com/prepdeck/brief/internal/telemetry"
	"github.com/prepdeck/brief/internal/websearch"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the brief API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-worker", false, "Disable the background indexing retry worker")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	companyRepo := repository.NewCompanyRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)

	if !cfg.HasOpenAI() {
		log.Println("warning: BRIEF_OPENAI_API_KEY not set; indexing and answering will fail")
	}
	if !cfg.HasTavily() {
		log.Println("warning: BRIEF_TAVILY_API_KEY not set; acquisition will fail")
	}
	if !cfg.HasAuth() {
		log.Println("warning: BRIEF_API_KEY not set; API authentication is disabled")
	}

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)
	searchClient := websearch.NewClient(cfg.TavilyAPIKey)
	scraper := scrape.NewScraper()

	var archiver service.PageArchiver
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		archiver = s3Client
	}

	txRunner := repository.NewTxRunner(pool)
	acquisitionSvc := service.NewAcquisitionServiceWithTx(searchClient, scraper, companyRepo, archiver, cfg.MinContentChars, txRunner)
	indexingSvc := service.NewIndexingServiceWithTx(openaiClient, companyRepo, chunkRepo, txRunner)
	retrievalSvc := service.NewRetrievalService(openaiClient, openaiClient, chunkRepo, companyRepo, service.RetrievalConfig{
		TopK:          cfg.TopK,
		CandidatePool: cfg.CandidatePool,
		MaxSources:    cfg.MaxSources,
	})
	pipeline := service.NewPipeline(companyRepo, acquisitionSvc, indexingSvc, retrievalSvc)

	var indexWorker *jobs.Worker
	noWorker, _ := cmd.Flags().GetBool("no-worker")
	if !noWorker && cfg.HasOpenAI() {
		indexProcessor := jobs.NewIndexProcessor(companyRepo, indexingSvc)
		indexWorker = jobs.NewWorker(indexProcessor, 30*time.Second)
		go indexWorker.Start(ctx)
		log.Println("indexing retry worker started")
	}

	routerCfg := server.RouterConfig{
		APIKey:         cfg.APIKey,
		CompanyHandler: handlers.NewCompanyHandler(pipeline),
		AskHandler:     handlers.NewAskHandler(pipeline),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if indexWorker != nil {
		indexWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	msg, err := migrationResult(upErr, err, version, dirty)
	if err != nil {
		return err
	}
	log.Println(msg)

	return nil
}

// migrationResult reports what a migration run did, distinguishing a no-op
// run from one that applied new versions. upErr is the result of Up(),
// versionErr the result of Version().
func migrationResult(upErr, versionErr error, version uint, dirty bool) (string, error) {
	switch {
	case versionErr == migrate.ErrNilVersion:
		return "migrations: database is up to date (no migrations applied)", nil
	case dirty:
		return "", fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	case upErr == migrate.ErrNoChange:
		return fmt.Sprintf("migrations: database is up to date (version %d)", version), nil
	default:
		return fmt.Sprintf("migrations: applied successfully (version %d)", version), nil
	}
}
