package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	pgRepo "anishelf/internal/infra/adapter/persistence/postgres"
	liteRepo "anishelf/internal/infra/adapter/persistence/sqlite"
	catinfra "anishelf/internal/infra/catalog"
	"anishelf/internal/infra/db"
	workerPkg "anishelf/internal/infra/worker"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/repository"
	"anishelf/internal/resilience/circuitbreaker"
	"anishelf/internal/resilience/retry"
	catUC "anishelf/internal/usecase/catalog"
	connUC "anishelf/internal/usecase/connectivity"
)

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM anime LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database, dialect := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("probe_max_concurrent", workerConfig.ProbeMaxConcurrent),
		slog.Duration("refresh_timeout", workerConfig.RefreshTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	// Start metrics HTTP server
	startMetricsServer(ctx, logger)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	job := setupRefreshJob(logger, database, dialect)

	startCronWorker(logger, job, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection with retry and waits for
// migrations to complete.
func initDatabase(logger *slog.Logger) (*sql.DB, db.Dialect) {
	var database *sql.DB
	var dialect db.Dialect

	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := retry.WithBackoff(openCtx, retry.DBConfig(), func() error {
		var openErr error
		database, dialect, openErr = db.Open()
		return openErr
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)
	return database, dialect
}

// refreshJob bundles everything one scheduled sweep needs: the catalog
// service for warming the local cache, the prober for the connectivity
// sweep, and the database handle for the population gauges.
type refreshJob struct {
	catalog catUC.Service
	prober  *connUC.Prober
	db      *sql.DB
	logger  *slog.Logger
}

// setupRefreshJob creates the refresh job with all dependencies.
func setupRefreshJob(logger *slog.Logger, database *sql.DB, dialect db.Dialect) *refreshJob {
	guarded := circuitbreaker.NewDBCircuitBreaker(database)
	var animeRepo repository.AnimeRepository
	if dialect == db.DialectPostgres {
		animeRepo = pgRepo.NewAnimeRepo(guarded)
	} else {
		animeRepo = liteRepo.NewAnimeRepo(guarded)
	}

	clientCfg, err := catinfra.LoadClientConfigFromEnv()
	if err != nil {
		logger.Error("failed to load catalog client configuration", slog.Any("error", err))
		os.Exit(1)
	}
	clientCfg.Timeout = 30 * time.Second
	httpClient := createHTTPClient()

	anilist := catinfra.NewAniListClient(clientCfg)
	anilist.SetHTTPClient(httpClient)
	jikan := catinfra.NewJikanClient(clientCfg)
	jikan.SetHTTPClient(httpClient)

	catalogSvc := catUC.NewService(
		[]catUC.Source{anilist, jikan},
		catinfra.NewSampleProvider(),
		animeRepo,
	)

	prober := connUC.NewProber([]connUC.SourceDescriptor{
		{Name: "anilist", URL: clientCfg.AniListURL, TestPayload: catinfra.AniListProbePayload},
		{Name: "jikan", URL: clientCfg.JikanURL + "/anime/1"},
	}, 0)

	return &refreshJob{
		catalog: catalogSvc,
		prober:  prober,
		db:      database,
		logger:  logger,
	}
}

// createHTTPClient creates an HTTP client with timeouts and connection pooling.
// TLS 1.2+ is enforced for security.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12, // Enforce TLS 1.2+
			},
		},
	}
}

// startCronWorker starts the cron scheduler and runs the refresh job periodically.
func startCronWorker(logger *slog.Logger, job *refreshJob, cfg *workerPkg.WorkerConfig, workerMetrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	// Load timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runRefreshJob(job, cfg, workerMetrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runRefreshJob executes one scheduled sweep: a connectivity probe, a
// trending refresh to warm the local cache, and a population gauge update.
func runRefreshJob(job *refreshJob, cfg *workerPkg.WorkerConfig, workerMetrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	workerMetrics.RecordJobRun("started")
	job.logger.Info("refresh started")

	// リフレッシュ処理のタイムアウト（設定から取得）
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RefreshTimeout)
	defer cancel()

	result, err := job.prober.ProbeAll(ctx)
	if err != nil {
		job.logger.Warn("connectivity sweep failed", slog.Any("error", err))
	} else {
		job.logger.Info("connectivity sweep completed",
			slog.Bool("online", result.Online()),
			slog.String("recommended", result.Recommended))
	}

	entries, err := job.catalog.Trending(ctx, 1, 50)
	if err != nil {
		job.logger.Error("trending refresh failed", slog.Any("error", err))
		workerMetrics.RecordJobRun("failure")
		workerMetrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	job.updatePopulationGauges(ctx)

	workerMetrics.RecordJobRun("success")
	workerMetrics.RecordJobDuration(time.Since(startTime).Seconds())
	workerMetrics.RecordEntriesRefreshed(len(entries))
	workerMetrics.RecordLastSuccess()

	job.logger.Info("refresh completed",
		slog.Int("entries", len(entries)),
		slog.Duration("duration", time.Since(startTime)),
	)
}

// updatePopulationGauges refreshes the catalog, user and review totals
// exposed to Prometheus. Count failures are logged and skipped, they
// never fail the job.
func (j *refreshJob) updatePopulationGauges(ctx context.Context) {
	gauges := []struct {
		table  string
		update func(int)
	}{
		{"anime", metrics.UpdateCatalogEntriesTotal},
		{"users", metrics.UpdateUsersTotal},
		{"reviews", metrics.UpdateReviewsTotal},
	}
	for _, g := range gauges {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", g.table)
		if err := j.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			j.logger.Warn("population count failed",
				slog.String("table", g.table),
				slog.Any("error", err))
			continue
		}
		g.update(count)
	}
}
