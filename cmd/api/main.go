package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	appconfig "anishelf/internal/config"
	"anishelf/internal/common/pagination"
	"anishelf/internal/infra/adapter/persistence/kv"
	pgRepo "anishelf/internal/infra/adapter/persistence/postgres"
	liteRepo "anishelf/internal/infra/adapter/persistence/sqlite"
	catinfra "anishelf/internal/infra/catalog"
	"anishelf/internal/infra/db"
	"anishelf/internal/infra/feed"
	"anishelf/pkg/config"

	catUC "anishelf/internal/usecase/catalog"
	connUC "anishelf/internal/usecase/connectivity"
	listUC "anishelf/internal/usecase/list"
	newsUC "anishelf/internal/usecase/news"
	revUC "anishelf/internal/usecase/review"

	hhttp "anishelf/internal/handler/http"
	hanime "anishelf/internal/handler/http/anime"
	hauth "anishelf/internal/handler/http/auth"
	hconn "anishelf/internal/handler/http/connectivity"
	hlist "anishelf/internal/handler/http/list"
	hnews "anishelf/internal/handler/http/news"
	hreview "anishelf/internal/handler/http/review"
	"anishelf/internal/handler/http/requestid"
	"anishelf/internal/observability/slo"
	"anishelf/internal/observability/tracing"
	"anishelf/internal/repository"
	"anishelf/internal/resilience/circuitbreaker"
	"anishelf/internal/resilience/retry"
	authservice "anishelf/internal/service/auth"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := initLogger()
	secret, jwtTTL := loadSecurity(logger)
	database, dialect := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	kvStore := openKVStore(logger)
	if kvStore != nil {
		defer func() {
			if err := kvStore.Close(); err != nil {
				logger.Error("failed to close kv store", slog.Any("error", err))
			}
		}()
	}

	version := getVersion()
	handler := setupServer(logger, database, dialect, kvStore, secret, jwtTTL, version)

	runServer(logger, handler, version)
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

// loadSecurity resolves the JWT signing secret and token lifetime. When a
// security config file is present it names the secret's environment
// variable and the expiry; otherwise JWT_SECRET and a 24 hour default
// apply.
func loadSecurity(logger *slog.Logger) ([]byte, time.Duration) {
	secretEnv := "JWT_SECRET"
	ttl := 24 * time.Hour

	if path := os.Getenv("SECURITY_CONFIG_PATH"); path != "" {
		cfg, err := appconfig.LoadSecurityConfig(path)
		if err != nil {
			logger.Error("failed to load security configuration", slog.Any("error", err))
			os.Exit(1)
		}
		secretEnv = cfg.GetJWTSecretEnv()
		ttl = time.Duration(cfg.GetJWTExpiryHours()) * time.Hour
	}

	secret := os.Getenv(secretEnv)
	if secret == "" {
		logger.Error("JWT secret must be set", slog.String("env", secretEnv))
		os.Exit(1)
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("JWT secret must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	// セキュリティ: よくある弱い秘密鍵を拒否
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT secret must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
	return []byte(secret), ttl
}

// initDatabase opens the relational store and runs migrations. The open
// is retried with backoff so the API survives a store that is still
// coming up.
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
	if err := db.MigrateUp(database, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready", slog.String("dialect", string(dialect)))
	return database, dialect
}

// openKVStore opens the bolthold mirror. A failure here is logged but not
// fatal: the mirror is a fallback, the relational store remains primary.
func openKVStore(logger *slog.Logger) *kv.Store {
	path := config.GetEnvString("KV_STORE_PATH", "anishelf.kv")
	store, err := kv.Open(path)
	if err != nil {
		logger.Warn("kv mirror unavailable, running without fallback store",
			slog.String("path", path),
			slog.Any("error", err))
		return nil
	}
	logger.Info("kv mirror ready", slog.String("path", path))
	return store
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// repos bundles the relational repositories for one dialect.
type repos struct {
	anime   repository.AnimeRepository
	reviews repository.ReviewRepository
	lists   repository.ListRepository
	users   repository.UserRepository
}

// buildRepos constructs the repositories behind a shared circuit breaker
// so a failing store sheds queries instead of queueing them.
func buildRepos(database *sql.DB, dialect db.Dialect) repos {
	guarded := circuitbreaker.NewDBCircuitBreaker(database)
	if dialect == db.DialectPostgres {
		return repos{
			anime:   pgRepo.NewAnimeRepo(guarded),
			reviews: pgRepo.NewReviewRepo(guarded),
			lists:   pgRepo.NewListRepo(guarded),
			users:   pgRepo.NewUserRepo(guarded),
		}
	}
	return repos{
		anime:   liteRepo.NewAnimeRepo(guarded),
		reviews: liteRepo.NewReviewRepo(guarded),
		lists:   liteRepo.NewListRepo(guarded),
		users:   liteRepo.NewUserRepo(guarded),
	}
}

// setupServer wires the services and returns the HTTP handler with all
// routes and middleware applied.
func setupServer(
	logger *slog.Logger,
	database *sql.DB,
	dialect db.Dialect,
	kvStore *kv.Store,
	secret []byte,
	jwtTTL time.Duration,
	version string,
) http.Handler {
	repos := buildRepos(database, dialect)

	clientCfg, err := catinfra.LoadClientConfigFromEnv()
	if err != nil {
		logger.Error("failed to load catalog client configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// カタログソース: AniList → Jikan → サンプルの順でフォールバック
	sources := []catUC.Source{
		catinfra.NewAniListClient(clientCfg),
		catinfra.NewJikanClient(clientCfg),
	}
	catalogSvc := catUC.NewService(sources, catinfra.NewSampleProvider(), repos.anime)

	var mirror revUC.Mirror
	var sessionStore authservice.SessionStore
	if kvStore != nil {
		mirror = kvStore
		sessionStore = kvStore
	}
	reviewSvc := revUC.NewService(repos.reviews, mirror)
	listSvc := listUC.NewService(repos.lists)

	holder := authservice.NewHolder(repos.users, sessionStore)
	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), 5*time.Second)
	holder.Restore(restoreCtx)
	restoreCancel()

	prober := connUC.NewProber([]connUC.SourceDescriptor{
		{Name: "anilist", URL: clientCfg.AniListURL, TestPayload: catinfra.AniListProbePayload},
		{Name: "jikan", URL: clientCfg.JikanURL + "/anime/1"},
	}, clientCfg.Timeout)

	newsSvc := buildNewsService(logger)

	mux := setupRoutes(logger, database, kvStore, version, routeServices{
		catalog: catalogSvc,
		reviews: reviewSvc,
		lists:   listSvc,
		news:    newsSvc,
		prober:  prober,
		holder:  holder,
		secret:  secret,
		jwtTTL:  jwtTTL,
	})
	return applyMiddleware(logger, mux)
}

// buildNewsService loads the feed descriptors and wires the RSS fetcher.
func buildNewsService(logger *slog.Logger) newsUC.Service {
	sourcesCfg, err := appconfig.LoadSourcesConfig(os.Getenv("SOURCES_CONFIG_PATH"))
	if err != nil {
		logger.Error("failed to load news sources configuration", slog.Any("error", err))
		os.Exit(1)
	}

	feeds := make([]newsUC.Feed, 0, len(sourcesCfg.Feeds))
	for _, f := range sourcesCfg.Feeds {
		feeds = append(feeds, newsUC.Feed{Name: f.Name, URL: f.URL})
	}
	logger.Info("news feeds configured", slog.Int("count", len(feeds)))

	fetcher := feed.NewRSSFetcher(&http.Client{Timeout: 15 * time.Second})
	return newsUC.NewService(fetcher, feeds)
}

type routeServices struct {
	catalog catUC.Service
	reviews revUC.Service
	lists   listUC.Service
	news    newsUC.Service
	prober  *connUC.Prober
	holder  *authservice.Holder
	secret  []byte
	jwtTTL  time.Duration
}

// setupRoutes registers all HTTP routes (public and protected).
func setupRoutes(
	logger *slog.Logger,
	database *sql.DB,
	kvStore *kv.Store,
	version string,
	svcs routeServices,
) *http.ServeMux {
	mux := http.NewServeMux()

	authMux := http.NewServeMux()
	hauth.Register(authMux, svcs.holder, svcs.secret, svcs.jwtTTL)

	// レート制限: 認証エンドポイントは既定で1分間に5リクエストまで
	if config.GetEnvBool("AUTH_RATELIMIT_ENABLED", true) {
		authRateLimiter := hhttp.NewRateLimiter(
			config.GetEnvInt("AUTH_RATELIMIT_REQUESTS", 5),
			config.GetEnvDuration("AUTH_RATELIMIT_WINDOW", time.Minute),
		)
		mux.Handle("/auth/", authRateLimiter.Limit(authMux))
	} else {
		mux.Handle("/auth/", authMux)
	}

	hanime.Register(mux, svcs.catalog, pagination.LoadFromEnv(), logger)
	hreview.Register(mux, svcs.reviews, svcs.secret, logger)
	hlist.Register(mux, svcs.lists, svcs.secret, logger)
	hconn.Register(mux, svcs.prober, logger)
	hnews.Register(mux, svcs.news, logger)

	// ヘルスチェックエンドポイント（認証不要）
	health := &hhttp.HealthHandler{DB: database, Version: version}
	if kvStore != nil {
		health.KV = kvStore
	}
	mux.Handle("/health", health)
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): CORS, request ID, tracing, recovery,
// logging, body limit, input validation, timeout, metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsCfg := hhttp.LoadCORSConfigFromEnv()
	if len(corsCfg.AllowedOrigins) > 0 {
		logger.Info("CORS enabled",
			slog.Any("allowed_origins", corsCfg.AllowedOrigins),
			slog.Int("max_age", corsCfg.MaxAge))
	}

	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.CORS(corsCfg)(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("API_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// SLOゲージはHTTPメトリクスから毎分再計算する
	monitor := slo.NewMonitor(prometheus.DefaultGatherer, slo.DefaultInterval, logger)
	go monitor.Run(ctx)

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
