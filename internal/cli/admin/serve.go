package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/api/handlers"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/config"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/database"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/jobs"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/repository"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/server"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/service"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/storage"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/telemetry"
)

const poolStatsInterval = 15 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the event services recommendation API on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides EVENTMATCH_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", defaultMigrationsSource, "Migration source URL")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.SentryDSN != "" {
		// 10% sampling in production, everything elsewhere.
		sampleRate := 1.0
		if cfg.Environment == "production" {
			sampleRate = 0.1
		}
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err == nil {
			defer shutdownTelemetry()
		}
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logging.Info().Msg("connected to database")

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		source, _ := cmd.Flags().GetString("migrations")
		if err := runMigrations(cfg.DatabaseURL, source); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	checks := map[string]handlers.HealthCheck{
		"database": pool.Ping,
	}

	breakerSettings := repository.DefaultBreakerSettings()
	candidates := repository.NewBreakerCandidateRepository(repository.NewCandidateRepository(pool), breakerSettings)

	var historySource repository.HistorySource = repository.NewHistoryRepository(pool, cfg.HistoryLimit)
	if cfg.UsesRedisHistory() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logging.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, history reads will bypass the cache")
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		historySource = repository.NewCachedHistoryRepository(rdb, historySource, cfg.HistoryCacheTTL)
		logging.Info().Dur("ttl", cfg.HistoryCacheTTL).Msg("history cache enabled")
	}
	history := repository.NewBreakerHistoryRepository(historySource, breakerSettings)

	var signer handlers.ImageSigner
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
			URLExpiry:       cfg.S3PresignTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		signer = s3Client
		logging.Info().Str("bucket", cfg.S3Bucket).Msg("image url signing enabled")
	}

	recommendationSvc := service.NewRecommendationServiceWithConfig(candidates, history, service.RecommendationServiceConfig{
		Weights: service.Weights{
			Budget:          cfg.WeightBudget,
			Location:        cfg.WeightLocation,
			Capacity:        cfg.WeightCapacity,
			Personalization: cfg.WeightPersonalization,
		},
		BestMatchFloor: cfg.BestMatchFloor,
		Timeout:        cfg.RecommendTimeout,
		ScoringWorkers: cfg.ScoringWorkers,
	})

	statsWorker := jobs.NewWorker("pool-stats", jobs.NewPoolStatsCollector(jobs.PgxPoolStats{Pool: pool}), poolStatsInterval)
	go statsWorker.Start(ctx)

	router := server.NewRouter(server.RouterConfig{
		RecommendationHandler: handlers.NewRecommendationHandler(recommendationSvc, signer),
		HealthHandler:         handlers.NewHealthHandler(checks),
		AllowAnonymous:        cfg.AllowAnonymous,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRequests:     cfg.RateLimitRequests,
		RateLimitWindow:       cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logging.Info().Msg("shutting down...")

	statsWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logging.Info().Msg("server exited")
	return nil
}
