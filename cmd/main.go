package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/sleepwellbaby/internal/config"
	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/handler"
	"github.com/KasumiMercury/sleepwellbaby/internal/health"
	"github.com/KasumiMercury/sleepwellbaby/internal/infra/predictionrecorder"
	"github.com/KasumiMercury/sleepwellbaby/internal/infra/repository"
	"github.com/KasumiMercury/sleepwellbaby/internal/model"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/logging"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/metrics"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/middleware"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/eligibility"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/features"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/predict"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg.LogLevel)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	artifact, err := model.Load(cfg.ModelDir)
	if err != nil {
		slog.Error("failed to load model artifact",
			slog.String("model_dir", cfg.ModelDir),
			slog.String("error", err.Error()),
		)
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	predictionMetrics, err := metrics.NewPredictionMetrics()
	if err != nil {
		slog.Error("failed to initialize prediction metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	recorder, err := predictionrecorder.NewRecorder(ctx, predictionrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize prediction recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close prediction recorder", slog.String("error", err.Error()))
		}
	}()

	var (
		cache       domain.PredictionCache
		redisPinger health.Pinger
	)
	if cfg.Cache.Enabled {
		redisClient, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		cache = repository.NewPredictionRepository(redisClient, cfg.Cache.KeyPrefix, cfg.Cache.TTL)
		redisPinger = redisClient
	} else {
		slog.Info("prediction cache disabled")
	}

	predictionService, err := predict.NewService(
		eligibility.NewChecker(),
		features.NewExtractor(features.WithParallel(cfg.Prediction.FeatureParallel)),
		artifact,
		cache,
		recorder,
		predictionMetrics,
		cfg.Prediction.Rule(),
	)
	if err != nil {
		slog.Error("failed to initialize prediction service", slog.String("error", err.Error()))
		return 1
	}

	predictionHandler := handler.NewPredictionHandler(predictionService, Version)
	promRegistry := metrics.NewRegistry(Version, artifact.Version(), artifact.Classes())

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:      logging.Module("prediction"),
		TracerName:  "github.com/KasumiMercury/sleepwellbaby/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisPinger, artifact.Version(), Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())
	r.GET("/metrics", gin.WrapH(promRegistry.Handler()))

	handler.RegisterRoutes(r, predictionHandler)

	// gRPC health shares the port with the REST API over h2c
	mux := http.NewServeMux()
	grpcHealthPath, grpcHealthHandler := healthChecker.GRPCHandler()
	mux.Handle(grpcHealthPath, grpcHealthHandler)
	mux.Handle("/", r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("model_version", artifact.Version()),
			slog.Bool("cache_enabled", cfg.Cache.Enabled),
			slog.Bool("feature_parallel", cfg.Prediction.FeatureParallel),
			slog.Bool("wake_override", cfg.Prediction.Rule().HasOverride()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	redisClient := redis.NewClient(cfg.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	slog.Info("redis connected",
		slog.String("addr", cfg.Addr),
		slog.Int("db", cfg.DB),
		slog.Bool("tls", cfg.TLS),
	)

	return redisClient, nil
}
