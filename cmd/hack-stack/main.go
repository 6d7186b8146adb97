// cmd/hack-stack/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/johnhkchen/hack-stack/internal/business"
	awsclient "github.com/johnhkchen/hack-stack/internal/common/aws"
	"github.com/johnhkchen/hack-stack/internal/common/cache"
	"github.com/johnhkchen/hack-stack/internal/common/config"
	"github.com/johnhkchen/hack-stack/internal/common/database"
	httpclient "github.com/johnhkchen/hack-stack/internal/common/http"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/observability"
	"github.com/johnhkchen/hack-stack/internal/debug"
	"github.com/johnhkchen/hack-stack/internal/legacy"
	"github.com/johnhkchen/hack-stack/internal/models"
	"github.com/johnhkchen/hack-stack/internal/server"
	"github.com/johnhkchen/hack-stack/internal/vendors"
	"github.com/johnhkchen/hack-stack/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hack-stack API...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name, cfg.Tracing, prometheus.DefaultRegisterer)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	ctx := context.Background()
	backends := map[string]server.Pinger{}

	// --- Legacy registry store: PostgreSQL or memory ---
	var store legacy.Store
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.Migrate(ctx, legacy.Migrations...); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		pgStore := legacy.NewPostgresStore(pg.DB)
		added, err := pgStore.Seed(ctx, models.LegacySeed())
		if err != nil {
			zapLog.Fatal("seeding legacy registry failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully", zap.Int("seeded", added))
		store = pgStore
		backends["postgres"] = pg
	} else {
		store = legacy.NewMemoryStore(models.LegacySeed()...)
		zapLog.Info("PostgreSQL disabled, using in-memory legacy registry")
	}

	legacyOpts := []legacy.Option{legacy.WithObservability(obs)}

	// --- Elasticsearch full-text index (optional) ---
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		index := cfg.Database.Elasticsearch.Index
		if err := esClient.EnsureIndex(ctx, index, legacy.IndexMapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		esIndex := legacy.NewElasticsearchIndex(esClient.Client, index)

		existing, err := store.List(ctx)
		if err != nil {
			zapLog.Fatal("listing legacy registry failed", zap.Error(err))
		}
		indexed, err := esIndex.IndexAll(ctx, existing)
		if err != nil {
			zapLog.Warn("Backfilling search index incomplete", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", index), zap.Int("indexed", indexed))

		legacyOpts = append(legacyOpts, legacy.WithSearchIndex(esIndex))
		backends["elasticsearch"] = esClient
	}

	// --- Cache: Redis or memory ---
	var cacheStore cache.Store
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			rdb = database.NewRedis(cfg.Database.Redis)
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
		cacheStore = cache.NewRedisStore(rdb.Client, cfg.Cache.Prefix)
		backends["redis"] = rdb
	} else {
		cacheStore = cache.NewMemoryStore()
		zapLog.Info("Redis disabled, using in-memory cache")
	}

	// --- Vendors ---
	reg, err := registry.LoadOrDefault(cfg.Vendors.RegistryPath)
	if err != nil {
		zapLog.Fatal("vendor registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("vendor registry invalid", zap.Error(err))
	}
	env := vendors.DetectEnvironment(reg, cfg.Debug.EnvFile, cfg.Vendors.ForceMock, os.Getenv, log)
	vendorSvc := vendors.NewService(reg, env, obs, log)
	zapLog.Info("Vendors ready",
		zap.String("mode", env.Mode),
		zap.Strings("available", env.AvailableVendors),
	)

	// --- Debug surface ---
	debugCfg, debugPath, err := debug.LoadConfig(cfg.Debug.ConfigPath)
	if err != nil {
		zapLog.Fatal("debug config load failed", zap.Error(err))
	}
	if debugPath == "" {
		zapLog.Warn("debug.yaml not found, using defaults")
	} else {
		zapLog.Info("Loaded debug config", zap.String("path", debugPath))
	}

	prober := httpclient.NewClient(config.GetDuration(cfg.Debug.ProbeTimeout))
	defer prober.CloseIdleConnections()
	checker := debug.NewHealthChecker(prober, config.GetDuration(cfg.Debug.ProbeTimeout), obs, log)

	debugOpts := []debug.ServiceOption{debug.WithStrictMethods(cfg.Debug.StrictMethods)}
	if cfg.Notifications.Enabled {
		alerter, err := newAlerter(ctx, cfg.Notifications, cacheStore, log)
		if err != nil {
			zapLog.Fatal("notification setup failed", zap.Error(err))
		}
		debugOpts = append(debugOpts, debug.WithAlerter(alerter))
	}
	debugSvc := debug.NewService(debugCfg, checker, vendorSvc, log, debugOpts...)

	// --- HTTP ---
	srv := server.New(server.Deps{
		Config:     cfg.Server,
		Businesses: business.NewService(cacheStore, config.GetDuration(cfg.Cache.TTL), log),
		Legacy:     legacy.NewService(store, log, legacyOpts...),
		Vendors:    vendorSvc,
		Debug:      debugSvc,
		Obs:        obs,
		Backends:   backends,
		Logger:     log,
		StartedAt:  startedAt,
	})
	httpServer := srv.HTTPServer()

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := debugSvc.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("Readiness alert still in flight at shutdown", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("hack-stack API stopped gracefully")
}

// newAlerter wires SNS and SES readiness alerts. Cool-off markers share the
// business cache store.
func newAlerter(ctx context.Context, cfg config.NotificationConfig, store cache.Store, log logger.Logger) (*debug.Alerter, error) {
	awsCfg, err := awsclient.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	var opts []debug.AlerterOption
	if cfg.SNS.Enabled {
		opts = append(opts, debug.WithTopicPublisher(awsclient.NewSNSClient(awsCfg, cfg.SNS.TopicARN)))
	}
	if cfg.SES.Enabled {
		opts = append(opts, debug.WithEmailSender(awsclient.NewSESClient(awsCfg, cfg.SES.FromEmail), cfg.SES.To))
	}
	return debug.NewAlerter(store, config.GetDuration(cfg.CoolOff), log, opts...), nil
}
