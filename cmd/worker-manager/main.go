// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"compare-workers/internal/benchmarks"
	"compare-workers/internal/catalog"
	"compare-workers/internal/common/camunda"
	"compare-workers/internal/common/config"
	"compare-workers/internal/common/database"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/observability"
	"compare-workers/internal/common/validation"
	"compare-workers/internal/explain"
	"compare-workers/internal/ranking"
	"compare-workers/internal/session"
	"compare-workers/pkg/registry"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.FromConfig(cfg.Logging)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	log.Info("Starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.App.Name, cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio); err != nil {
			zapLog.Fatal("tracing init failed", zap.Error(err))
		}
		log.Info("Tracing enabled", map[string]interface{}{"endpoint": cfg.Tracing.JaegerEndpoint})
	}

	// --- Backing services, each with retry-backoff ---
	zeebeClient, err := camunda.Connect(ctx, cfg.Camunda.BrokerAddress, camunda.DefaultRetryConfig, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	var pg *database.PostgresClient
	err = camunda.RetryWithBackoff(ctx, camunda.DefaultRetryConfig, log, "postgres connection", func(ctx context.Context) error {
		client, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return err
		}
		pg = client
		return nil
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	log.Info("PostgreSQL connected", nil)

	rdb := database.NewRedis(cfg.Database.Redis)
	if err := camunda.RetryWithBackoff(ctx, camunda.DefaultRetryConfig, log, "redis connection", rdb.Ping); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("Redis connected", nil)

	var es *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled() {
		es, err = connectElasticsearch(ctx, cfg, log)
		if err != nil {
			log.Warn("Elasticsearch unavailable, benchmark overrides disabled", map[string]interface{}{"error": err.Error()})
			es = nil
		}
	}

	// --- Domain services ---
	store := catalog.NewPostgresStore(pg.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("catalog schema setup failed", zap.Error(err))
	}

	tables := loadTables(ctx, cfg, es, log)
	selector := benchmarks.NewSelector(tables, cfg.Ranking)

	reg, err := registry.LoadOrBuiltin(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	for _, problem := range reg.Validate() {
		log.Warn("activity registry problem", map[string]interface{}{"error": problem.Error()})
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("activity registry schemas invalid", zap.Error(err))
	}

	completer := explain.NewHTTPCompleter(cfg.APIs.GenAI, log)
	deps := &dependencies{
		cfg:       cfg,
		log:       log,
		store:     store,
		attrs:     catalog.NewCachedCatalog(store, rdb.Client, config.GetDuration(cfg.Catalog.CacheTTL), cfg.Catalog.CachePrefix, log),
		sessions:  session.NewStore(rdb.Client, config.GetDuration(cfg.Session.TTL), cfg.Session.KeyPrefix),
		selector:  selector,
		validator: validator,
		requester: explain.NewRequester(completer, log,
			explain.WithTimeout(config.GetDuration(cfg.APIs.GenAI.Timeout)),
			explain.WithPreviewSize(cfg.Ranking.PreviewSize),
			explain.WithObservability(obs),
		),
	}

	workers := camunda.NewWorkers(zeebeClient, obs, log)
	if err := registerWorkers(workers, deps); err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}
	log.Info("Workers registered", map[string]interface{}{"workers": workers.Names()})

	pingers := []database.Pinger{camunda.Pinger{Client: zeebeClient}, pg, rdb}
	if es != nil {
		pingers = append(pingers, es)
	}
	srv := startHealthServer(cfg.App.HTTPPort, &status{
		workers:   workers.Names(),
		pingers:   pingers,
		completer: completer,
	}, log)

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebeClient.Close(); err != nil {
		log.Error("zeebe client close failed", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Worker manager stopped gracefully", nil)
}

func connectElasticsearch(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.ElasticsearchClient, error) {
	var es *database.ElasticsearchClient
	rc := camunda.RetryConfig{MaxAttempts: 5, InitialDelay: 2 * time.Second, MaxDelay: 10 * time.Second}
	err := camunda.RetryWithBackoff(ctx, rc, log, "elasticsearch connection", func(ctx context.Context) error {
		client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			return err
		}
		es = client
		return nil
	})
	return es, err
}

// loadTables starts from the configured tables and lets the benchmark index
// replace the component score tables when one is configured.
func loadTables(ctx context.Context, cfg *config.Config, es *database.ElasticsearchClient, log logger.Logger) ranking.Tables {
	tables := benchmarks.TablesFromConfig(cfg.Ranking)
	if es == nil || cfg.Ranking.BenchmarkIndex == "" {
		logTables(log, tables, "config")
		return tables
	}

	loader := benchmarks.NewLoader(es.Client, cfg.Ranking.BenchmarkIndex, log)
	lctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	overridden, err := loader.Apply(lctx, tables, cfg.Ranking.ProcessorFallback, cfg.Ranking.GPUFallback)
	if err != nil {
		log.Warn("benchmark index not applied, using configured tables", map[string]interface{}{
			"index": cfg.Ranking.BenchmarkIndex,
			"error": err.Error(),
		})
		logTables(log, tables, "config")
		return tables
	}
	logTables(log, overridden, cfg.Ranking.BenchmarkIndex)
	return overridden
}

func logTables(log logger.Logger, tables ranking.Tables, source string) {
	log.Info("ranking tables ready", map[string]interface{}{
		"source":   source,
		"purposes": tables.Purposes(),
	})
}
