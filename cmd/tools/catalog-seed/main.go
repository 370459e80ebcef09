// cmd/tools/catalog-seed/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/config"
	"compare-workers/internal/common/database"
	"compare-workers/internal/common/logger"
)

func main() {
	seedPath := flag.String("seed", "configs/catalog-seed.yaml", "Path to the catalog seed file")
	prune := flag.Bool("prune", false, "Delete attributes of seeded categories that the seed does not list")
	timeout := flag.Duration("timeout", time.Minute, "Overall timeout")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	seed, err := catalog.LoadSeed(*seedPath)
	if err != nil {
		zapLog.Fatal("seed load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	store := catalog.NewPostgresStore(pg.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("catalog schema setup failed", zap.Error(err))
	}

	report, err := catalog.ApplySeed(ctx, store, store, seed, *prune)
	if err != nil {
		zapLog.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}

	// Workers cache attribute lists; drop the entries of every seeded category.
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	cache := catalog.NewCachedCatalog(store, rdb.Client, config.GetDuration(cfg.Catalog.CacheTTL), cfg.Catalog.CachePrefix, log)
	for _, id := range report.CategoryIDs {
		if err := cache.Invalidate(ctx, id); err != nil {
			log.Warn("cache invalidation failed", map[string]interface{}{"categoryId": id, "error": err.Error()})
		}
	}

	log.Info("catalog seeded", map[string]interface{}{
		"categories": len(report.CategoryIDs),
		"upserted":   report.Upserted,
		"pruned":     report.Pruned,
		"prune":      *prune,
	})
}
