// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/camunda"
	"compare-workers/internal/common/config"
	"compare-workers/internal/common/database"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/models"
	"compare-workers/internal/session"
)

// Live tests talk to the services in configs/config.yaml. They run only when
// E2E_LIVE=1 so the default test run stays hermetic.
func requireLive(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv("E2E_LIVE") != "1" {
		t.Skip("set E2E_LIVE=1 to run against live services")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestLive_ServicesReachable(t *testing.T) {
	cfg := requireLive(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	log := logger.NewTestLogger(t)

	rc := camunda.RetryConfig{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 2 * time.Second}
	zeebeClient, err := camunda.Connect(ctx, cfg.Camunda.BrokerAddress, rc, log)
	require.NoError(t, err)
	defer zeebeClient.Close()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()

	pingers := []database.Pinger{camunda.Pinger{Client: zeebeClient}, pg, rdb}
	if cfg.Database.Elasticsearch.Enabled() {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		require.NoError(t, err)
		pingers = append(pingers, es)
	}
	assert.Empty(t, database.CheckAll(ctx, 5*time.Second, pingers...))
}

func TestLive_CatalogAndSessionRoundTrip(t *testing.T) {
	cfg := requireLive(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()

	store := catalog.NewPostgresStore(pg.DB)
	require.NoError(t, store.EnsureSchema(ctx))

	seed, err := catalog.LoadSeed("../../configs/catalog-seed.yaml")
	require.NoError(t, err)
	report, err := catalog.ApplySeed(ctx, store, store, seed, false)
	require.NoError(t, err)
	require.NotEmpty(t, report.CategoryIDs)

	cached := catalog.NewCachedCatalog(store, rdb.Client, time.Minute, "e2e:attributes:", log)
	defer cached.Invalidate(ctx, report.CategoryIDs[0])
	attrs, err := cached.ListAttributes(ctx, report.CategoryIDs[0])
	require.NoError(t, err)
	assert.NotEmpty(t, attrs)

	sessions := session.NewStore(rdb.Client, time.Minute, "e2e:session:")
	created, err := sessions.Create(ctx, report.CategoryIDs[0], []string{"x"}, models.Preferences{Purpose: "gaming"})
	require.NoError(t, err)
	defer sessions.Delete(ctx, created.ID)
	loaded, err := sessions.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, loaded.ItemIDs)
	assert.Equal(t, "gaming", loaded.Preferences.Purpose)
}
