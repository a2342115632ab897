//go:build integration

package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/database/redis"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/internal/testutil"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// setupCache connects to the Redis instance named by REDIS_TEST_ADDR, or
// skips the test when none is available.
func setupCache(t *testing.T) (*redis.CachingRepository, *testutil.MemoryRepository) {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set; skipping integration test")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	inner := testutil.NewMemoryRepository()
	cached := redis.NewCachingRepository(inner, client,
		"potvault-test:", time.Minute, logging.NewNopLogger())
	return cached, inner
}

func seed(t *testing.T, repo *testutil.MemoryRepository, name string, version int) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), &potential.PotentialFile{
		ID:          uuid.New(),
		Name:        name,
		Element:     "Si",
		Version:     version,
		Functional:  pottypes.FuncPBE,
		Fingerprint: name + "-fp",
		Title:       "PAW_PBE " + name + " 05Jan2001",
		ObjectKey:   "raw/" + name,
	}))
}

func TestCachingRepository_ReadThrough(t *testing.T) {
	cached, inner := setupCache(t)
	ctx := context.Background()
	seed(t, inner, "Si", 20010105)

	name := "Si"
	filter := pottypes.TagFilter{Name: &name}

	first, err := cached.FindByTags(ctx, filter)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Break the inner repository: a cache hit never reaches it.
	inner.FindErr = assert.AnError
	second, err := cached.FindByTags(ctx, filter)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Fingerprint, second[0].Fingerprint)
}

func TestCachingRepository_SaveInvalidates(t *testing.T) {
	cached, inner := setupCache(t)
	ctx := context.Background()
	seed(t, inner, "Si", 20010105)

	name := "Si"
	filter := pottypes.TagFilter{Name: &name}

	first, err := cached.FindByTags(ctx, filter)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Storing a second version through the cache drops the stale entry.
	require.NoError(t, cached.Save(ctx, &potential.PotentialFile{
		ID:          uuid.New(),
		Name:        "Si",
		Element:     "Si",
		Version:     20190303,
		Functional:  pottypes.FuncPBE,
		Fingerprint: "si-new-fp",
		Title:       "PAW_PBE Si 03Mar2019",
		ObjectKey:   "raw/si-new",
	}))

	second, err := cached.FindByTags(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestCachingRepository_EmptyResultIsCached(t *testing.T) {
	cached, inner := setupCache(t)
	ctx := context.Background()

	name := "Zr_sv"
	filter := pottypes.TagFilter{Name: &name}

	out, err := cached.FindByTags(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, out)

	inner.FindErr = assert.AnError
	out, err = cached.FindByTags(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, out)
}
