package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// CachingRepository is a read-through cache in front of a catalog repository.
// Tag queries are the hot path during family scans (one uniqueness probe per
// file) and during assembly; their results are cached in Redis keyed by the
// filter string.  Save invalidates the whole tag-query namespace since any
// cached filter may now be stale.
//
// The cache is strictly an accelerator: every Redis failure is logged and the
// call falls through to the inner repository.
type CachingRepository struct {
	inner  potential.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    logging.Logger
	group  singleflight.Group
}

// NewCachingRepository wraps inner with a Redis tag-query cache.  An empty
// prefix defaults to "potvault:", a zero TTL to 15 minutes.
func NewCachingRepository(inner potential.Repository, client *redis.Client,
	prefix string, ttl time.Duration, log logging.Logger) *CachingRepository {
	if prefix == "" {
		prefix = "potvault:"
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachingRepository{
		inner:  inner,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.Named("cache"),
	}
}

// tagKey builds the cache key for one tag filter.
func (c *CachingRepository) tagKey(filter pottypes.TagFilter) string {
	return c.prefix + "tags:" + filter.String()
}

// jitterTTL spreads expirations by +/- 10% so cached queries do not expire
// in lockstep.
func (c *CachingRepository) jitterTTL() time.Duration {
	jitter := float64(c.ttl) * 0.1 * (rand.Float64()*2 - 1)
	return c.ttl + time.Duration(jitter)
}

// Save writes through to the inner repository and invalidates the tag-query
// namespace.
func (c *CachingRepository) Save(ctx context.Context, pf *potential.PotentialFile) error {
	if err := c.inner.Save(ctx, pf); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID is not cached; lookups by ID are rare and cheap.
func (c *CachingRepository) FindByID(ctx context.Context, id uuid.UUID) (*potential.PotentialFile, error) {
	return c.inner.FindByID(ctx, id)
}

// FindByTags serves repeated filter queries from Redis.  Concurrent misses
// for the same filter are collapsed into a single repository query.
func (c *CachingRepository) FindByTags(ctx context.Context, filter pottypes.TagFilter) ([]*potential.PotentialFile, error) {
	if filter.Empty() {
		return c.inner.FindByTags(ctx, filter)
	}

	key := c.tagKey(filter)
	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		out, err := c.inner.FindByTags(ctx, filter)
		if err != nil {
			return nil, err
		}
		c.fill(ctx, key, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*potential.PotentialFile), nil
}

// Count is not cached; it is only used for summary output.
func (c *CachingRepository) Count(ctx context.Context) (int64, error) {
	return c.inner.Count(ctx)
}

// lookup fetches and decodes one cached query result.
func (c *CachingRepository) lookup(ctx context.Context, key string) ([]*potential.PotentialFile, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			c.log.Warn("cache lookup failed", logging.String("key", key), logging.Err(err))
		}
		return nil, false
	}
	var out []*potential.PotentialFile
	if err := json.Unmarshal(data, &out); err != nil {
		c.log.Warn("cache entry corrupt, dropping",
			logging.String("key", key), logging.Err(err))
		c.client.Del(ctx, key)
		return nil, false
	}
	return out, true
}

// fill stores one query result.  Empty results are cached too: during a
// family scan most uniqueness probes miss, and caching the miss spares the
// database a repeat query.
func (c *CachingRepository) fill(ctx context.Context, key string, out []*potential.PotentialFile) {
	data, err := json.Marshal(out)
	if err != nil {
		c.log.Warn("cache encode failed", logging.String("key", key), logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.jitterTTL()).Err(); err != nil {
		c.log.Warn("cache fill failed", logging.String("key", key), logging.Err(err))
	}
}

// invalidate drops every cached tag query.
func (c *CachingRepository) invalidate(ctx context.Context) {
	pattern := c.prefix + "tags:*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache invalidation scan failed", logging.Err(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidation failed", logging.Err(err))
	}
}

// Ping reports cache health.
func (c *CachingRepository) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache health check failed")
	}
	return nil
}
