package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/pkg/bookai/search"

	"github.com/redis/go-redis/v9"
)

const searchCachePrefix = "bookai:search:"

// RedisSearchCacheRepository is the shared tier of the search cache.
// Redis failures are reported as misses.
type RedisSearchCacheRepository struct {
	rdb    *redis.Client
	logger logger.ILogger
}

func NewRedisSearchCacheRepository(rdb *redis.Client, log logger.ILogger) contract.SearchCacheRepository {
	return &RedisSearchCacheRepository{rdb: rdb, logger: log}
}

func (r *RedisSearchCacheRepository) Get(ctx context.Context, key string) ([]search.Result, bool) {
	raw, err := r.rdb.Get(ctx, searchCachePrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("SEARCH_CACHE", "Redis get failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var results []search.Result
	if err := json.Unmarshal(raw, &results); err != nil {
		r.logger.Warn("SEARCH_CACHE", "Discarding corrupt cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return results, true
}

func (r *RedisSearchCacheRepository) Set(ctx context.Context, key string, results []search.Result, ttl time.Duration) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, searchCachePrefix+key, raw, ttl).Err()
}
