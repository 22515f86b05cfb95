package memory

import (
	"context"
	"time"

	"bookapp-ai-be/pkg/bookai/search"

	"github.com/patrickmn/go-cache"
)

// SearchCacheRepository is the process-local tier of the search cache.
type SearchCacheRepository struct {
	cache *cache.Cache
}

func NewSearchCacheRepository(defaultTTL time.Duration) *SearchCacheRepository {
	c := cache.New(defaultTTL, 10*time.Minute)
	return &SearchCacheRepository{
		cache: c,
	}
}

func (r *SearchCacheRepository) Get(_ context.Context, key string) ([]search.Result, bool) {
	if x, found := r.cache.Get(key); found {
		return x.([]search.Result), true
	}
	return nil, false
}

// Set stores a copy so callers cannot mutate cached rows.
func (r *SearchCacheRepository) Set(_ context.Context, key string, results []search.Result, ttl time.Duration) error {
	stored := make([]search.Result, len(results))
	copy(stored, results)
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	r.cache.Set(key, stored, ttl)
	return nil
}

func (r *SearchCacheRepository) Flush() {
	r.cache.Flush()
}
