package contract

import (
	"context"
	"time"

	"bookapp-ai-be/pkg/bookai/search"
)

type SearchCacheRepository interface {
	Get(ctx context.Context, key string) ([]search.Result, bool)
	Set(ctx context.Context, key string, results []search.Result, ttl time.Duration) error
}
