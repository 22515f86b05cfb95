package service

import (
	"context"
	"strings"
	"time"

	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/internal/repository/contract"
	"bookapp-ai-be/pkg/bookai/search"
)

const searchCacheVersion = "v1"

// ISearcher is implemented by search.Orchestrator.
type ISearcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

type ISearchService interface {
	Search(ctx context.Context, req *dto.AISearchRequest) (*dto.AISearchResponse, error)
}

type searchService struct {
	searcher ISearcher
	local    contract.SearchCacheRepository
	shared   contract.SearchCacheRepository
	ttl      time.Duration
	logger   logger.ILogger
}

// NewSearchService reads through a local cache and then an optional shared
// one. Pass nil caches to disable them.
func NewSearchService(
	searcher ISearcher,
	local contract.SearchCacheRepository,
	shared contract.SearchCacheRepository,
	ttl time.Duration,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		searcher: searcher,
		local:    local,
		shared:   shared,
		ttl:      ttl,
		logger:   log,
	}
}

func (s *searchService) Search(ctx context.Context, req *dto.AISearchRequest) (*dto.AISearchResponse, error) {
	key := searchCacheKey(req.Query)

	if results, ok := s.lookup(ctx, key); ok {
		return &dto.AISearchResponse{Query: req.Query, Results: results, Cached: true}, nil
	}

	results, err := s.searcher.Search(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []search.Result{}
	}

	// Empty answers are not cached so freshly ingested books show up.
	if len(results) > 0 {
		s.store(ctx, key, results)
	}

	return &dto.AISearchResponse{Query: req.Query, Results: results}, nil
}

func (s *searchService) lookup(ctx context.Context, key string) ([]search.Result, bool) {
	if s.local != nil {
		if results, ok := s.local.Get(ctx, key); ok {
			return results, true
		}
	}
	if s.shared != nil {
		if results, ok := s.shared.Get(ctx, key); ok {
			if s.local != nil {
				_ = s.local.Set(ctx, key, results, s.ttl)
			}
			return results, true
		}
	}
	return nil, false
}

func (s *searchService) store(ctx context.Context, key string, results []search.Result) {
	if s.local != nil {
		_ = s.local.Set(ctx, key, results, s.ttl)
	}
	if s.shared != nil {
		if err := s.shared.Set(ctx, key, results, s.ttl); err != nil {
			s.logger.Warn("SEARCH", "Failed to write shared cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// searchCacheKey folds case and whitespace so equivalent queries share an entry.
func searchCacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return searchCacheVersion + ":" + normalized
}
