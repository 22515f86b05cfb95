package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_SEARCH_LIMIT", "")
	t.Setenv("TAGGER_RETRY_CONCURRENCY", "")

	cfg := Load()

	assert.Equal(t, 20, cfg.Search.ResultLimit)
	assert.Equal(t, 60, cfg.Search.FetchLimit)
	assert.Equal(t, 0.55, cfg.Search.DefaultThreshold)
	assert.Equal(t, 0.40, cfg.Search.AuthorThreshold)
	assert.Equal(t, 0.65, cfg.Ingest.SimilarityThreshold)
	assert.Equal(t, 2, cfg.Tagger.RetryConcurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_SEARCH_LIMIT", "5")
	t.Setenv("AI_AUTHOR_THRESHOLD", "0.3")
	t.Setenv("TAGGER_ENABLED", "false")
	t.Setenv("SEARCH_CACHE_TTL_SECONDS", "30")
	t.Setenv("TAGGER_RETRY_THRESHOLD", "not-a-number")

	cfg := Load()

	assert.Equal(t, 5, cfg.Search.ResultLimit)
	assert.Equal(t, 0.3, cfg.Search.AuthorThreshold)
	assert.False(t, cfg.Tagger.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Tagger.RetryThreshold)
}
