package memory

import (
	"context"
	"testing"
	"time"

	"bookapp-ai-be/pkg/bookai/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCacheRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSearchCacheRepository(time.Minute)

	_, found := repo.Get(ctx, "missing")
	assert.False(t, found)

	rows := []search.Result{{ID: 1, Title: "채식주의자", Similarity: 0.8}}
	require.NoError(t, repo.Set(ctx, "k", rows, 0))

	got, found := repo.Get(ctx, "k")
	require.True(t, found)
	assert.Equal(t, rows, got)

	rows[0].Title = "mutated"
	got, _ = repo.Get(ctx, "k")
	assert.Equal(t, "채식주의자", got[0].Title)

	repo.Flush()
	_, found = repo.Get(ctx, "k")
	assert.False(t, found)
}

func TestSearchCacheRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSearchCacheRepository(time.Minute)

	require.NoError(t, repo.Set(ctx, "short", []search.Result{{ID: 2}}, 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, found := repo.Get(ctx, "short")
	assert.False(t, found)
}
