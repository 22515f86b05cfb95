package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"bookapp-ai-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultOllamaBaseURL = "http://localhost:11434"

func ollamaBaseURL(t *testing.T) string {
	t.Helper()
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		t.Skipf("Skipping Ollama test: %s unreachable (%v)", baseURL, err)
	}
	resp.Body.Close()
	return baseURL
}

func TestOllamaEmbeddingSimilarity(t *testing.T) {
	baseURL := ollamaBaseURL(t)
	provider := embedding.NewOllamaProvider(baseURL, os.Getenv("EMBEDDING_MODEL"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	embed := func(text, task string) []float32 {
		resp, err := provider.Generate(ctx, text, task)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Embedding.Values)
		return resp.Embedding.Values
	}

	anchor := embed("추리 소설", embedding.TaskRetrievalQuery)
	related := embed("셜록 홈즈가 사건을 추리하는 탐정 소설", embedding.TaskRetrievalDocument)
	unrelated := embed("초보자를 위한 엑셀 함수 활용법", embedding.TaskRetrievalDocument)

	assert.Len(t, related, len(anchor))
	assert.Greater(t,
		embedding.CosineSimilarity(anchor, related),
		embedding.CosineSimilarity(anchor, unrelated),
	)
}
