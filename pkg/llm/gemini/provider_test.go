package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookapp-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiProviderGenerate(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"primary_keyword\":\"SF\"}"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("secret", srv.URL, "gemini-2.5-flash", 0)
	out, err := p.Generate(context.Background(), "hello", llm.WithModel("gemini-2.5-pro"), llm.WithJSONMode())

	require.NoError(t, err)
	assert.Equal(t, `{"primary_keyword":"SF"}`, out)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "hello", captured.Contents[0].Parts[0].Text)
}

func TestGeminiProviderErrors(t *testing.T) {
	t.Run("non 200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewGeminiProvider("k", srv.URL, "", 0).Generate(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		_, err := NewGeminiProvider("k", srv.URL, "", 0).Generate(context.Background(), "x")
		assert.Error(t, err)
	})
}
