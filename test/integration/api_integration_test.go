package integration

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"bookapp-ai-be/internal/bootstrap"
	"bookapp-ai-be/internal/config"
	"bookapp-ai-be/internal/pkg/serverutils"
	"bookapp-ai-be/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIValidation(t *testing.T) {
	gormDB := openTestDB(t)

	// The guard and the providers are not under test here.
	t.Setenv("JWT_SECRET", "")
	t.Setenv("NATS_URL", "nats://127.0.0.1:1")
	t.Setenv("REDIS_URL", "")
	cfg := config.Load()
	cfg.App.LogFilePath = t.TempDir() + "/app.log"

	container := bootstrap.NewContainer(gormDB, cfg)
	t.Cleanup(func() { container.Close(context.Background()) })
	app := server.New(cfg, container).GetApp()

	t.Run("health", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"blank search query", "/api/ai/search", `{"query":"   "}`, 400},
		{"empty keyword list", "/api/books/fetch-and-filter", `{"keywords":[]}`, 400},
		{"single book without isbn", "/api/books/embed-single", `{"title":"책"}`, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body serverutils.BaseResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
		})
	}
}
