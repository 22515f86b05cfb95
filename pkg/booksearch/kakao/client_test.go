package kakao

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KakaoAK secret", r.Header.Get("Authorization"))
		assert.Equal(t, "SF", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))

		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"documents":[],"meta":{"is_end":true}}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"documents":[{"title":"삼체","contents":"외계 문명","isbn":"8954651135 9788954651134","authors":["류츠신"],"publisher":"자음과모음","thumbnail":"http://img"}],
			"meta":{"is_end":false,"pageable_count":2,"total_count":2}
		}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL, 100)

	books, err := client.Search(context.Background(), "SF", 1)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "삼체", books[0].Title)
	assert.Equal(t, []string{"류츠신"}, books[0].Authors)
	isbn, ok := books[0].Isbn13()
	assert.True(t, ok)
	assert.Equal(t, "9788954651134", isbn)

	books, err = client.Search(context.Background(), "SF", 2)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestClientErrors(t *testing.T) {
	_, err := NewClient("", "", 0).Search(context.Background(), "SF", 1)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorType":"AccessDeniedError"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err = NewClient("bad", srv.URL, 100).Search(context.Background(), "SF", 1)
	assert.Error(t, err)
}

func TestClientHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("secret", "http://127.0.0.1:0", 100).Search(ctx, "SF", 1)
	assert.Error(t, err)
}
