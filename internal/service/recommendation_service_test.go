package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookapp-ai-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLibraryClient struct {
	libraries map[int64][]int64
	err       error
}

func (c fakeLibraryClient) FetchAll(context.Context) (map[int64][]int64, error) {
	return c.libraries, c.err
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(toSet(nil), toSet(nil)))
	assert.Equal(t, 1.0, jaccard(toSet([]int64{1, 2}), toSet([]int64{2, 1, 1})))
	assert.InDelta(t, 1.0/3.0, jaccard(toSet([]int64{1, 2}), toSet([]int64{2, 3})), 1e-9)
}

func TestRecommend(t *testing.T) {
	libraries := map[int64][]int64{
		1: {10, 11, 12},
		2: {10, 11, 20, 21},     // jaccard 2/5
		3: {10, 20, 30},         // jaccard 1/5
		4: {99},                 // no overlap
		5: {12, 21, 20, 40, 41}, // jaccard 1/7
	}
	svc := NewRecommendationService(fakeLibraryClient{libraries: libraries}, logger.NewNopLogger())

	got := svc.Recommend(context.Background(), 1)

	// 20 appears in three neighbour libraries, 21 in two, the rest once in first-seen order.
	assert.Equal(t, []int64{20, 21, 30, 40, 41}, got)
	assert.NotContains(t, got, int64(99))
}

func TestRecommendLimitsNeighboursAndResults(t *testing.T) {
	libraries := map[int64][]int64{1: {1}}
	for u := int64(2); u <= 8; u++ {
		libraries[u] = []int64{1, 100 + u, 200 + u}
	}
	svc := &recommendationService{
		client:     fakeLibraryClient{libraries: libraries},
		neighbours: 5,
		limit:      4,
		logger:     logger.NewNopLogger(),
	}

	got := svc.Recommend(context.Background(), 1)

	// equal similarity ties break by user id, so users 2..6 are the neighbours
	assert.Equal(t, []int64{102, 202, 103, 203}, got)
}

func TestRecommendEmptyCases(t *testing.T) {
	unknown := NewRecommendationService(fakeLibraryClient{libraries: map[int64][]int64{2: {1}}}, logger.NewNopLogger())
	assert.Equal(t, []int64{}, unknown.Recommend(context.Background(), 1))

	failing := NewRecommendationService(fakeLibraryClient{err: errors.New("down")}, logger.NewNopLogger())
	assert.Equal(t, []int64{}, failing.Recommend(context.Background(), 1))

	lonely := NewRecommendationService(fakeLibraryClient{libraries: map[int64][]int64{1: {1}, 2: {2}}}, logger.NewNopLogger())
	assert.Equal(t, []int64{}, lonely.Recommend(context.Background(), 1))
}

func TestLibraryClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/library/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"1":[10,11],"2":[11],"not-a-user":[5]}`))
	}))
	defer srv.Close()

	libraries, err := NewLibraryClient(srv.URL + "/").FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[int64][]int64{1: {10, 11}, 2: {11}}, libraries)
}

func TestLibraryClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewLibraryClient(srv.URL).FetchAll(context.Background())
	assert.Error(t, err)
}
