package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"bookapp-ai-be/internal/pkg/logger"
)

const (
	defaultNeighbourCount      = 5
	defaultRecommendationCount = 10
)

// ILibraryClient fetches every user's library as user id -> book ids.
type ILibraryClient interface {
	FetchAll(ctx context.Context) (map[int64][]int64, error)
}

type IRecommendationService interface {
	Recommend(ctx context.Context, userId int64) []int64
}

type recommendationService struct {
	client     ILibraryClient
	neighbours int
	limit      int
	logger     logger.ILogger
}

func NewRecommendationService(client ILibraryClient, log logger.ILogger) IRecommendationService {
	return &recommendationService{
		client:     client,
		neighbours: defaultNeighbourCount,
		limit:      defaultRecommendationCount,
		logger:     log,
	}
}

type neighbour struct {
	userId     int64
	similarity float64
}

// Recommend runs user-based collaborative filtering over library overlap.
// An unknown user or an unreachable library service yields an empty list.
func (s *recommendationService) Recommend(ctx context.Context, userId int64) []int64 {
	libraries, err := s.client.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("RECOMMEND", "Failed to fetch user libraries", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return []int64{}
	}

	target, ok := libraries[userId]
	if !ok {
		return []int64{}
	}
	owned := toSet(target)

	neighbours := make([]neighbour, 0, len(libraries))
	for otherId, books := range libraries {
		if otherId == userId {
			continue
		}
		if sim := jaccard(owned, toSet(books)); sim > 0 {
			neighbours = append(neighbours, neighbour{userId: otherId, similarity: sim})
		}
	}
	sort.Slice(neighbours, func(i, j int) bool {
		if neighbours[i].similarity != neighbours[j].similarity {
			return neighbours[i].similarity > neighbours[j].similarity
		}
		return neighbours[i].userId < neighbours[j].userId
	})
	if len(neighbours) > s.neighbours {
		neighbours = neighbours[:s.neighbours]
	}

	return rankCandidates(libraries, neighbours, owned, s.limit)
}

// rankCandidates orders unowned neighbour books by how many neighbour
// library entries mention them; ties keep first-seen order.
func rankCandidates(libraries map[int64][]int64, neighbours []neighbour, owned map[int64]struct{}, limit int) []int64 {
	counts := make(map[int64]int)
	order := make([]int64, 0)
	for _, n := range neighbours {
		for _, bookId := range libraries[n.userId] {
			if _, seen := counts[bookId]; !seen {
				order = append(order, bookId)
			}
			counts[bookId]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	recommendations := make([]int64, 0, limit)
	for _, bookId := range order {
		if _, mine := owned[bookId]; mine {
			continue
		}
		recommendations = append(recommendations, bookId)
		if len(recommendations) == limit {
			break
		}
	}
	return recommendations
}

func jaccard(a, b map[int64]struct{}) float64 {
	intersection := 0
	for id := range a {
		if _, ok := b[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// httpLibraryClient reads GET {base}/api/library/all from the main backend.
type httpLibraryClient struct {
	baseURL string
	client  *http.Client
}

func NewLibraryClient(baseURL string) ILibraryClient {
	return &httpLibraryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpLibraryClient) FetchAll(ctx context.Context) (map[int64][]int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/library/all", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("library request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("library service returned status %d", resp.StatusCode)
	}

	// JSON object keys are strings; user ids are numeric.
	var raw map[string][]int64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode library response: %w", err)
	}

	libraries := make(map[int64][]int64, len(raw))
	for key, books := range raw {
		userId, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		libraries[userId] = books
	}
	return libraries, nil
}
