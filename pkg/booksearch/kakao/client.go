package kakao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookapp-ai-be/pkg/booksearch"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://dapi.kakao.com/v3/search/book"
	pageSize       = 10
)

var ErrMissingAPIKey = errors.New("kakao api key is not configured")

type searchResponse struct {
	Documents []booksearch.Book `json:"documents"`
	Meta      struct {
		IsEnd         bool `json:"is_end"`
		PageableCount int  `json:"pageable_count"`
		TotalCount    int  `json:"total_count"`
	} `json:"meta"`
}

// Client calls the Kakao book search API.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

var _ booksearch.Provider = &Client{}

// NewClient limits outgoing calls to requestsPerSecond with a small burst.
func NewClient(apiKey, baseURL string, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 3),
	}
}

// Search returns one page of up to 10 books. Pages past the last result
// come back empty.
func (c *Client) Search(ctx context.Context, keyword string, page int) ([]booksearch.Book, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao api error (status %d): %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result.Documents, nil
}
