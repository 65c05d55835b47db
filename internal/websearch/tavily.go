package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prepdeck/brief/internal/domain"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 5

	// queryTemplate targets interview-experience articles for a company.
	queryTemplate = "%s interview experience process questions %s"
)

// Client searches the web for interview-experience articles.
type Client struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithMaxResults bounds the number of search hits requested.
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxResults: defaultMaxResults,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// SearchCompany issues the fixed interview-experience query for a company
// name plus optional free-text hint. This is the only acquisition step with
// no fallback: an error here fails the whole acquisition.
func (c *Client) SearchCompany(ctx context.Context, company, hint string) ([]domain.SearchResult, error) {
	query := strings.TrimSpace(fmt.Sprintf(queryTemplate, company, hint))
	return c.Search(ctx, query)
}

// Search performs a raw search query and resolves the response into the
// canonical result type.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	payload, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSearchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Content,
			Score:   r.Score,
		})
	}

	return results, nil
}
