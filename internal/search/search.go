// Package search resolves queries to a single top result link using the
// Google Custom Search API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// cacheTTL keeps repeated lookups (e.g. play followed by mood_boost) from
// burning API quota within a session.
const cacheTTL = 5 * time.Minute

// Service performs top-result lookups. With no API credentials configured
// every lookup yields an empty link, which callers treat as "fall back to a
// generic search URL".
type Service struct {
	apiKey     string
	cx         string
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewService creates a search service. Empty key/cx is allowed: lookups
// then always report no result.
func NewService(apiKey, cx string) *Service {
	return &Service{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: "https://www.googleapis.com/customsearch/v1",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

// TopResult returns the first result link for the query, or "" when there
// is none. Network and provider failures are logged and reported as "no
// result", never as errors: a missing link always has a generic fallback.
func (s *Service) TopResult(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" || s.apiKey == "" || s.cx == "" {
		return ""
	}

	cacheKey := strings.ToLower(query)
	if cached, found := s.cache.Get(cacheKey); found {
		log.Printf("✅ [SEARCH] Cache hit for: '%s'", query)
		return cached.(string)
	}

	link, err := s.lookup(ctx, query)
	if err != nil {
		log.Printf("⚠️ [SEARCH] Lookup failed for '%s': %v", query, err)
		return ""
	}

	if link != "" {
		s.cache.Set(cacheKey, link, cache.DefaultExpiration)
	}
	return link
}

func (s *Service) lookup(ctx context.Context, query string) (string, error) {
	searchURL := fmt.Sprintf("%s?key=%s&cx=%s&num=1&q=%s",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(s.cx), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read search response: %w", err)
	}

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}

	if len(result.Items) == 0 {
		return "", nil
	}
	return result.Items[0].Link, nil
}
