package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/user/campaignforge/internal/types"
)

const maxFetchedPageChars = 10000

// WebSearch searches the web via the Brave Search API. When
// fetchContent is enabled, the top hit's page is fetched and returned
// as markdown alongside the result list.
type WebSearch struct {
	apiKey       string
	baseURL      string
	fetchContent bool
	client       *http.Client
}

// NewWebSearch creates a new web search tool.
func NewWebSearch(apiKey string, fetchContent bool) *WebSearch {
	return &WebSearch{
		apiKey:       apiKey,
		baseURL:      "https://api.search.brave.com/res/v1/web/search",
		fetchContent: fetchContent,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WebSearch) Kind() types.ToolKind { return types.ToolWebSearch }

type braveResponse struct {
	Web braveWeb `json:"web"`
}

type braveWeb struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (w *WebSearch) Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error) {
	if input.Query == "" {
		return nil, fmt.Errorf("q is required")
	}

	count := input.MaxResults
	if count <= 0 {
		count = 5
	}
	if count > 20 {
		count = 20
	}

	query := input.Query
	if input.Location != "" {
		query += " " + input.Location
	}

	u, _ := url.Parse(w.baseURL)
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Brave API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed braveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, types.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
		})
	}

	if w.fetchContent && len(results) > 0 {
		// Page fetch is best-effort enrichment; failures don't fail the search.
		if content, err := w.fetchPage(ctx, results[0].URL); err == nil {
			results[0].Content = content
		}
	}

	return &types.ToolResult{
		Success: true,
		Results: results,
	}, nil
}

// fetchPage retrieves a URL and converts its HTML content to markdown.
func (w *WebSearch) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Campaignforge/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	if len(md) > maxFetchedPageChars {
		md = md[:maxFetchedPageChars] + "\n\n[Content truncated]"
	}
	return md, nil
}
