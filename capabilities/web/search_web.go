package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"searchgate/config"
	"searchgate/core/types"
)

const (
	defaultEndpoint  = "https://html.duckduckgo.com/html/"
	defaultRegion    = "us-en"
	defaultUserAgent = "Mozilla/5.0 (compatible; SearchGate/1.0)"
)

// DuckDuckGo searches the DuckDuckGo HTML endpoint and scrapes the result list
type DuckDuckGo struct {
	endpoint  string
	region    string
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

// NewDuckDuckGo creates a provider from config; empty fields fall back to defaults
func NewDuckDuckGo(cfg config.ProviderConfig) *DuckDuckGo {
	d := &DuckDuckGo{
		endpoint:  cfg.Endpoint,
		region:    cfg.Region,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		client:    &http.Client{},
	}
	if d.endpoint == "" {
		d.endpoint = defaultEndpoint
	}
	if d.region == "" {
		d.region = defaultRegion
	}
	if d.userAgent == "" {
		d.userAgent = defaultUserAgent
	}
	if d.timeout <= 0 {
		d.timeout = 15 * time.Second
	}
	return d
}

// Name identifies the provider in logs and audit entries
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search posts query to the HTML endpoint and returns at most maxResults hits
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("b", "") // Start index (empty = 0)
	params.Add("kl", d.region)

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return parseResults(doc, maxResults), nil
}

// parseResults reads .result blocks: title and link from .result__a, text from .result__snippet
func parseResults(doc *goquery.Document, maxResults int) []types.SearchResult {
	results := make([]types.SearchResult, 0, maxResults)

	doc.Find(".result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if maxResults > 0 && len(results) >= maxResults {
			return false
		}

		titleElem := s.Find(".result__a")
		title := strings.TrimSpace(titleElem.Text())
		href, exists := titleElem.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		if exists && title != "" && href != "" {
			results = append(results, types.SearchResult{
				Title:   title,
				URL:     extractActualURL(href),
				Snippet: snippet,
			})
		}
		return true
	})

	return results
}

// extractActualURL extracts the real URL from DuckDuckGo redirect URLs
// like //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com&rut=...
func extractActualURL(ddgURL string) string {
	if strings.Contains(ddgURL, "/l/?") {
		raw := ddgURL
		if strings.HasPrefix(raw, "//") {
			raw = "https:" + raw
		} else if strings.HasPrefix(raw, "/") {
			raw = "https://duckduckgo.com" + raw
		}
		if u, err := url.Parse(raw); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}

	if strings.HasPrefix(ddgURL, "//") {
		return "https:" + ddgURL
	}
	if strings.HasPrefix(ddgURL, "/") {
		return "https://duckduckgo.com" + ddgURL
	}

	return ddgURL
}
