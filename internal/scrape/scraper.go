package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"
)

const (
	// userAgent is a browser-like UA; several publishing platforms refuse
	// requests from default Go clients.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	maxBodyBytes = 5 * 1024 * 1024
)

// siteSelectors maps known publishing platforms to the CSS selector of their
// main content container. Anything not listed goes through readability and
// then the largest-container fallback.
var siteSelectors = map[string]string{
	"medium.com":    "article",
	"dev.to":        "#article-body",
	"glassdoor.com": "[data-test='interview-details'], .interviewDetails",
	"reddit.com":    "div[data-test-id='post-content'], shreddit-post",
	"leetcode.com":  ".discuss-markdown-container",
	"blind.com":     ".article-view-contents",
}

// Page is the result of fetching and extracting one source URL.
type Page struct {
	URL   string
	Title string
	Text  string
	// RawHTML keeps the fetched body for the optional page archive.
	RawHTML []byte
}

// Scraper fetches pages and extracts their main text. Fetches go through a
// shared rate limiter so acquisition stays polite to source sites.
type Scraper struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Scraper)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) { s.httpClient = hc }
}

// WithRateLimit sets the fetch rate (requests per second, burst).
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Scraper) { s.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractPage fetches a URL and returns its main text content. The extraction
// ladder is: known-site selector, readability, largest semantic container.
func (s *Scraper) ExtractPage(ctx context.Context, pageURL string) (*Page, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := &Page{URL: pageURL, RawHTML: body}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	page.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if text := extractBySelector(doc, pageURL); text != "" {
		page.Text = text
		return page, nil
	}

	if article, err := readability.FromReader(bytes.NewReader(body), mustParse(pageURL)); err == nil {
		if text := cleanText(article.TextContent); text != "" {
			if page.Title == "" {
				page.Title = article.Title
			}
			page.Text = text
			return page, nil
		}
	}

	page.Text = extractLargestContainer(doc)
	return page, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pageURL, err)
	}

	return body, nil
}

// extractBySelector applies the source-specific content selector when the
// host matches a known publishing platform.
func extractBySelector(doc *goquery.Document, pageURL string) string {
	host := hostOf(pageURL)
	if host == "" {
		return ""
	}

	for domainSuffix, selector := range siteSelectors {
		if host == domainSuffix || strings.HasSuffix(host, "."+domainSuffix) {
			return cleanText(doc.Find(selector).Text())
		}
	}

	return ""
}

// extractLargestContainer picks the semantic container with the most text.
func extractLargestContainer(doc *goquery.Document) string {
	candidates := []string{"article", "main", "#content", ".content", ".post", "body"}

	var best string
	for _, selector := range candidates {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := cleanText(sel.Text()); len(text) > len(best) {
				best = text
			}
		})
	}

	return best
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func mustParse(pageURL string) *url.URL {
	u, err := url.Parse(pageURL)
	if err != nil {
		return &url.URL{}
	}
	return u
}
