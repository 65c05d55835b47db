package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScraper() *Scraper {
	return NewScraper(WithRateLimit(1000, 1000))
}

func TestExtractPage_LargestContainer(t *testing.T) {
	html := `<html><head><title>Acme Interview</title></head><body>
		<nav>menu menu menu</nav>
		<article>` + strings.Repeat("The interview had four rounds. ", 20) + `</article>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	page, err := newTestScraper().ExtractPage(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Acme Interview", page.Title)
	assert.Contains(t, page.Text, "The interview had four rounds.")
	assert.NotEmpty(t, page.RawHTML)
}

func TestExtractPage_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestScraper().ExtractPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestExtractPage_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	_, err := newTestScraper().ExtractPage(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestExtractBySelector_KnownSites(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		html     string
		expected string
	}{
		{
			name:     "medium article container",
			url:      "https://medium.com/@dev/acme-interview",
			html:     `<html><body><article>Round one was a phone screen.</article><footer>junk</footer></body></html>`,
			expected: "Round one was a phone screen.",
		},
		{
			name:     "medium subdomain",
			url:      "https://blog.medium.com/post",
			html:     `<html><body><article>Subdomain content.</article></body></html>`,
			expected: "Subdomain content.",
		},
		{
			name:     "dev.to article body",
			url:      "https://dev.to/someone/post",
			html:     `<html><body><div id="article-body">My onsite experience.</div></body></html>`,
			expected: "My onsite experience.",
		},
		{
			name:     "unknown site yields empty",
			url:      "https://example.com/post",
			html:     `<html><body><article>Anything.</article></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, tt.html)
			assert.Equal(t, tt.expected, extractBySelector(doc, tt.url))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("  a\n\tb   c  "))
	assert.Equal(t, "", cleanText("   \n "))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "medium.com", hostOf("https://www.medium.com/post"))
	assert.Equal(t, "dev.to", hostOf("https://dev.to/x"))
	assert.Equal(t, "", hostOf("://bad"))
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}
