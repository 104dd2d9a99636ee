// Package websearch looks up a chat message on DuckDuckGo's HTML endpoint
// and formats the hits as prompt evidence.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/knowledge-engine/factfinder/internal/config"
)

const (
	maxBodyBytes = 1 << 20
	redirectPath = "//duckduckgo.com/l/?uddg="
)

// Result holds a single search hit
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

type DuckDuckGo struct {
	endpoint   string
	maxResults int
	userAgent  string
	client     *http.Client
	logger     *logrus.Entry
}

func NewDuckDuckGo(cfg config.WebSearchConfig, logger *logrus.Entry) *DuckDuckGo {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	return &DuckDuckGo{
		endpoint:   cfg.Endpoint,
		maxResults: maxResults,
		userAgent:  cfg.UserAgent,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Search returns up to the configured number of hits for query
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned status: %d", resp.StatusCode)
	}

	results, err := parseResults(io.LimitReader(resp.Body, maxBodyBytes), d.maxResults)
	if err != nil {
		return nil, err
	}

	d.logger.WithFields(logrus.Fields{"query": query, "results": len(results)}).Debug("Web search completed")
	return results, nil
}

// parseResults walks the result divs of a DuckDuckGo HTML page
func parseResults(r io.Reader, limit int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if res := extractResult(n); res.Title != "" && res.URL != "" {
				results = append(results, res)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

func extractResult(n *html.Node) Result {
	var res Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				res.Title = textContent(n)
				res.URL = attr(n, "href")
			case hasClass(n, "result__snippet"):
				res.Snippet = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	// DuckDuckGo wraps targets in a redirect
	if strings.HasPrefix(res.URL, redirectPath) {
		if target, err := url.QueryUnescape(strings.TrimPrefix(res.URL, redirectPath)); err == nil {
			if idx := strings.Index(target, "&"); idx > 0 {
				target = target[:idx]
			}
			res.URL = target
		}
	}
	return res
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// FormatAsEvidence renders hits as a numbered block for the system prompt.
// No hits render as the empty string.
func FormatAsEvidence(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "   Source: %s\n", r.URL)
		}
	}
	return b.String()
}
