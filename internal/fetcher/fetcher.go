package fetcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// maxBodyBytes bounds how much of a remote corpus is read
const maxBodyBytes = 8 << 20

// ErrRobotsDisallowed is returned when robots.txt forbids the corpus URL
var ErrRobotsDisallowed = errors.New("blocked by robots.txt")

// FetchResult contains the lines extracted from a remote corpus document
type FetchResult struct {
	URL         string
	Title       string
	Lines       []string
	ContentType string
	StatusCode  int
}

type Fetcher struct {
	client        *http.Client
	userAgent     string
	respectRobots bool
	logger        *logrus.Entry
}

func NewFetcher(timeout time.Duration, userAgent string, respectRobots bool, logger *logrus.Entry) *Fetcher {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:     userAgent,
		respectRobots: respectRobots,
		logger:        logger,
	}
}

// Fetch downloads a corpus document and splits it into lines.
// HTML is reduced to one line per text node; anything else is read as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	if f.respectRobots {
		allowed, err := f.IsURLAllowed(ctx, url)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", url, ErrRobotsDisallowed)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if isHTML(result.ContentType) {
		err = parseHTML(body, result)
	} else {
		result.Lines, err = splitLines(body)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"url":   url,
		"lines": len(result.Lines),
	}).Debug("Fetched remote corpus")

	return result, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func splitLines(body io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}

// parseHTML extracts visible text, one line per text node
func parseHTML(body io.Reader, result *FetchResult) error {
	tokenizer := html.NewTokenizer(body)
	inScript := false
	inStyle := false
	inTitle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return nil
			}
			return tokenizer.Err()

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			case "title":
				inTitle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			case "title":
				inTitle = false
			}

		case html.TextToken:
			text := cleanText(tokenizer.Token().Data)
			if inTitle {
				result.Title = text
				continue
			}
			if !inScript && !inStyle && text != "" {
				result.Lines = append(result.Lines, text)
			}
		}
	}
}

// cleanText collapses whitespace runs
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
