package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// IsURLAllowed checks rawURL against the host's robots.txt.
// A robots.txt that cannot be fetched allows the request.
func (f *Fetcher) IsURLAllowed(ctx context.Context, rawURL string) (bool, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("invalid URL: %w", err)
	}

	robotsData, err := f.getRobotsData(ctx, parsedURL)
	if err != nil {
		f.logger.WithError(err).WithField("domain", parsedURL.Host).Warn("Failed to get robots.txt, allowing request")
		return true, nil
	}

	group := robotsData.FindGroup(f.userAgent)
	if group == nil {
		return true, nil
	}

	path := parsedURL.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), nil
}

func (f *Fetcher) getRobotsData(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	// FromResponse maps 4xx to allow-all and 5xx to disallow-all
	robotsData, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}
	return robotsData, nil
}
