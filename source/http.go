package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seo-optimizer/inspector/logging"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// HTTPFetcher fetches raw markup with net/http. Script-rendered content is not
// executed.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    logging.Logger
}

// NewHTTPFetcher wraps client, or builds a pooled client when nil.
func NewHTTPFetcher(client *http.Client, cfg Config, logger logging.Logger) *HTTPFetcher {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		logger:    logger.With(logging.String("component", "source"), logging.String("backend", BackendHTTP)),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	f.logger.Debug("fetching page", logging.String("url", url))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Page{
		URL:        url,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		FetchedAt:  time.Now(),
	}, nil
}
