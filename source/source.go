// Package source obtains the markup of the page under inspection, either
// over plain HTTP or rendered by a headless browser.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seo-optimizer/inspector/document"
	"github.com/seo-optimizer/inspector/logging"
)

// Backend names accepted by New.
const (
	BackendHTTP   = "http"
	BackendChrome = "chrome"
)

// ErrUnknownBackend is returned by New for an unregistered backend name.
var ErrUnknownBackend = errors.New("source: unknown fetch backend")

// Page is the fetched markup of one URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
	FetchedAt  time.Time
}

// Fetcher retrieves a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Config selects and tunes the fetch backend.
type Config struct {
	Backend   string
	Timeout   time.Duration
	UserAgent string
}

// New constructs the configured backend.
func New(cfg Config, logger logging.Logger) (Fetcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendHTTP:
		return NewHTTPFetcher(nil, cfg, logger), nil
	case BackendChrome:
		return NewChromeFetcher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Load returns a Document for pageURL. When markup is non-empty it is parsed
// directly (serialized DOM sent by the browser); otherwise the page is fetched.
func Load(ctx context.Context, f Fetcher, pageURL, markup string) (document.Document, error) {
	if markup != "" {
		doc, err := document.ParseString(pageURL, markup)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		return doc, nil
	}
	if f == nil {
		return nil, errors.New("source: no fetcher configured and no markup supplied")
	}

	page, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", pageURL, err)
	}

	base := page.FinalURL
	if base == "" {
		base = pageURL
	}
	doc, err := document.ParseString(base, page.HTML)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return doc, nil
}
