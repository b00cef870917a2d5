// Package probe checks whether robots.txt and sitemap.xml exist on a site.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seo-optimizer/inspector/logging"
)

// Status is the three-way result of an existence probe.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	// StatusUnknown covers transport errors, timeouts and unexpected status codes.
	StatusUnknown Status = "unknown"
)

// Well-known resources probed for every page.
const (
	RobotsTxt  = "/robots.txt"
	SitemapXML = "/sitemap.xml"
)

// Outcome records one probe. Err is set only for StatusUnknown.
type Outcome struct {
	Resource   string `json:"resource"`
	Status     Status `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	Err        error  `json:"-"`
}

// Present flattens the outcome to the public boolean.
func (o Outcome) Present() bool {
	return o.Status == StatusPresent
}

// Results holds both site probes.
type Results struct {
	RobotsTxt Outcome `json:"robotsTxt"`
	Sitemap   Outcome `json:"sitemap"`
}

// Prober issues the existence probes.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    logging.Logger
}

// New creates a Prober. A nil client gets a default transport; timeout bounds
// each probe individually.
func New(client *http.Client, timeout time.Duration, userAgent string, logger logging.Logger) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Prober{
		client:    client,
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logger.With(logging.String("component", "probe")),
	}
}

// ProbeAll checks robots.txt and sitemap.xml at the origin of pageURL
// concurrently. Neither probe can fail the other.
func (p *Prober) ProbeAll(ctx context.Context, pageURL *url.URL) Results {
	var res Results
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res.RobotsTxt = p.Probe(gctx, pageURL, RobotsTxt)
		return nil
	})
	g.Go(func() error {
		res.Sitemap = p.Probe(gctx, pageURL, SitemapXML)
		return nil
	})
	_ = g.Wait()

	return res
}

// Probe checks a single resource path at the origin of pageURL. It issues HEAD
// and retries once with GET when the server rejects HEAD with 403 or 405.
func (p *Prober) Probe(ctx context.Context, pageURL *url.URL, resource string) Outcome {
	target := pageURL.Scheme + "://" + pageURL.Host + resource
	out := Outcome{Resource: resource, Status: StatusUnknown}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	code, err := p.do(ctx, http.MethodHead, target)
	if err == nil && (code == http.StatusForbidden || code == http.StatusMethodNotAllowed) {
		code, err = p.do(ctx, http.MethodGet, target)
	}

	switch {
	case err != nil:
		out.Err = err
	case code >= 200 && code < 300:
		out.Status = StatusPresent
	case code == http.StatusNotFound:
		out.Status = StatusAbsent
	default:
		out.Err = fmt.Errorf("probe %s: unexpected status %d", resource, code)
	}
	out.StatusCode = code

	if out.Err != nil {
		p.logger.Warn("existence probe inconclusive",
			logging.String("url", target),
			logging.Err(out.Err))
	} else {
		p.logger.Debug("existence probe finished",
			logging.String("url", target),
			logging.String("status", string(out.Status)))
	}
	return out
}

func (p *Prober) do(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}
