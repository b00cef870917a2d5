package source

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/seo-optimizer/inspector/logging"
)

// networkIdle is how long the page must stay without in-flight requests
// before its DOM is captured.
const networkIdle = 2 * time.Second

// ChromeFetcher renders the page in headless Chrome and returns the live DOM.
type ChromeFetcher struct {
	timeout   time.Duration
	userAgent string
	logger    logging.Logger
}

// NewChromeFetcher creates a fetcher that starts one browser per Fetch.
func NewChromeFetcher(cfg Config, logger logging.Logger) *ChromeFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ChromeFetcher{
		timeout:   timeout,
		userAgent: cfg.UserAgent,
		logger:    logger.With(logging.String("component", "source"), logging.String("backend", BackendChrome)),
	}
}

// Fetch implements Fetcher.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	idle := waitNetworkIdle(timeoutCtx, networkIdle)

	f.logger.Debug("rendering page", logging.String("url", url))

	var status int64
	resp, err := chromedp.RunResponse(timeoutCtx, chromedp.Navigate(url))
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if resp != nil {
		status = resp.Status
	}

	select {
	case <-idle:
	case <-timeoutCtx.Done():
		return nil, fmt.Errorf("wait for network idle: %w", timeoutCtx.Err())
	}

	var html, location string
	err = chromedp.Run(timeoutCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err != nil {
		return nil, fmt.Errorf("capture dom: %w", err)
	}

	return &Page{
		URL:        url,
		FinalURL:   location,
		StatusCode: int(status),
		HTML:       html,
		FetchedAt:  time.Now(),
	}, nil
}

// waitNetworkIdle signals once no request has been in flight for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) <-chan struct{} {
	idle := make(chan struct{})
	var active int32
	var mu sync.Mutex
	var timer *time.Timer
	var once sync.Once

	arm := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&active) == 0 {
				once.Do(func() { close(idle) })
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&active, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&active, -1) <= 0 {
				arm()
			}
		}
	})
	// pages that issue no subresource requests still settle
	arm()

	return idle
}
