// Package keywords computes keyword density: ranked 1- to 5-word phrases of
// a page's primary text.
package keywords

import (
	"context"
	"errors"
	"time"

	"github.com/seo-optimizer/inspector/document"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/metrics"
	"github.com/seo-optimizer/inspector/pagecache"
	"github.com/seo-optimizer/inspector/source"
	"github.com/seo-optimizer/inspector/stats"
)

const engineName = "keywords"

// ErrNoURL is returned when a request carries no page URL.
var ErrNoURL = errors.New("keywords: page url is required")

// Analysis is the keyword density of one page.
type Analysis struct {
	URL        string    `json:"url"`
	TotalWords int       `json:"totalWords"`
	Source     string    `json:"source"`
	Groups     []Group   `json:"groups"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// Words returns the ranked list for n-word phrases, or nil when n is out of range.
func (a *Analysis) Words(n int) []Result {
	for _, g := range a.Groups {
		if g.Words == n {
			return g.Keywords
		}
	}
	return nil
}

// Request describes one density analysis. HTML, when set, is the serialized
// DOM of URL and is used instead of fetching.
type Request struct {
	URL   string `json:"url"`
	HTML  string `json:"html,omitempty"`
	Force bool   `json:"force,omitempty"`
}

// Options carries the engine's optional collaborators.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Metrics
	Stats   *stats.Storage
}

// Engine runs density analyses and caches them per URL.
type Engine struct {
	fetcher source.Fetcher
	cache   *pagecache.Store[*Analysis]
	logger  logging.Logger
	metrics *metrics.Metrics
	stats   *stats.Storage
}

// NewEngine creates an engine that loads pages through fetcher.
func NewEngine(fetcher source.Fetcher, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		fetcher: fetcher,
		cache:   pagecache.New[*Analysis](),
		logger:  logger.With(logging.String("component", engineName)),
		metrics: opts.Metrics,
		stats:   opts.Stats,
	}
}

// Analyze returns the density analysis for req.URL. A cached result is
// returned unless req.Force is set.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if req.URL == "" {
		return nil, ErrNoURL
	}

	if !req.Force {
		if a, ok := e.Lookup(req.URL); ok {
			return a, nil
		}
	}

	start := time.Now()
	doc, err := source.Load(ctx, e.fetcher, req.URL, req.HTML)
	if err != nil {
		e.metrics.ObserveAnalysis(engineName, time.Since(start), err)
		e.logger.Warn("loading page failed", logging.String("url", req.URL), logging.Err(err))
		return nil, err
	}

	a := e.AnalyzeDocument(req.URL, doc)
	elapsed := time.Since(start)
	e.metrics.ObserveAnalysis(engineName, elapsed, nil)
	e.logger.Info("keywords analyzed",
		logging.String("url", req.URL),
		logging.Duration("duration", elapsed))
	return a, nil
}

// AnalyzeDocument computes the density of doc and caches it under key.
func (e *Engine) AnalyzeDocument(key string, doc document.Document) *Analysis {
	text, src := ExtractText(doc)
	tokens := Tokenize(text)

	a := &Analysis{
		URL:        key,
		TotalWords: len(tokens),
		Source:     src,
		Groups:     Count(tokens),
		AnalyzedAt: time.Now(),
	}
	e.cache.Set(key, a)

	e.logger.Debug("keyword density computed",
		logging.String("url", key),
		logging.String("source", src),
		logging.Int("total_words", a.TotalWords))
	return a
}

// Lookup is Cached that also records the hit or miss in metrics and
// statistics.
func (e *Engine) Lookup(url string) (*Analysis, bool) {
	a, ok := e.cache.Get(url)
	e.metrics.CacheLookup(engineName, ok)
	if e.stats != nil {
		if ok {
			e.stats.IncrementStats(0, 0, 1, 0)
		} else {
			e.stats.IncrementStats(0, 0, 0, 1)
		}
	}
	return a, ok
}

// Cached returns the cached analysis for url without computing one.
func (e *Engine) Cached(url string) (*Analysis, bool) {
	return e.cache.Get(url)
}

// ClearCache drops the given URLs, or everything when none are given.
func (e *Engine) ClearCache(urls ...string) {
	if len(urls) == 0 {
		e.cache.Clear()
		return
	}
	e.cache.Delete(urls...)
}

// CacheLen returns the number of cached analyses.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}
