// Package analyzer collects on-page SEO signals into a Snapshot and
// classifies them into an ordered list of issues.
package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/seo-optimizer/inspector/document"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/metrics"
	"github.com/seo-optimizer/inspector/pagecache"
	"github.com/seo-optimizer/inspector/probe"
	"github.com/seo-optimizer/inspector/source"
	"github.com/seo-optimizer/inspector/stats"
)

const engineName = "signals"

const defaultProbeTimeout = 5 * time.Second

// ErrNoURL is returned when a request carries no page URL.
var ErrNoURL = errors.New("analyzer: page url is required")

// Request describes one page analysis. HTML, when set, is the serialized DOM
// of URL and is used instead of fetching.
type Request struct {
	URL   string `json:"url"`
	HTML  string `json:"html,omitempty"`
	Force bool   `json:"force,omitempty"`
}

// Report bundles a snapshot with everything derived from it.
type Report struct {
	Snapshot *Snapshot `json:"snapshot"`
	Issues   []Issue   `json:"issues"`
	Summary  Summary   `json:"summary"`
}

// NewReport classifies and summarizes s.
func NewReport(s *Snapshot) Report {
	issues := Classify(s)
	return Report{Snapshot: s, Issues: issues, Summary: Summarize(s, issues)}
}

// CacheStats provides statistics about the snapshot cache
type CacheStats struct {
	Entries        int `json:"entries"`
	SnapshotHits   int `json:"snapshotHits"`
	SnapshotMisses int `json:"snapshotMisses"`
	KeywordHits    int `json:"keywordHits"`
	KeywordMisses  int `json:"keywordMisses"`
}

// Options carries the service's optional collaborators.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Metrics
	Stats   *stats.Storage
	// Prober defaults to a plain HTTP prober with a 5s timeout.
	Prober *probe.Prober
}

// Service produces snapshots and caches them per URL.
type Service struct {
	fetcher source.Fetcher
	prober  *probe.Prober
	cache   *pagecache.Store[*Snapshot]
	logger  logging.Logger
	metrics *metrics.Metrics
	stats   *stats.Storage
}

// NewService creates a Service that loads pages through fetcher.
func NewService(fetcher source.Fetcher, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	prober := opts.Prober
	if prober == nil {
		prober = probe.New(nil, defaultProbeTimeout, "", logger)
	}
	return &Service{
		fetcher: fetcher,
		prober:  prober,
		cache:   pagecache.New[*Snapshot](),
		logger:  logger.With(logging.String("component", engineName)),
		metrics: opts.Metrics,
		stats:   opts.Stats,
	}
}

// Analyze returns the snapshot for req.URL. A cached snapshot is returned
// unless req.Force is set.
func (s *Service) Analyze(ctx context.Context, req Request) (*Snapshot, error) {
	if req.URL == "" {
		return nil, ErrNoURL
	}

	if !req.Force {
		if snap, ok := s.Lookup(req.URL); ok {
			return snap, nil
		}
	}

	start := time.Now()
	doc, err := source.Load(ctx, s.fetcher, req.URL, req.HTML)
	if err != nil {
		s.metrics.ObserveAnalysis(engineName, time.Since(start), err)
		s.logger.Warn("loading page failed", logging.String("url", req.URL), logging.Err(err))
		return nil, err
	}

	snap := s.AnalyzeDocument(ctx, req.URL, doc)
	elapsed := time.Since(start)
	s.metrics.ObserveAnalysis(engineName, elapsed, nil)
	s.logger.Info("page analyzed",
		logging.String("url", req.URL),
		logging.Duration("duration", elapsed),
		logging.Bool("robots_txt", snap.RobotsTxt),
		logging.Bool("sitemap", snap.Sitemap))
	return snap, nil
}

// AnalyzeDocument collects doc's signals, probes its site and caches the
// snapshot under key. It never fails; probe errors degrade to absent flags.
func (s *Service) AnalyzeDocument(ctx context.Context, key string, doc document.Document) *Snapshot {
	snap := Collect(doc)
	snap.URL = key

	res := s.prober.ProbeAll(ctx, doc.URL())
	snap.Probes = res
	snap.RobotsTxt = res.RobotsTxt.Present()
	snap.Sitemap = res.Sitemap.Present()
	s.metrics.ProbeOutcome(res.RobotsTxt.Resource, string(res.RobotsTxt.Status))
	s.metrics.ProbeOutcome(res.Sitemap.Resource, string(res.Sitemap.Status))

	snap.AnalyzedAt = time.Now()
	s.cache.Set(key, snap)

	s.logger.Debug("snapshot collected",
		logging.String("url", key),
		logging.String("title_status", string(snap.TitleStatus)),
		logging.String("robots_txt", string(res.RobotsTxt.Status)),
		logging.String("sitemap", string(res.Sitemap.Status)))
	return snap
}

// Lookup is Cached that also records the hit or miss in metrics and
// statistics.
func (s *Service) Lookup(url string) (*Snapshot, bool) {
	snap, ok := s.cache.Get(url)
	s.metrics.CacheLookup(engineName, ok)
	if s.stats != nil {
		if ok {
			s.stats.IncrementStats(1, 0, 0, 0)
		} else {
			s.stats.IncrementStats(0, 1, 0, 0)
		}
	}
	return snap, ok
}

// Cached returns the cached snapshot for url without analysing.
func (s *Service) Cached(url string) (*Snapshot, bool) {
	return s.cache.Get(url)
}

// ClearCache drops the given URLs, or everything when none are given.
func (s *Service) ClearCache(urls ...string) {
	if len(urls) == 0 {
		s.cache.Clear()
		return
	}
	s.cache.Delete(urls...)
}

// GetCacheStats returns statistics about the cache
func (s *Service) GetCacheStats() CacheStats {
	cs := CacheStats{Entries: s.cache.Len()}
	if s.stats != nil {
		cur := s.stats.GetCurrentStats()
		cs.SnapshotHits = cur.SnapshotCacheHits
		cs.SnapshotMisses = cur.SnapshotCacheMisses
		cs.KeywordHits = cur.KeywordCacheHits
		cs.KeywordMisses = cur.KeywordCacheMisses
	}
	return cs
}

// Shutdown drops the cache and flushes statistics.
func (s *Service) Shutdown() error {
	if s == nil {
		return nil
	}
	s.cache.Clear()
	if s.stats != nil {
		return s.stats.Shutdown()
	}
	return nil
}
