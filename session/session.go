// Package session tracks the inspected page of one browser tab and drives
// both analysis engines through the idle, analyzing, ready and failed states.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/keywords"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/source"
)

// State of the session's current page.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateReady     State = "ready"
	StateFailed    State = "failed"
)

// Panel messages sent by the extension.
const (
	MsgToggleFloatingPanel = "TOGGLE_FLOATING_PANEL"
	MsgHideFloatingPanel   = "HIDE_FLOATING_PANEL"
)

var (
	// ErrNoURL is returned by Run before any page was navigated to.
	ErrNoURL = errors.New("session: no page to analyze")
	// ErrUnknownMessage is returned for messages other than the panel triggers.
	ErrUnknownMessage = errors.New("session: unknown message")
)

// Result is the output of one run.
type Result struct {
	Report   analyzer.Report    `json:"report"`
	Keywords *keywords.Analysis `json:"keywords"`
}

// Status is a point-in-time view of the session.
type Status struct {
	URL          string    `json:"url"`
	State        State     `json:"state"`
	Error        string    `json:"error,omitempty"`
	PanelVisible bool      `json:"panelVisible"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Result       *Result   `json:"result,omitempty"`
}

// Session owns the analysis lifecycle for one tab.
type Session struct {
	fetcher  source.Fetcher
	analyzer *analyzer.Service
	keywords *keywords.Engine
	logger   logging.Logger

	mu        sync.Mutex
	url       string
	state     State
	err       error
	result    *Result
	panel     bool
	gen       uint64
	updatedAt time.Time
}

// New creates an idle session. fetcher loads pages when no markup is posted.
func New(fetcher source.Fetcher, a *analyzer.Service, k *keywords.Engine, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		fetcher:   fetcher,
		analyzer:  a,
		keywords:  k,
		logger:    logger.With(logging.String("component", "session")),
		state:     StateIdle,
		updatedAt: time.Now(),
	}
}

// Navigate moves the session to url. A URL change resets the state to idle
// and invalidates the previous URL's cached results.
func (s *Session) Navigate(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if url == s.url {
		return
	}
	old := s.url
	s.url = url
	s.state = StateIdle
	s.err = nil
	s.result = nil
	s.gen++
	s.updatedAt = time.Now()

	if old != "" {
		s.analyzer.ClearCache(old)
		s.keywords.ClearCache(old)
	}
	s.logger.Debug("navigated", logging.String("from", old), logging.String("to", url))
}

// Run analyses the current page. html, when set, is the page's serialized
// DOM. Without force, results already cached for both engines are reused.
// A navigation while the run is in flight discards its state transition.
func (s *Session) Run(ctx context.Context, html string, force bool) (*Result, error) {
	s.mu.Lock()
	url := s.url
	if url == "" {
		s.mu.Unlock()
		return nil, ErrNoURL
	}
	gen := s.gen
	s.state = StateAnalyzing
	s.err = nil
	s.updatedAt = time.Now()
	s.mu.Unlock()

	res, err := s.run(ctx, url, html, force)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("discarding stale run", logging.String("url", url))
		return res, err
	}
	s.updatedAt = time.Now()
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.logger.Warn("analysis failed", logging.String("url", url), logging.Err(err))
		return nil, err
	}
	s.state = StateReady
	s.result = res
	return res, nil
}

func (s *Session) run(ctx context.Context, url, html string, force bool) (*Result, error) {
	if !force && html == "" {
		snap, ok := s.analyzer.Lookup(url)
		kw, kok := s.keywords.Lookup(url)
		if ok && kok {
			return &Result{Report: analyzer.NewReport(snap), Keywords: kw}, nil
		}
	}

	doc, err := source.Load(ctx, s.fetcher, url, html)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	snap := s.analyzer.AnalyzeDocument(ctx, url, doc)
	kw := s.keywords.AnalyzeDocument(url, doc)
	return &Result{Report: analyzer.NewReport(snap), Keywords: kw}, nil
}

// HandleMessage applies a panel message and returns the resulting panel
// visibility.
func (s *Session) HandleMessage(msg string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg {
	case MsgToggleFloatingPanel:
		s.panel = !s.panel
	case MsgHideFloatingPanel:
		s.panel = false
	default:
		return s.panel, fmt.Errorf("%w: %q", ErrUnknownMessage, msg)
	}
	return s.panel, nil
}

// Status returns the current view of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		URL:          s.url,
		State:        s.state,
		PanelVisible: s.panel,
		UpdatedAt:    s.updatedAt,
		Result:       s.result,
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
