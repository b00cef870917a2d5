package analyzer

import (
	"time"

	"github.com/seo-optimizer/inspector/probe"
)

// NotAvailable stands in for absent text fields.
const NotAvailable = "N/A"

// Status is the length band of a title or description.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusMissing Status = "missing"
)

// Snapshot captures the on-page SEO signals of one page at one point in time.
type Snapshot struct {
	URL               string        `json:"url"`
	Title             string        `json:"title"`
	TitleLength       int           `json:"titleLength"`
	TitleStatus       Status        `json:"titleStatus"`
	Description       string        `json:"description"`
	DescriptionLength int           `json:"descriptionLength"`
	DescriptionStatus Status        `json:"descriptionStatus"`
	Keywords          string        `json:"keywords"`
	Canonical         string        `json:"canonical"`
	Robots            string        `json:"robots"`
	Viewport          string        `json:"viewport"`
	Language          string        `json:"language"`
	WordCount         int           `json:"wordCount"`
	Headings          HeadingCounts `json:"headings"`
	Images            ImageStats    `json:"images"`
	Links             LinkStats     `json:"links"`
	Favicon           Favicon       `json:"favicon"`
	Social            SocialTags    `json:"social"`
	HasAnalytics      bool          `json:"hasAnalytics"`
	HasAdsense        bool          `json:"hasAdsense"`
	IsSSR             bool          `json:"isSSR"`
	RobotsTxt         bool          `json:"robotsTxt"`
	Sitemap           bool          `json:"sitemap"`
	Probes            probe.Results `json:"probes"`
	AnalyzedAt        time.Time     `json:"analyzedAt"`
}

// HasTitle reports whether the page declares a non-blank title.
func (s *Snapshot) HasTitle() bool { return s.Title != NotAvailable }

// HasDescription reports whether the page declares a non-blank meta description.
func (s *Snapshot) HasDescription() bool { return s.Description != NotAvailable }

// HasCanonical reports whether the page declares a canonical URL.
func (s *Snapshot) HasCanonical() bool { return s.Canonical != NotAvailable }

// HeadingCounts counts h1..h6 elements.
type HeadingCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
	H4 int `json:"h4"`
	H5 int `json:"h5"`
	H6 int `json:"h6"`
}

// ImageStats aggregates img elements. Unique counts distinct src values.
type ImageStats struct {
	Total        int `json:"total"`
	Unique       int `json:"unique"`
	WithoutAlt   int `json:"withoutAlt"`
	WithoutTitle int `json:"withoutTitle"`
}

// WithAlt is the number of images carrying non-blank alt text.
func (i ImageStats) WithAlt() int { return i.Total - i.WithoutAlt }

// LinkStats aggregates anchors with an href.
type LinkStats struct {
	Total    int `json:"total"`
	Unique   int `json:"unique"`
	Internal int `json:"internal"`
	External int `json:"external"`
	Dofollow int `json:"dofollow"`
	Nofollow int `json:"nofollow"`
}

// Favicon is the detected icon. URL holds the guessed /favicon.ico when
// nothing is declared.
type Favicon struct {
	Found bool   `json:"found"`
	URL   string `json:"url"`
}

// SocialTags holds the Open Graph and Twitter Card tags found on the page.
type SocialTags struct {
	OpenGraph        map[string]string `json:"openGraph"`
	Twitter          map[string]string `json:"twitter"`
	OpenGraphMissing []string          `json:"openGraphMissing"`
	TwitterMissing   []string          `json:"twitterMissing"`
}

// Any reports whether at least one social tag is present.
func (t SocialTags) Any() bool {
	return len(t.OpenGraph) > 0 || len(t.Twitter) > 0
}

// Complete reports whether every expected social tag is present.
func (t SocialTags) Complete() bool {
	return len(t.OpenGraphMissing) == 0 && len(t.TwitterMissing) == 0
}

// IssueType is the severity of an Issue.
type IssueType string

const (
	IssueSuccess IssueType = "success"
	IssueWarning IssueType = "warning"
	IssueError   IssueType = "error"
)

// Issue is one classified finding about a snapshot.
type Issue struct {
	Type        IssueType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}
