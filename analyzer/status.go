package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// textLength returns the rune length of a present value, 0 for the sentinel.
func textLength(s string) int {
	if s == NotAvailable {
		return 0
	}
	return utf8.RuneCountInString(s)
}

// band classifies a length against a success range and an error boundary.
func band(length, okMin, okMax, errBelow, errAbove int) Status {
	switch {
	case length >= okMin && length <= okMax:
		return StatusSuccess
	case length < errBelow || length > errAbove:
		return StatusError
	default:
		return StatusWarning
	}
}

// TitleStatus classifies a title: success in [40,60], error below 30 or
// above 70, warning otherwise.
func TitleStatus(title string) Status {
	if title == NotAvailable {
		return StatusMissing
	}
	return band(textLength(title), 40, 60, 30, 70)
}

// DescriptionStatus classifies a meta description: success in [140,160],
// error below 120 or above 180, warning otherwise.
func DescriptionStatus(description string) Status {
	if description == NotAvailable {
		return StatusMissing
	}
	return band(textLength(description), 140, 160, 120, 180)
}

// SummaryTitleStatus is the panel-level title check: 30 to 60 characters is
// success, anything else present is a warning. Not the same bands as
// TitleStatus.
func SummaryTitleStatus(s *Snapshot) Status {
	if !s.HasTitle() {
		return StatusMissing
	}
	if s.TitleLength >= 30 && s.TitleLength <= 60 {
		return StatusSuccess
	}
	return StatusWarning
}

// SummaryDescriptionStatus is the panel-level description check (120 to 160).
func SummaryDescriptionStatus(s *Snapshot) Status {
	if !s.HasDescription() {
		return StatusMissing
	}
	if s.DescriptionLength >= 120 && s.DescriptionLength <= 160 {
		return StatusSuccess
	}
	return StatusWarning
}

// Summary is the condensed view shown above the issue list.
type Summary struct {
	TitleStatus       Status   `json:"titleStatus"`
	DescriptionStatus Status   `json:"descriptionStatus"`
	Score             float64  `json:"score"`
	Passed            int      `json:"passed"`
	Warnings          int      `json:"warnings"`
	Errors            int      `json:"errors"`
	Recommendations   []string `json:"recommendations"`
}

// sections weights each scored area of a snapshot; weights sum to 1.
var sections = []struct {
	weight float64
	score  func(*Snapshot) int
}{
	{0.2, titleScore},
	{0.2, metaScore},
	{0.15, headerScore},
	{0.2, contentScore},
	{0.1, linkScore},
	{0.15, platformScore},
}

// Summarize scores a snapshot and lists recommendations for it.
func Summarize(s *Snapshot, issues []Issue) Summary {
	sum := Summary{
		TitleStatus:       SummaryTitleStatus(s),
		DescriptionStatus: SummaryDescriptionStatus(s),
		Recommendations:   recommendations(s),
	}
	for _, is := range issues {
		switch is.Type {
		case IssueSuccess:
			sum.Passed++
		case IssueWarning:
			sum.Warnings++
		case IssueError:
			sum.Errors++
		}
	}

	for _, sec := range sections {
		sum.Score += float64(sec.score(s)) * sec.weight
	}
	return sum
}

func titleScore(s *Snapshot) int {
	switch {
	case !s.HasTitle():
		return 0
	case s.TitleLength >= 30 && s.TitleLength <= 60:
		return 100
	case s.TitleLength < 30:
		return 50
	default:
		return 70
	}
}

func metaScore(s *Snapshot) int {
	score := 0
	if s.HasDescription() {
		if s.DescriptionLength >= 120 && s.DescriptionLength <= 160 {
			score += 40
		} else {
			score += 20
		}
	}
	if s.Keywords != NotAvailable {
		score += 20
	}
	if s.Viewport != NotAvailable {
		score += 20
	}
	if s.Robots != NotAvailable {
		score += 20
	}
	return score
}

func headerScore(s *Snapshot) int {
	score := 0
	if s.Headings.H1 == 1 {
		score += 40
	} else if s.Headings.H1 > 1 {
		score += 20
	}
	if s.Headings.H2 > 0 {
		score += 30
	}
	if s.Headings.H3 > 0 {
		score += 30
	}
	return score
}

func contentScore(s *Snapshot) int {
	score := 0
	if s.WordCount >= 300 {
		score += 30
	}
	if s.Images.Total > 0 {
		score += 20
		if s.Images.WithoutAlt == 0 {
			score += 30
		} else if s.Images.WithAlt() > 0 {
			score += 20
		}
	}
	if s.Social.Any() {
		score += 20
	}
	return score
}

func linkScore(s *Snapshot) int {
	score := 100
	switch {
	case s.Links.Internal == 0:
		score -= 40
	case s.Links.Internal < 3:
		score -= 30
	case s.Links.Internal < 5:
		score -= 20
	}
	switch {
	case s.Links.External == 0:
		score -= 30
	case s.Links.External > 50:
		score -= 15
	}
	return score
}

func platformScore(s *Snapshot) int {
	score := 0
	if s.HasCanonical() {
		score += 25
	}
	if s.RobotsTxt {
		score += 25
	}
	if s.Sitemap {
		score += 25
	}
	if s.Favicon.Found {
		score += 25
	}
	return score
}

func recommendations(s *Snapshot) []string {
	var recs []string

	if !s.HasTitle() {
		recs = append(recs, "Add a title tag to your page")
	} else if s.TitleLength < 30 {
		recs = append(recs, "Title tag is too short (should be 30-60 characters)")
	} else if s.TitleLength > 60 {
		recs = append(recs, "Title tag is too long (should be 30-60 characters)")
	}

	if !s.HasDescription() {
		recs = append(recs, "Add a meta description")
	} else if s.DescriptionLength < 120 {
		recs = append(recs, "Meta description is too short (should be 120-160 characters)")
	} else if s.DescriptionLength > 160 {
		recs = append(recs, "Meta description is too long (should be 120-160 characters)")
	}

	if s.Headings.H1 == 0 {
		recs = append(recs, "Add an H1 heading")
	} else if s.Headings.H1 > 1 {
		recs = append(recs, "Multiple H1 headings found - consider using only one")
	}

	if s.WordCount < 300 {
		recs = append(recs, "Add more content (aim for at least 300 words)")
	}
	if s.Images.WithoutAlt > 0 {
		recs = append(recs, fmt.Sprintf("Add alt text to %d image(s)", s.Images.WithoutAlt))
	}

	if s.Viewport == NotAvailable || !strings.Contains(strings.ToLower(s.Viewport), "width=device-width") {
		recs = append(recs,
			"Add a proper viewport meta tag for mobile optimization (e.g., <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">)")
	}
	if !s.Favicon.Found {
		recs = append(recs, "Declare a favicon with <link rel=\"icon\">")
	}

	if s.Links.Internal < 3 {
		recs = append(recs, "Add more internal links to improve site navigation and SEO (aim for at least 3-5)")
	}
	if s.Links.External == 0 {
		recs = append(recs, "Add relevant external links to authoritative sources to improve content credibility")
	} else if s.Links.External > 50 {
		recs = append(recs, fmt.Sprintf("Consider reducing the number of external links (current: %d) to maintain focus", s.Links.External))
	}

	return recs
}
