package analyzer

import (
	"fmt"
	"strings"

	"github.com/seo-optimizer/inspector/probe"
)

var issueIcons = map[IssueType]string{
	IssueSuccess: "check-circle",
	IssueWarning: "alert-triangle",
	IssueError:   "x-circle",
}

func newIssue(t IssueType, title, description string) Issue {
	return Issue{Type: t, Title: title, Description: description, Icon: issueIcons[t]}
}

// rules run in order; a rule returns false when it has nothing to report.
var rules = []func(*Snapshot) (Issue, bool){
	ssrRule,
	descriptionRule,
	titleRule,
	canonicalRule,
	h1Rule,
	h2Rule,
	h3Rule,
	imageAltRule,
	socialRule,
	robotsTxtRule,
	sitemapRule,
}

// Classify derives the ordered issue list of a snapshot. Every rule emits
// exactly one issue except the H2 and H3 rules, which only emit when such
// headings exist.
func Classify(s *Snapshot) []Issue {
	issues := make([]Issue, 0, len(rules))
	for _, rule := range rules {
		if is, ok := rule(s); ok {
			issues = append(issues, is)
		}
	}
	return issues
}

func ssrRule(s *Snapshot) (Issue, bool) {
	if s.IsSSR {
		return newIssue(IssueSuccess, "Server-Side Rendering",
			"Page markup carries server-rendering signals, so crawlers see content without running JavaScript."), true
	}
	return newIssue(IssueWarning, "Client-Side Rendering Detected",
		"No server-rendering signals found. Content that depends on JavaScript may be indexed late or not at all."), true
}

func lengthIssue(field string, status Status, length int, okMin, okMax int) Issue {
	switch status {
	case StatusMissing:
		return newIssue(IssueError, "Missing "+field,
			fmt.Sprintf("The page has no %s.", strings.ToLower(field)))
	case StatusSuccess:
		return newIssue(IssueSuccess, field+" Length",
			fmt.Sprintf("%s is %d characters, within the recommended %d-%d.", field, length, okMin, okMax))
	case StatusWarning:
		return newIssue(IssueWarning, field+" Length",
			fmt.Sprintf("%s is %d characters; aim for %d-%d.", field, length, okMin, okMax))
	default:
		return newIssue(IssueError, field+" Length",
			fmt.Sprintf("%s is %d characters, far outside the recommended %d-%d.", field, length, okMin, okMax))
	}
}

func descriptionRule(s *Snapshot) (Issue, bool) {
	return lengthIssue("Meta Description", s.DescriptionStatus, s.DescriptionLength, 140, 160), true
}

func titleRule(s *Snapshot) (Issue, bool) {
	return lengthIssue("Title", s.TitleStatus, s.TitleLength, 40, 60), true
}

func canonicalRule(s *Snapshot) (Issue, bool) {
	if s.HasCanonical() {
		return newIssue(IssueSuccess, "Canonical Tag",
			fmt.Sprintf("Canonical URL is %s.", s.Canonical)), true
	}
	return newIssue(IssueWarning, "Missing Canonical Tag",
		"Add <link rel=\"canonical\"> to avoid duplicate-content dilution."), true
}

func h1Rule(s *Snapshot) (Issue, bool) {
	switch n := s.Headings.H1; {
	case n == 0:
		return newIssue(IssueError, "Missing H1 Tag", "The page has no H1 heading."), true
	case n == 1:
		return newIssue(IssueSuccess, "H1 Tag", "The page has exactly one H1 heading."), true
	default:
		return newIssue(IssueWarning, "Multiple H1 Tags",
			fmt.Sprintf("Found %d H1 headings; use a single H1 for the main topic.", n)), true
	}
}

func h2Rule(s *Snapshot) (Issue, bool) {
	if s.Headings.H2 == 0 {
		return Issue{}, false
	}
	return newIssue(IssueSuccess, "H2 Tags", fmt.Sprintf("Found %d H2 headings.", s.Headings.H2)), true
}

func h3Rule(s *Snapshot) (Issue, bool) {
	if s.Headings.H3 == 0 {
		return Issue{}, false
	}
	return newIssue(IssueSuccess, "H3 Tags", fmt.Sprintf("Found %d H3 headings.", s.Headings.H3)), true
}

func imageAltRule(s *Snapshot) (Issue, bool) {
	if s.Images.WithoutAlt > 0 {
		return newIssue(IssueWarning, "Missing Image Alt Text",
			fmt.Sprintf("%d of %d images have no alt text.", s.Images.WithoutAlt, s.Images.Total)), true
	}
	if s.Images.Total == 0 {
		return newIssue(IssueSuccess, "Image Alt Text", "No images on the page."), true
	}
	return newIssue(IssueSuccess, "Image Alt Text",
		fmt.Sprintf("All %d images have alt text.", s.Images.Total)), true
}

func socialRule(s *Snapshot) (Issue, bool) {
	switch {
	case !s.Social.Any():
		return newIssue(IssueWarning, "Missing Social Tags",
			"No Open Graph or Twitter Card tags found; shared links will render without a preview."), true
	case !s.Social.Complete():
		missing := append(append([]string{}, s.Social.OpenGraphMissing...), s.Social.TwitterMissing...)
		return newIssue(IssueWarning, "Incomplete Social Tags",
			"Missing "+strings.Join(missing, ", ")+"."), true
	default:
		return newIssue(IssueSuccess, "Social Tags", "Open Graph and Twitter Card tags are complete."), true
	}
}

func probeIssue(name string, o probe.Outcome) Issue {
	switch o.Status {
	case probe.StatusPresent:
		return newIssue(IssueSuccess, name+" Found", name+" is available.")
	case probe.StatusAbsent:
		return newIssue(IssueWarning, "Missing "+name, name+" was not found on this site.")
	default:
		return newIssue(IssueWarning, "Missing "+name, name+" could not be verified.")
	}
}

func robotsTxtRule(s *Snapshot) (Issue, bool) {
	return probeIssue("robots.txt", outcome(s.Probes.RobotsTxt, s.RobotsTxt)), true
}

func sitemapRule(s *Snapshot) (Issue, bool) {
	return probeIssue("sitemap.xml", outcome(s.Probes.Sitemap, s.Sitemap)), true
}

// outcome falls back to the flattened flag for snapshots built without probe
// detail.
func outcome(o probe.Outcome, present bool) probe.Outcome {
	if o.Status != "" {
		return o
	}
	if present {
		o.Status = probe.StatusPresent
	} else {
		o.Status = probe.StatusAbsent
	}
	return o
}
