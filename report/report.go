// Package report renders analysis results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/keywords"
)

// Renderer writes tables to an output.
type Renderer struct {
	out   io.Writer
	style table.Style
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, style: table.StyleLight}
}

func (r *Renderer) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(r.style)
	t.SetTitle(title)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// RenderReport prints the snapshot signals, the summary and the issue list.
func (r *Renderer) RenderReport(rep analyzer.Report) {
	s := rep.Snapshot

	t := r.newTable(s.URL)
	t.AppendHeader(table.Row{"Signal", "Value", "Status"})
	t.AppendRows([]table.Row{
		{"Title", s.Title, fmt.Sprintf("%s (%d chars)", s.TitleStatus, s.TitleLength)},
		{"Description", s.Description, fmt.Sprintf("%s (%d chars)", s.DescriptionStatus, s.DescriptionLength)},
		{"Keywords", s.Keywords, ""},
		{"Canonical", s.Canonical, ""},
		{"Language", s.Language, ""},
		{"Words", s.WordCount, ""},
		{"Headings", fmt.Sprintf("h1 %d  h2 %d  h3 %d  h4 %d  h5 %d  h6 %d",
			s.Headings.H1, s.Headings.H2, s.Headings.H3, s.Headings.H4, s.Headings.H5, s.Headings.H6), ""},
		{"Images", fmt.Sprintf("%d total, %d unique, %d without alt, %d without title",
			s.Images.Total, s.Images.Unique, s.Images.WithoutAlt, s.Images.WithoutTitle), ""},
		{"Links", fmt.Sprintf("%d total, %d unique, %d internal, %d external, %d nofollow",
			s.Links.Total, s.Links.Unique, s.Links.Internal, s.Links.External, s.Links.Nofollow), ""},
		{"Favicon", s.Favicon.URL, yesNo(s.Favicon.Found)},
		{"Analytics", yesNo(s.HasAnalytics), ""},
		{"AdSense", yesNo(s.HasAdsense), ""},
		{"Server-rendered", yesNo(s.IsSSR), ""},
		{"robots.txt", yesNo(s.RobotsTxt), string(s.Probes.RobotsTxt.Status)},
		{"sitemap.xml", yesNo(s.Sitemap), string(s.Probes.Sitemap.Status)},
	})
	t.AppendFooter(table.Row{"Score", fmt.Sprintf("%.1f", rep.Summary.Score),
		fmt.Sprintf("%d passed, %d warnings, %d errors", rep.Summary.Passed, rep.Summary.Warnings, rep.Summary.Errors)})
	t.Render()

	r.RenderIssues(rep.Issues)

	if len(rep.Summary.Recommendations) > 0 {
		rt := r.newTable("Recommendations")
		for i, rec := range rep.Summary.Recommendations {
			rt.AppendRow(table.Row{i + 1, rec})
		}
		rt.Render()
	}
}

// RenderIssues prints issues in classification order.
func (r *Renderer) RenderIssues(issues []analyzer.Issue) {
	t := r.newTable("Issues")
	t.AppendHeader(table.Row{"#", "Type", "Check", "Detail"})
	for i, is := range issues {
		t.AppendRow(table.Row{i + 1, strings.ToUpper(string(is.Type)), is.Title, is.Description})
	}
	t.Render()
}

// RenderKeywords prints one table per n-gram length, limited to top rows each.
// top <= 0 prints every ranked entry.
func (r *Renderer) RenderKeywords(a *keywords.Analysis, top int) {
	fmt.Fprintf(r.out, "%s: %d words from %s\n", a.URL, a.TotalWords, a.Source)
	for _, g := range a.Groups {
		t := r.newTable(fmt.Sprintf("%d-word phrases", g.Words))
		t.AppendHeader(table.Row{"Keyword", "Count", "Density"})
		rows := g.Keywords
		if top > 0 && len(rows) > top {
			rows = rows[:top]
		}
		for _, k := range rows {
			t.AppendRow(table.Row{k.Keyword, k.Count, fmt.Sprintf("%.2f%%", k.Density)})
		}
		if len(rows) == 0 {
			t.AppendRow(table.Row{"-", 0, "-"})
		}
		t.Render()
	}
}
