package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/keywords"
)

func TestRenderReport(t *testing.T) {
	snap := &analyzer.Snapshot{
		URL:         "https://a.example/",
		Title:       "Example title",
		TitleStatus: analyzer.StatusWarning,
		Description: analyzer.NotAvailable,
		Keywords:    analyzer.NotAvailable,
		Canonical:   analyzer.NotAvailable,
		Language:    "en",
		Favicon:     analyzer.Favicon{URL: "https://a.example/favicon.ico"},
		RobotsTxt:   true,
	}

	var buf bytes.Buffer
	NewRenderer(&buf).RenderReport(analyzer.NewReport(snap))
	out := buf.String()

	assert.Contains(t, out, "https://a.example/")
	assert.Contains(t, out, "Example title")
	assert.Contains(t, out, "Missing H1 Tag")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "Recommendations")
	assert.Less(t, strings.Index(out, "Client-Side Rendering Detected"), strings.Index(out, "Missing H1 Tag"))
}

func TestRenderKeywords(t *testing.T) {
	a := &keywords.Analysis{
		URL:        "https://a.example/",
		TotalWords: 4,
		Source:     keywords.SourceDocument,
		Groups:     keywords.Count([]string{"soil", "soil", "soil", "compost"}),
	}

	var all, top bytes.Buffer
	NewRenderer(&all).RenderKeywords(a, 0)
	NewRenderer(&top).RenderKeywords(a, 1)
	out := top.String()

	assert.Contains(t, out, "4 words from document")
	assert.Contains(t, out, "1-word phrases")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "5-word phrases")
	assert.Contains(t, all.String(), "│ soil compost")
	assert.NotContains(t, out, "│ soil compost", "top limits each table")
	assert.Less(t, top.Len(), all.Len())
}
