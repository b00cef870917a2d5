package keywords

import (
	"strings"
	"unicode/utf8"

	"github.com/seo-optimizer/inspector/document"
)

// Text-source thresholds in runes.
const (
	containerMinRunes = 100
	fallbackMinRunes  = 50
)

// Names of the non-container text sources.
const (
	SourceHeadingsParagraphs = "headings+paragraphs"
	SourceDocument           = "document"
)

// containerSelectors are tried in order; the first element with enough text wins.
var containerSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	"#content",
	".main-content",
	".post-content",
	".entry-content",
}

// ExtractText picks the page's primary textual content and reports which
// source it came from: a container selector, SourceHeadingsParagraphs or
// SourceDocument.
func ExtractText(doc document.Document) (string, string) {
	for _, sel := range containerSelectors {
		els := doc.Find(sel)
		if len(els) == 0 {
			continue
		}
		text := strings.TrimSpace(els[0].Text())
		if utf8.RuneCountInString(text) > containerMinRunes {
			return text, sel
		}
	}

	var parts []string
	for _, el := range doc.Find("h1, h2, h3, h4, h5, h6, p") {
		if t := strings.TrimSpace(el.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	joined := strings.Join(parts, " ")
	if utf8.RuneCountInString(joined) > fallbackMinRunes {
		return joined, SourceHeadingsParagraphs
	}

	return doc.VisibleText(), SourceDocument
}
