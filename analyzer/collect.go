package analyzer

import (
	"net/url"
	"strings"

	"github.com/seo-optimizer/inspector/document"
)

// Collect walks doc once and captures its on-page signals. Probe fields and
// AnalyzedAt are left for the caller.
func Collect(doc document.Document) *Snapshot {
	s := &Snapshot{
		URL:         doc.URL().String(),
		Title:       pageTitle(doc),
		Description: metaContent(doc, `meta[name="description"]`),
		Keywords:    metaContent(doc, `meta[name="keywords"]`),
		Canonical:   attrOr(doc, `link[rel="canonical"]`, "href"),
		Robots:      metaContent(doc, `meta[name="robots"]`),
		Viewport:    metaContent(doc, `meta[name="viewport"]`),
		Language:    attrOr(doc, "html", "lang"),
		WordCount:   len(strings.Fields(doc.VisibleText())),
		Headings:    countHeadings(doc),
		Images:      collectImages(doc),
		Links:       collectLinks(doc),
		Favicon:     findFavicon(doc),
		Social:      collectSocial(doc),
	}

	s.TitleLength = textLength(s.Title)
	s.TitleStatus = TitleStatus(s.Title)
	s.DescriptionLength = textLength(s.Description)
	s.DescriptionStatus = DescriptionStatus(s.Description)

	markup := doc.HTML()
	s.IsSSR = detectSSR(doc, markup)
	s.HasAnalytics = detectVendor(doc, markup, analyticsGlobals, analyticsScripts)
	s.HasAdsense = detectVendor(doc, markup, adsenseGlobals, adsenseScripts)

	return s
}

// orNA returns the trimmed value, or NotAvailable when it is blank.
func orNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotAvailable
	}
	return v
}

// pageTitle reads <title> the way browsers build document.title: every
// whitespace run collapses to a single space.
func pageTitle(doc document.Document) string {
	els := doc.Find("title")
	if len(els) == 0 {
		return NotAvailable
	}
	return orNA(strings.Join(strings.Fields(els[0].Text()), " "))
}

func attrOr(doc document.Document, selector, attr string) string {
	for _, el := range doc.Find(selector) {
		if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return NotAvailable
}

func metaContent(doc document.Document, selector string) string {
	return attrOr(doc, selector, "content")
}

func countHeadings(doc document.Document) HeadingCounts {
	return HeadingCounts{
		H1: len(doc.Find("h1")),
		H2: len(doc.Find("h2")),
		H3: len(doc.Find("h3")),
		H4: len(doc.Find("h4")),
		H5: len(doc.Find("h5")),
		H6: len(doc.Find("h6")),
	}
}

func blankAttr(el document.Element, name string) bool {
	v, ok := el.Attr(name)
	return !ok || strings.TrimSpace(v) == ""
}

func collectImages(doc document.Document) ImageStats {
	var st ImageStats
	seen := make(map[string]bool)
	for _, img := range doc.Find("img") {
		st.Total++
		if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
			seen[strings.TrimSpace(src)] = true
		}
		if blankAttr(img, "alt") {
			st.WithoutAlt++
		}
		if blankAttr(img, "title") {
			st.WithoutTitle++
		}
	}
	st.Unique = len(seen)
	return st
}

// IsInternal reports whether href points at the same host as base. Hrefs that
// cannot be parsed count as internal.
func IsInternal(base *url.URL, href string) bool {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return true
	}
	return strings.EqualFold(base.ResolveReference(ref).Hostname(), base.Hostname())
}

func hasRelToken(el document.Element, token string) bool {
	rel, _ := el.Attr("rel")
	for _, f := range strings.Fields(strings.ToLower(rel)) {
		if f == token {
			return true
		}
	}
	return false
}

func collectLinks(doc document.Document) LinkStats {
	var st LinkStats
	base := doc.URL()
	seen := make(map[string]bool)
	for _, a := range doc.Find("a[href]") {
		href, _ := a.Attr("href")
		st.Total++

		key := strings.TrimSpace(href)
		if ref, err := url.Parse(key); err == nil {
			key = base.ResolveReference(ref).String()
		}
		seen[key] = true

		if IsInternal(base, href) {
			st.Internal++
		} else {
			st.External++
		}
		if hasRelToken(a, "nofollow") {
			st.Nofollow++
		} else {
			st.Dofollow++
		}
	}
	st.Unique = len(seen)
	return st
}

var faviconSelectors = []string{
	`link[rel="icon"]`,
	`link[rel="shortcut icon"]`,
	`link[rel="apple-touch-icon"]`,
	`link[rel="apple-touch-icon-precomposed"]`,
}

func findFavicon(doc document.Document) Favicon {
	for _, sel := range faviconSelectors {
		for _, el := range doc.Find(sel) {
			href, ok := el.Attr("href")
			if !ok || strings.TrimSpace(href) == "" {
				continue
			}
			u, err := document.Resolve(doc, href)
			if err != nil {
				continue
			}
			return Favicon{Found: true, URL: u.String()}
		}
	}
	return Favicon{URL: document.Origin(doc.URL()) + "/favicon.ico"}
}

// Expected social tags; anything else with the prefix is recorded but optional.
var (
	openGraphTags = []string{"og:title", "og:description", "og:image", "og:url", "og:type"}
	twitterTags   = []string{"twitter:card", "twitter:title", "twitter:description", "twitter:image"}
)

func collectSocial(doc document.Document) SocialTags {
	t := SocialTags{
		OpenGraph: make(map[string]string),
		Twitter:   make(map[string]string),
	}
	for _, el := range doc.Find("meta[property], meta[name]") {
		key, ok := el.Attr("property")
		if !ok || key == "" {
			key, _ = el.Attr("name")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		content, _ := el.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		switch {
		case strings.HasPrefix(key, "og:"):
			if _, dup := t.OpenGraph[key]; !dup {
				t.OpenGraph[key] = content
			}
		case strings.HasPrefix(key, "twitter:"):
			if _, dup := t.Twitter[key]; !dup {
				t.Twitter[key] = content
			}
		}
	}
	t.OpenGraphMissing = missing(openGraphTags, t.OpenGraph)
	t.TwitterMissing = missing(twitterTags, t.Twitter)
	return t
}

func missing(expected []string, found map[string]string) []string {
	out := []string{}
	for _, k := range expected {
		if _, ok := found[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
