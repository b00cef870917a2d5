package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/inspector/document"
)

func parse(t *testing.T, pageURL, markup string) document.Document {
	t.Helper()
	doc, err := document.ParseString(pageURL, markup)
	require.NoError(t, err)
	return doc
}

func page(head, body string) string {
	return "<!DOCTYPE html><html><head>" + head + "</head><body>" + body + "</body></html>"
}

func TestCollect_Sentinels(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page("<title>   </title>", "<p>text</p>")))

	assert.Equal(t, NotAvailable, s.Title)
	assert.Equal(t, 0, s.TitleLength)
	assert.Equal(t, StatusMissing, s.TitleStatus)
	assert.Equal(t, NotAvailable, s.Description)
	assert.Equal(t, 0, s.DescriptionLength)
	assert.Equal(t, StatusMissing, s.DescriptionStatus)
	assert.Equal(t, NotAvailable, s.Keywords)
	assert.Equal(t, NotAvailable, s.Canonical)
	assert.Equal(t, NotAvailable, s.Language)
}

func TestCollect_TitleLengthCountsRunes(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page("<title>Café Ünïcødé</title>", "")))
	assert.Equal(t, 12, s.TitleLength)
	assert.NotEqual(t, NotAvailable, s.Title)
}

func TestCollect_TitleCollapsesWhitespace(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page(
		"<title>\n    Garden tools for every season\n        and every budget today\n</title>", "")))

	assert.Equal(t, "Garden tools for every season and every budget today", s.Title)
	assert.Equal(t, 52, s.TitleLength)
	assert.Equal(t, StatusSuccess, s.TitleStatus)
}

func TestCollect_SuccessBandsScenario(t *testing.T) {
	title := strings.Repeat("t", 45)
	desc := strings.Repeat("d", 150)
	s := Collect(parse(t, "https://a.example/", page(
		"<title>"+title+"</title><meta name=\"description\" content=\""+desc+"\">", "<h1>x</h1>")))

	assert.Equal(t, 45, s.TitleLength)
	assert.Equal(t, 150, s.DescriptionLength)
	assert.Equal(t, StatusSuccess, s.TitleStatus)
	assert.Equal(t, StatusSuccess, s.DescriptionStatus)

	for _, is := range Classify(s) {
		if is.Type != IssueError {
			continue
		}
		assert.NotContains(t, is.Title, "Title")
		assert.NotContains(t, is.Title, "Description")
	}
}

func TestCollect_MetaAndLanguage(t *testing.T) {
	markup := `<html lang="en-GB"><head>
		<meta name="keywords" content="seo, audit">
		<meta name="robots" content="index,follow">
		<meta name="viewport" content="width=device-width, initial-scale=1">
		<link rel="canonical" href="https://a.example/canonical">
	</head><body><h2>a</h2><h2>b</h2><h3>c</h3><h6>d</h6><p>one two three</p></body></html>`
	s := Collect(parse(t, "https://a.example/p?q=1", markup))

	assert.Equal(t, "https://a.example/p?q=1", s.URL)
	assert.Equal(t, "en-GB", s.Language)
	assert.Equal(t, "seo, audit", s.Keywords)
	assert.Equal(t, "index,follow", s.Robots)
	assert.Equal(t, "https://a.example/canonical", s.Canonical)
	assert.Equal(t, HeadingCounts{H2: 2, H3: 1, H6: 1}, s.Headings)
	assert.Equal(t, 7, s.WordCount)
}

func TestCollect_Images(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page("", `
		<img src="/a.png" alt="A" title="A">
		<img src="/a.png" alt="  ">
		<img src="/b.png">
		<img src="/c.png" alt="C">`)))

	assert.Equal(t, ImageStats{Total: 4, Unique: 3, WithoutAlt: 2, WithoutTitle: 3}, s.Images)
	assert.Equal(t, s.Images.Total, s.Images.WithoutAlt+s.Images.WithAlt())
	assert.Equal(t, 2, s.Images.WithAlt())
}

func TestIsInternal(t *testing.T) {
	base, err := document.ParseString("https://a.example/", "<html></html>")
	require.NoError(t, err)
	u := base.URL()

	assert.True(t, IsInternal(u, "https://a.example/x"))
	assert.False(t, IsInternal(u, "https://b.example/"))
	assert.True(t, IsInternal(u, "/relative"))
	assert.True(t, IsInternal(u, "relative/path"))
	assert.True(t, IsInternal(u, "https://A.EXAMPLE/upper"))
	assert.True(t, IsInternal(u, "http://[::1"), "unparsable hrefs count as internal")
	assert.False(t, IsInternal(u, "//cdn.example/x"))
}

func TestCollect_Links(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page("", `
		<a href="https://a.example/x">x</a>
		<a href="/x">same as x</a>
		<a href="https://b.example/" rel="nofollow noopener">b</a>
		<a href="http://[::1">broken</a>
		<a>no href</a>`)))

	assert.Equal(t, LinkStats{
		Total:    4,
		Unique:   3,
		Internal: 3,
		External: 1,
		Dofollow: 3,
		Nofollow: 1,
	}, s.Links)
}

func TestCollect_Favicon(t *testing.T) {
	cases := []struct {
		name string
		head string
		want Favicon
	}{
		{
			name: "icon wins over apple touch",
			head: `<link rel="apple-touch-icon" href="/apple.png"><link rel="icon" href="/img/fav.png">`,
			want: Favicon{Found: true, URL: "https://a.example/img/fav.png"},
		},
		{
			name: "skips empty href",
			head: `<link rel="icon" href=""><link rel="shortcut icon" href="https://cdn.example/f.ico">`,
			want: Favicon{Found: true, URL: "https://cdn.example/f.ico"},
		},
		{
			name: "precomposed",
			head: `<link rel="apple-touch-icon-precomposed" href="touch.png">`,
			want: Favicon{Found: true, URL: "https://a.example/blog/touch.png"},
		},
		{
			name: "guess",
			head: ``,
			want: Favicon{URL: "https://a.example/favicon.ico"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Collect(parse(t, "https://a.example/blog/post", page(tc.head, "")))
			assert.Equal(t, tc.want, s.Favicon)
		})
	}
}

func TestCollect_Social(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page(`
		<meta property="og:title" content="T">
		<meta property="og:description" content="D">
		<meta property="og:image" content="">
		<meta property="og:site_name" content="Site">
		<meta name="twitter:card" content="summary">`, "")))

	assert.Equal(t, map[string]string{"og:title": "T", "og:description": "D", "og:site_name": "Site"}, s.Social.OpenGraph)
	assert.Equal(t, map[string]string{"twitter:card": "summary"}, s.Social.Twitter)
	assert.Equal(t, []string{"og:image", "og:url", "og:type"}, s.Social.OpenGraphMissing)
	assert.Equal(t, []string{"twitter:title", "twitter:description", "twitter:image"}, s.Social.TwitterMissing)
	assert.True(t, s.Social.Any())
	assert.False(t, s.Social.Complete())
}

func TestCollect_SSR(t *testing.T) {
	cases := []struct {
		markup string
		want   bool
	}{
		{page("", "<p>plain</p>"), false},
		{page(`<script type="application/ld+json">{}</script>`, ""), true},
		{page(`<meta name="generator" content="Hugo">`, ""), true},
		{page("", `<script id="__NEXT_DATA__" type="application/json">{}</script>`), true},
		{page("", `<div id="app" data-server-rendered="true"></div>`), true},
		{page("", `<script>window.__NUXT__={}</script>`), true},
		{page("", `<script>window.__INITIAL_STATE__={}</script>`), true},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			s := Collect(parse(t, "https://a.example/", tc.markup))
			assert.Equal(t, tc.want, s.IsSSR, tc.markup)
		})
	}
}

func TestCollect_Vendors(t *testing.T) {
	s := Collect(parse(t, "https://a.example/", page(
		`<script async src="https://www.googletagmanager.com/gtag/js?id=G-1"></script>`, "")))
	assert.True(t, s.HasAnalytics)
	assert.False(t, s.HasAdsense)

	s = Collect(parse(t, "https://a.example/", page("",
		`<script>window.dataLayer = window.dataLayer || [];</script>
		 <script>(adsbygoogle = window.adsbygoogle || []).push({});</script>`)))
	assert.True(t, s.HasAnalytics)
	assert.True(t, s.HasAdsense)

	s = Collect(parse(t, "https://a.example/", page("", `<p>we mention dataLayer in prose</p>`)))
	assert.False(t, s.HasAnalytics)
}

func TestCollect_Deterministic(t *testing.T) {
	markup := page(`<title>Stable</title><meta property="og:title" content="x">`,
		`<h1>a</h1><img src="a.png"><a href="/x">x</a><a href="https://b.example">b</a>`)
	a := Collect(parse(t, "https://a.example/", markup))
	b := Collect(parse(t, "https://a.example/", markup))
	assert.Equal(t, a, b)
}
