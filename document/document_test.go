package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html lang="en">
<head><title>Sample</title><style>.x{color:red}</style></head>
<body>
  <h1>Hello   world</h1>
  <script>var hidden = "not visible";</script>
  <noscript>enable js</noscript>
  <p>First <b>paragraph</b>.</p>
  <a href="/about" rel="nofollow">About</a>
  <!-- comment -->
</body>
</html>`

func TestParse_RejectsRelativeURL(t *testing.T) {
	_, err := ParseString("/relative", samplePage)
	assert.Error(t, err)
}

func TestFindAndAttr(t *testing.T) {
	doc, err := ParseString("https://a.example/page?q=1", samplePage)
	require.NoError(t, err)

	links := doc.Find("a[href]")
	require.Len(t, links, 1)

	href, ok := links[0].Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/about", href)

	_, ok = links[0].Attr("title")
	assert.False(t, ok)

	assert.Empty(t, doc.Find("h2"))
	assert.Equal(t, "Hello   world", doc.Find("h1")[0].Text())
}

func TestVisibleText_SkipsNonRenderedNodes(t *testing.T) {
	doc, err := ParseString("https://a.example/", samplePage)
	require.NoError(t, err)

	text := doc.VisibleText()
	assert.Equal(t, "Hello world First paragraph . About", text)
	assert.NotContains(t, text, "not visible")
	assert.NotContains(t, text, "enable js")
	assert.NotContains(t, text, "Sample")
}

func TestHTMLAndURL(t *testing.T) {
	doc, err := ParseString("https://a.example/page?q=1", samplePage)
	require.NoError(t, err)

	assert.Equal(t, samplePage, doc.HTML())

	u := doc.URL()
	u.Host = "mutated.example"
	assert.Equal(t, "a.example", doc.URL().Host)
	assert.Equal(t, "https://a.example", Origin(doc.URL()))
}

func TestResolve(t *testing.T) {
	doc, err := ParseString("https://a.example/dir/page", samplePage)
	require.NoError(t, err)

	u, err := Resolve(doc, "../img.png")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/img.png", u.String())

	_, err = Resolve(doc, "http://[::1")
	assert.Error(t, err)
}
