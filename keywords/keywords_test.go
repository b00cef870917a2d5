package keywords

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/inspector/document"
	"github.com/seo-optimizer/inspector/source"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The QUICK brown fox, isn't it? Jumps over the lazy dog's back... café_au_lait 2024 go")

	assert.Equal(t, []string{"quick", "brown", "fox", "isnt", "jumps", "lazy", "dogs", "back", "café_au_lait", "2024"}, tokens)
	for _, tok := range tokens {
		assert.False(t, IsStopWord(tok), tok)
		assert.GreaterOrEqual(t, len([]rune(tok)), 3)
	}
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize("  a an to of ... !!! "))
}

func TestCount_Properties(t *testing.T) {
	text := strings.Repeat("search engine optimization guide ", 4) + "unique phrase only once search engine"
	tokens := Tokenize(text)
	groups := Count(tokens)

	require.Len(t, groups, MaxWords)
	for i, g := range groups {
		assert.Equal(t, i+1, g.Words)
		for j, r := range g.Keywords {
			assert.Equal(t, g.Words, r.WordCount)
			assert.Equal(t, len(tokens), r.Total)
			assert.InDelta(t, 100*float64(r.Count)/float64(len(tokens)), r.Density, 1e-9)
			assert.Len(t, strings.Fields(r.Keyword), g.Words)
			if j > 0 {
				assert.LessOrEqual(t, r.Count, g.Keywords[j-1].Count)
			}
			if g.Words == 1 {
				assert.GreaterOrEqual(t, r.Count, 2, "unigram %q", r.Keyword)
			}
		}
	}

	uni := groups[0].Keywords
	assert.Equal(t, "search", uni[0].Keyword)
	assert.Equal(t, 5, uni[0].Count)
	for _, r := range uni {
		assert.NotEqual(t, "unique", r.Keyword)
	}

	// multi-word grams may occur once
	var sawSingle bool
	for _, r := range groups[1].Keywords {
		if r.Count == 1 {
			sawSingle = true
		}
	}
	assert.True(t, sawSingle)
}

func TestCount_TiesKeepFirstSeenOrder(t *testing.T) {
	groups := Count([]string{"beta", "alpha", "beta", "alpha", "gamma"})
	uni := groups[0].Keywords
	require.Len(t, uni, 2)
	assert.Equal(t, "beta", uni[0].Keyword)
	assert.Equal(t, "alpha", uni[1].Keyword)
}

func TestCount_TruncatesToTopN(t *testing.T) {
	var tokens []string
	for i := 0; i < 50; i++ {
		w := "word" + strings.Repeat("x", i)
		tokens = append(tokens, w, w)
	}
	groups := Count(tokens)
	assert.Len(t, groups[0].Keywords, TopN)
	assert.Len(t, groups[1].Keywords, TopN)
}

func TestCount_NoTokens(t *testing.T) {
	for _, g := range Count(nil) {
		assert.NotNil(t, g.Keywords)
		assert.Empty(t, g.Keywords)
	}
}

func parse(t *testing.T, markup string) document.Document {
	t.Helper()
	doc, err := document.ParseString("https://a.example/post?id=7", markup)
	require.NoError(t, err)
	return doc
}

var longText = strings.Repeat("Structured content about gardening tools and soil. ", 4)

func TestExtractText_PrefersMain(t *testing.T) {
	doc := parse(t, `<body><nav>menu menu menu</nav><article>`+longText+`</article><main>`+longText+` main</main></body>`)
	text, src := ExtractText(doc)
	assert.Equal(t, "main", src)
	assert.True(t, strings.HasSuffix(text, "main"))
}

func TestExtractText_SkipsShortContainers(t *testing.T) {
	doc := parse(t, `<body><main>too short</main><div class="content">`+longText+`</div></body>`)
	_, src := ExtractText(doc)
	assert.Equal(t, ".content", src)
}

func TestExtractText_HeadingsAndParagraphs(t *testing.T) {
	doc := parse(t, `<body><h1>Gardening tools</h1><div><p>Soil preparation matters for every garden bed.</p></div></body>`)
	text, src := ExtractText(doc)
	assert.Equal(t, SourceHeadingsParagraphs, src)
	assert.Equal(t, "Gardening tools Soil preparation matters for every garden bed.", text)
}

func TestExtractText_DocumentFallback(t *testing.T) {
	doc := parse(t, `<body><div>Short</div><span>page</span><script>ignored()</script></body>`)
	text, src := ExtractText(doc)
	assert.Equal(t, SourceDocument, src)
	assert.Equal(t, "Short page", text)
}

type countingFetcher struct {
	calls int32
	html  string
}

func (f *countingFetcher) Fetch(_ context.Context, url string) (*source.Page, error) {
	atomic.AddInt32(&f.calls, 1)
	return &source.Page{URL: url, FinalURL: url, StatusCode: 200, HTML: f.html}, nil
}

func TestEngine_CachesPerURL(t *testing.T) {
	f := &countingFetcher{html: `<main>` + longText + `</main>`}
	e := NewEngine(f, Options{})
	ctx := context.Background()

	_, err := e.Analyze(ctx, Request{})
	assert.ErrorIs(t, err, ErrNoURL)

	first, err := e.Analyze(ctx, Request{URL: "https://a.example/"})
	require.NoError(t, err)
	second, err := e.Analyze(ctx, Request{URL: "https://a.example/"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
	assert.Equal(t, "main", first.Source)
	assert.NotEmpty(t, first.Words(1))
	assert.Nil(t, first.Words(6))

	_, err = e.Analyze(ctx, Request{URL: "https://a.example/?page=2"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls))

	forced, err := e.Analyze(ctx, Request{URL: "https://a.example/", Force: true})
	require.NoError(t, err)
	assert.NotSame(t, first, forced)
	assert.Equal(t, first.Groups, forced.Groups)

	cached, ok := e.Cached("https://a.example/")
	require.True(t, ok)
	assert.Same(t, forced, cached)

	e.ClearCache("https://a.example/")
	_, ok = e.Cached("https://a.example/")
	assert.False(t, ok)
	assert.Equal(t, 1, e.CacheLen())

	e.ClearCache()
	assert.Equal(t, 0, e.CacheLen())
}

func TestEngine_UsesPostedMarkup(t *testing.T) {
	f := &countingFetcher{}
	e := NewEngine(f, Options{})

	a, err := e.Analyze(context.Background(), Request{
		URL:  "https://a.example/",
		HTML: `<body><p>garden garden garden tools tools</p></body>`,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&f.calls))
	assert.Equal(t, SourceDocument, a.Source)
	assert.Equal(t, 5, a.TotalWords)
	require.Len(t, a.Words(1), 2)
	assert.Equal(t, Result{Keyword: "garden", Count: 3, Total: 5, Density: 60, WordCount: 1}, a.Words(1)[0])
}
