package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanURL(t *testing.T) {
	cases := map[string]string{
		"https://a.example/":             "https://a.example",
		"https://a.example/blog/?page=2": "https://a.example/blog",
		"http://localhost:8082/x":        "",
		"https://a.example/api/analyze":  "",
		"not a url":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanURL(in), in)
	}
}

func TestRequestStats(t *testing.T) {
	dir := t.TempDir()
	s, err := NewRequestStats(dir)
	require.NoError(t, err)

	s.TrackVisitor("10.0.0.1")
	s.TrackVisitor("10.0.0.2")
	s.TrackVisitor("10.0.0.1")
	s.TrackAnalysis("https://a.example/", 100, false)
	s.TrackAnalysis("https://a.example/?utm=x", 300, true)
	s.TrackAnalysis("https://b.example/post", 200, false)

	assert.Equal(t, 2, s.GetUniqueVisitorsCount())
	assert.Equal(t, 3, s.TotalRequests())
	assert.InDelta(t, 33.333, s.GetErrorRate(), 0.01)
	assert.Equal(t, []URLCount{{URL: "https://a.example", Count: 2}}, s.GetPopularURLs(1))

	prod := s.Summary(false)
	assert.NotContains(t, prod, "popularUrls")
	assert.InDelta(t, 200.0, prod["averageLoadTime"], 0.001)

	dev := s.Summary(true)
	assert.Contains(t, dev, "popularUrls")

	require.NoError(t, s.Save())

	reloaded, err := NewRequestStats(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.TotalRequests())
	assert.Equal(t, 2, reloaded.GetUniqueVisitorsCount())
}
