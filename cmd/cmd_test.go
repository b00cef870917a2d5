package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/inspector/analyzer"
)

const page = `<html lang="en"><head><title>Compost bins compared</title></head>
<body><h1>Compost bins</h1><p>Compost bins turn kitchen scraps into compost.</p></body></html>`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "seo-inspector version dev\n", run(t, "version"))
}

func TestAnalyze_HTMLFile(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(site.Close)

	file := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(file, []byte(page), 0o600))

	out := run(t, "analyze", site.URL+"/bins", "--html-file", file, "--json")

	var rep analyzer.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	assert.Equal(t, "Compost bins compared", rep.Snapshot.Title)
	assert.Equal(t, "en", rep.Snapshot.Language)
	assert.True(t, rep.Snapshot.RobotsTxt)
	assert.False(t, rep.Snapshot.Sitemap)
}

func TestReadMarkup(t *testing.T) {
	got, err := readMarkup("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = readMarkup(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
