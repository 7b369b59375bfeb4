package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAnchor(t *testing.T) {
	base, err := url.Parse("https://example.com/page")
	require.NoError(t, err)

	tests := []struct {
		name     string
		href     string
		wantType string
		wantURL  string
		wantKept bool
	}{
		{"root path is internal", "/", LinkInternal, "https://example.com/", true},
		{"other host is external", "https://other.example/x", LinkExternal, "https://other.example/x", true},
		{"relative path is internal", "about", LinkInternal, "https://example.com/about", true},
		{"protocol-relative inherits scheme", "//cdn.example.com/lib.js", LinkExternal, "https://cdn.example.com/lib.js", true},
		{"same host with port mismatch still matches hostname", "https://example.com:8443/x", LinkInternal, "https://example.com:8443/x", true},
		{"empty href dropped", "", "", "", false},
		{"fragment dropped", "#", "", "", false},
		{"javascript dropped", "javascript:void(0)", "", "", false},
		{"mailto dropped", "mailto:someone@example.com", "", "", false},
		{"tel dropped", "tel:+123456789", "", "", false},
		{"malformed dropped", "http://bad host/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, kept := classifyAnchor(tt.href, "text", base)
			assert.Equal(t, tt.wantKept, kept)
			if kept {
				assert.Equal(t, tt.wantType, record.Type)
				assert.Equal(t, tt.wantURL, record.FullURL)
			}
		})
	}
}

// linkTestServer answers /ok with 200 and /missing with 404, and serves the
// audited page at /.
func linkTestServer(t *testing.T, page *string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, *page)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// localhostURL rewrites an httptest URL (127.0.0.1) to the localhost
// hostname, so links to the same server classify as external.
func localhostURL(t *testing.T, tsURL string) string {
	t.Helper()
	u, err := url.Parse(tsURL)
	require.NoError(t, err)
	u.Host = "localhost:" + u.Port()
	return u.String()
}

func TestAnalyzeLinks(t *testing.T) {
	var page string
	ts := linkTestServer(t, &page)
	external := localhostURL(t, ts.URL)

	page = fmt.Sprintf(`<html><body>
		<a href="/ok">fine</a>
		<a href="/missing">gone</a>
		<a href="%s/ok">external fine</a>
		<a href="%s/missing">external gone</a>
		<a href="#">skip</a>
		<a href="javascript:void(0)">skip</a>
		<a href="mailto:x@y.z">skip</a>
	</body></html>`, external, external)

	report, err := newTestAnalyzer(t).AnalyzeLinks(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Len(t, report.Internal.Links, 2)
	assert.Equal(t, 1, report.Internal.Working)
	assert.Equal(t, 1, report.Internal.Broken)
	assert.Equal(t, StatusWarning, report.Internal.Status)

	assert.Len(t, report.External.Links, 2)
	assert.Equal(t, 1, report.External.Broken)
	assert.Equal(t, 2, report.External.Total)
	assert.Equal(t, StatusWarning, report.External.Status)

	for _, l := range report.Internal.Links {
		assert.Equal(t, LinkInternal, l.Type)
	}
	for _, l := range report.External.Links {
		assert.Equal(t, LinkExternal, l.Type)
	}
}

func TestAnalyzeLinksAllWorking(t *testing.T) {
	var page string
	ts := linkTestServer(t, &page)
	page = `<html><body><a href="/ok">one</a><a href="/ok?x=1">two</a></body></html>`

	report, err := newTestAnalyzer(t).AnalyzeLinks(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, StatusGood, report.Internal.Status)
	assert.Equal(t, 2, report.Internal.Working)
	assert.Zero(t, report.Internal.Broken)
}

func TestAnalyzeLinksSampleCap(t *testing.T) {
	var page string
	ts := linkTestServer(t, &page)
	external := localhostURL(t, ts.URL)

	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<a href="%s/ok?n=%d">ext</a>`, external, i)
	}
	b.WriteString("</body></html>")
	page = b.String()

	report, err := newTestAnalyzer(t).AnalyzeLinks(context.Background(), ts.URL)
	require.NoError(t, err)

	// Only the first 10 discovered links are probed; the total still counts
	// all 15.
	assert.Len(t, report.External.Links, 10)
	assert.Equal(t, 10, report.External.Working)
	assert.Equal(t, 15, report.External.Total)
	assert.Equal(t, "n=0", mustParseQuery(t, report.External.Links[0].FullURL))
}

func mustParseQuery(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.RawQuery
}

func TestAnalyzeLinksFetchFailure(t *testing.T) {
	ts := serveHTML(t, "irrelevant")
	target := ts.URL
	ts.Close()

	_, err := newTestAnalyzer(t).AnalyzeLinks(context.Background(), target)
	assert.Error(t, err)
}
