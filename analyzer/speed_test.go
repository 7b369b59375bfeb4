package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speedAnalyzer(t *testing.T, stub *stubSpeed) *Analyzer {
	t.Helper()
	a := newTestAnalyzer(t)
	a.speed = stub
	return a
}

func TestAnalyzeSpeedBothStrategies(t *testing.T) {
	a := speedAnalyzer(t, &stubSpeed{
		results: map[string]*speedResult{
			StrategyDesktop: {Score: 92},
			StrategyMobile: {Score: 71, Vitals: map[string]string{
				"lcp": "2.1 s", "fid": "120 ms", "cls": "0.02", "fcp": "1.4 s", "si": "3.0 s",
			}},
		},
	})

	report, err := a.AnalyzeSpeed(context.Background(), "https://example.com")
	require.NoError(t, err)

	require.NotNil(t, report.Performance)
	assert.Equal(t, 92, report.Performance.Score)
	assert.Equal(t, StrategyDesktop, report.Performance.Strategy)

	require.NotNil(t, report.Mobile)
	assert.Equal(t, 71, report.Mobile.Score)

	require.NotNil(t, report.CoreWebVitals)
	assert.Equal(t, "2.1 s", report.CoreWebVitals.LCP)
	assert.Equal(t, "0.02", report.CoreWebVitals.CLS)
}

func TestAnalyzeSpeedPartialFailure(t *testing.T) {
	a := speedAnalyzer(t, &stubSpeed{
		results: map[string]*speedResult{StrategyDesktop: {Score: 88}},
		errs:    map[string]error{StrategyMobile: fmt.Errorf("%w: upstream 500", ErrFetchFailure)},
	})

	report, err := a.AnalyzeSpeed(context.Background(), "https://example.com")
	require.NoError(t, err, "one strategy succeeding must not be an error")

	require.NotNil(t, report.Performance)
	assert.Nil(t, report.Mobile)
	assert.Nil(t, report.CoreWebVitals, "vitals come from the mobile strategy only")
}

func TestAnalyzeSpeedBothFail(t *testing.T) {
	a := speedAnalyzer(t, &stubSpeed{
		errs: map[string]error{
			StrategyDesktop: fmt.Errorf("%w: timeout", ErrFetchFailure),
			StrategyMobile:  fmt.Errorf("%w: timeout", ErrFetchFailure),
		},
	})

	_, err := a.AnalyzeSpeed(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrFetchFailure)
}

func TestAnalyzeSpeedMissingVitalsDefaultToNA(t *testing.T) {
	a := speedAnalyzer(t, &stubSpeed{
		results: map[string]*speedResult{
			StrategyMobile: {Score: 50, Vitals: map[string]string{"lcp": "3.2 s"}},
		},
		errs: map[string]error{StrategyDesktop: fmt.Errorf("%w: no desktop", ErrFetchFailure)},
	})

	report, err := a.AnalyzeSpeed(context.Background(), "https://example.com")
	require.NoError(t, err)

	require.NotNil(t, report.CoreWebVitals)
	assert.Equal(t, "3.2 s", report.CoreWebVitals.LCP)
	assert.Equal(t, "N/A", report.CoreWebVitals.FID)
	assert.Equal(t, "N/A", report.CoreWebVitals.CLS)
	assert.Equal(t, "N/A", report.CoreWebVitals.FCP)
	assert.Equal(t, "N/A", report.CoreWebVitals.SI)
}

func TestPageSpeedClientMissingKey(t *testing.T) {
	client := newPageSpeedClient("")

	_, err := client.FetchSpeedScore(context.Background(), "https://example.com", StrategyMobile)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestPageSpeedClientFetch(t *testing.T) {
	payload := `{
		"lighthouseResult": {
			"categories": {"performance": {"score": 0.93}},
			"audits": {
				"largest-contentful-paint": {"displayValue": "1.8 s"},
				"cumulative-layout-shift": {"displayValue": "0.01"}
			}
		}
	}`

	var gotQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(ts.Close)

	client := newPageSpeedClient("secret")
	client.endpoint = ts.URL

	result, err := client.FetchSpeedScore(context.Background(), "https://example.com", StrategyMobile)
	require.NoError(t, err)

	assert.Equal(t, 93, result.Score)
	assert.Equal(t, "1.8 s", result.Vitals["lcp"])
	assert.Equal(t, "0.01", result.Vitals["cls"])
	_, hasFID := result.Vitals["fid"]
	assert.False(t, hasFID)

	assert.Equal(t, []string{"https://example.com"}, gotQuery["url"])
	assert.Equal(t, []string{"mobile"}, gotQuery["strategy"])
	assert.Equal(t, []string{"secret"}, gotQuery["key"])
}

func TestPageSpeedClientUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(ts.Close)

	client := newPageSpeedClient("secret")
	client.endpoint = ts.URL

	_, err := client.FetchSpeedScore(context.Background(), "https://example.com", StrategyDesktop)
	assert.ErrorIs(t, err, ErrFetchFailure)
}
