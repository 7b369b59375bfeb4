package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// newTestAnalyzer builds an Analyzer that can reach httptest servers on
// localhost (no private-address blocking).
func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(Options{
		BlockPrivateAddresses: false,
		Logger:                zap.NewNop(),
	})
}

// serveHTML starts a test server answering every path with the given page.
func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// stubSpeed is a speedSource with canned per-strategy outcomes.
type stubSpeed struct {
	results map[string]*speedResult
	errs    map[string]error
}

func (s *stubSpeed) FetchSpeedScore(_ context.Context, _, strategy string) (*speedResult, error) {
	if err, ok := s.errs[strategy]; ok {
		return nil, err
	}
	if res, ok := s.results[strategy]; ok {
		return res, nil
	}
	return nil, fmt.Errorf("%w: no stubbed result for %s", ErrFetchFailure, strategy)
}
