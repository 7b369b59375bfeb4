package analyzer

import (
	"context"
	"fmt"
	"strings"
)

// AnalyzeHeaders inspects the target's response headers against the fixed
// security reference list plus a caching check. Headers are evaluated even
// on error responses; only a total fetch failure (HEAD and the GET fallback
// both failing) aborts the analyzer.
func (a *Analyzer) AnalyzeHeaders(ctx context.Context, rawURL string) (*HeadersReport, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, headerFetchTimeout)
	defer cancel()

	header, _, err := a.fetcher.headers(fetchCtx, rawURL)
	if err != nil {
		return nil, err
	}

	report := &HeadersReport{
		Security: make([]HeaderFinding, 0, len(a.headerRules)),
	}

	for _, rule := range a.headerRules {
		finding := HeaderFinding{Name: rule.Name}
		value := header.Get(rule.Name)

		switch {
		case value == "":
			finding.Status = StatusError
			finding.Description = fmt.Sprintf("%s header is missing", rule.Name)
		case !matchesExpected(value, rule.Expected):
			finding.Status = StatusWarning
			finding.Description = fmt.Sprintf("%s is set but not as recommended: %s", rule.Name, rule.Suggestion)
			finding.Value = value
		default:
			finding.Status = StatusGood
			finding.Description = fmt.Sprintf("%s is configured", rule.Name)
			finding.Value = value
		}
		report.Security = append(report.Security, finding)
	}

	cacheControl := header.Get("Cache-Control")
	if cacheControl == "" {
		report.Caching = HeaderFinding{
			Name:        "Cache-Control",
			Status:      StatusWarning,
			Description: "Cache-Control header is missing",
		}
	} else {
		report.Caching = HeaderFinding{
			Name:        "Cache-Control",
			Status:      StatusGood,
			Description: "Cache-Control is configured",
			Value:       cacheControl,
		}
	}

	return report, nil
}

// matchesExpected reports whether the header value contains any of the
// expected values, compared case-insensitively.
func matchesExpected(value string, expected []string) bool {
	lower := strings.ToLower(value)
	for _, want := range expected {
		if strings.Contains(lower, strings.ToLower(want)) {
			return true
		}
	}
	return false
}
