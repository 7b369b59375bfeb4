package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
)

// PageSpeed strategies.
const (
	StrategyDesktop = "desktop"
	StrategyMobile  = "mobile"
)

const defaultPageSpeedEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// speedSource fetches a performance score and Core Web Vitals display
// strings for one strategy. It exists so tests can stub the external API.
type speedSource interface {
	FetchSpeedScore(ctx context.Context, pageURL, strategy string) (*speedResult, error)
}

// speedResult is one strategy's outcome from the scoring API.
type speedResult struct {
	Score  int
	Vitals map[string]string
}

// AnalyzeSpeed queries the external scoring API for the desktop and mobile
// strategies. A missing credential is a hard failure; a single strategy
// failing yields a partial report, and only both failing is an error.
// Core Web Vitals come from the mobile result alone.
func (a *Analyzer) AnalyzeSpeed(ctx context.Context, rawURL string) (*SpeedReport, error) {
	type outcome struct {
		strategy string
		result   *speedResult
		err      error
	}

	results := make(chan outcome, 2)
	for _, strategy := range []string{StrategyDesktop, StrategyMobile} {
		go func(strategy string) {
			callCtx, cancel := context.WithTimeout(ctx, speedFetchTimeout)
			defer cancel()

			var res *speedResult
			var err error
			defer func() {
				results <- outcome{strategy: strategy, result: res, err: err}
			}()
			defer recoverToError(&err)

			res, err = a.speed.FetchSpeedScore(callCtx, rawURL, strategy)
		}(strategy)
	}

	report := &SpeedReport{}
	var firstErr error
	for i := 0; i < 2; i++ {
		o := <-results
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		score := &StrategyScore{Score: o.result.Score, Strategy: o.strategy}
		if o.strategy == StrategyDesktop {
			report.Performance = score
		} else {
			report.Mobile = score
			report.CoreWebVitals = vitalsFromResult(o.result)
		}
	}

	if report.Performance == nil && report.Mobile == nil {
		return nil, firstErr
	}
	return report, nil
}

func vitalsFromResult(res *speedResult) *CoreWebVitals {
	get := func(key string) string {
		if v, ok := res.Vitals[key]; ok && v != "" {
			return v
		}
		return "N/A"
	}
	return &CoreWebVitals{
		LCP: get("lcp"),
		FID: get("fid"),
		CLS: get("cls"),
		FCP: get("fcp"),
		SI:  get("si"),
	}
}

// pageSpeedClient calls the PageSpeed Insights API.
type pageSpeedClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func newPageSpeedClient(apiKey string) *pageSpeedClient {
	return &pageSpeedClient{
		apiKey:   apiKey,
		endpoint: defaultPageSpeedEndpoint,
		client:   &http.Client{Timeout: speedFetchTimeout},
	}
}

// pageSpeedResponse mirrors the slice of the PSI payload we consume.
type pageSpeedResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			DisplayValue string `json:"displayValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// auditKeys maps our vital names to PSI audit identifiers. FID is
// approximated by the max-potential-fid audit.
var auditKeys = map[string]string{
	"lcp": "largest-contentful-paint",
	"fid": "max-potential-fid",
	"cls": "cumulative-layout-shift",
	"fcp": "first-contentful-paint",
	"si":  "speed-index",
}

func (c *pageSpeedClient) FetchSpeedScore(ctx context.Context, pageURL, strategy string) (*speedResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: PageSpeed API key is not configured", ErrConfigMissing)
	}

	query := url.Values{}
	query.Set("url", pageURL)
	query.Set("strategy", strategy)
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: scoring API returned status %d", ErrFetchFailure, resp.StatusCode)
	}

	var payload pageSpeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	result := &speedResult{
		Score:  int(math.Round(payload.LighthouseResult.Categories.Performance.Score * 100)),
		Vitals: make(map[string]string, len(auditKeys)),
	}
	for name, key := range auditKeys {
		if audit, ok := payload.LighthouseResult.Audits[key]; ok {
			result.Vitals[name] = audit.DisplayValue
		}
	}
	return result, nil
}
