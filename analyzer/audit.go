package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunAudit validates the URL, runs the five analyzers concurrently, and
// merges whatever succeeded into one report. The join waits for every
// analyzer to settle; one failing never cancels the others. Each failure
// becomes an entry in the report's Errors list and its section stays absent.
func (a *Analyzer) RunAudit(ctx context.Context, rawURL string) (*AuditReport, error) {
	if err := validateAuditURL(rawURL); err != nil {
		return nil, err
	}

	var (
		wg sync.WaitGroup

		meta       []MetaTagFinding
		speed      *SpeedReport
		links      *LinksReport
		robots     *RobotsReport
		headers    *HeadersReport
		metaErr    error
		speedErr   error
		linksErr   error
		robotsErr  error
		headersErr error
	)

	// settle runs one analyzer to completion, converting a panic into that
	// analyzer's error so a single misbehaving check cannot take down the
	// process.
	settle := func(errp *error, run func() error) {
		defer wg.Done()
		defer recoverToError(errp)
		*errp = run()
	}

	wg.Add(5)
	go settle(&metaErr, func() (err error) { meta, err = a.AnalyzeMeta(ctx, rawURL); return })
	go settle(&speedErr, func() (err error) { speed, err = a.AnalyzeSpeed(ctx, rawURL); return })
	go settle(&linksErr, func() (err error) { links, err = a.AnalyzeLinks(ctx, rawURL); return })
	go settle(&robotsErr, func() (err error) { robots, err = a.AnalyzeRobots(ctx, rawURL); return })
	go settle(&headersErr, func() (err error) { headers, err = a.AnalyzeHeaders(ctx, rawURL); return })
	wg.Wait()

	report := &AuditReport{
		URL:       rawURL,
		Timestamp: time.Now().UTC(),
	}

	collect := func(name string, err error, apply func()) {
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s analysis failed: %v", name, err))
			a.log.Warn("analyzer failed", zap.String("analyzer", name), zap.String("url", rawURL), zap.Error(err))
			return
		}
		apply()
	}

	collect("Meta", metaErr, func() { report.Meta = meta })
	collect("Speed", speedErr, func() { report.Speed = speed })
	collect("Links", linksErr, func() { report.Links = links })
	collect("Robots", robotsErr, func() { report.Robots = robots })
	collect("Headers", headersErr, func() { report.Headers = headers })

	report.Scores = computeScores(report)
	report.Recommendations = buildRecommendations(report)

	return report, nil
}

// recoverToError captures a panic from the surrounding goroutine and stores
// it as an error.
func recoverToError(errp *error) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("unexpected panic: %v", r)
	}
}

// validateAuditURL rejects anything that is not an absolute http(s) URL
// before any network call is made.
func validateAuditURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: URL scheme must be http or https", ErrInvalidInput)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: URL has no host", ErrInvalidInput)
	}
	return nil
}
