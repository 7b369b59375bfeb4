package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// nonNavigable lists href schemes that never lead to a fetchable page.
var nonNavigable = []string{"javascript:", "mailto:", "tel:"}

// AnalyzeLinks extracts every anchor from the page, classifies each as
// internal or external against the audited origin, and liveness-checks a
// bounded sample of each category. The external total covers the full
// discovered count; internal links carry no such total.
func (a *Analyzer) AnalyzeLinks(ctx context.Context, rawURL string) (*LinksReport, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, pageFetchTimeout)
	defer cancel()

	doc, err := a.fetcher.document(fetchCtx, rawURL)
	if err != nil {
		return nil, err
	}

	var internal, external []LinkRecord
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		record, ok := classifyAnchor(href, strings.TrimSpace(s.Text()), base)
		if !ok {
			return
		}
		if record.Type == LinkInternal {
			internal = append(internal, record)
		} else {
			external = append(external, record)
		}
	})

	externalTotal := len(external)

	report := &LinksReport{
		Internal: a.probeSample(ctx, internal),
		External: ExternalLinks{
			LinkGroup: a.probeSample(ctx, external),
			Total:     externalTotal,
		},
	}

	a.log.Debug("link analysis complete",
		zap.Int("internal", len(internal)),
		zap.Int("external", externalTotal),
		zap.Int("internal_broken", report.Internal.Broken),
		zap.Int("external_broken", report.External.Broken),
	)
	return report, nil
}

// classifyAnchor resolves an href against the page base and classifies it by
// hostname. Empty, fragment-only, non-navigable, and malformed hrefs are
// dropped.
func classifyAnchor(href, text string, base *url.URL) (LinkRecord, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return LinkRecord{}, false
	}
	lower := strings.ToLower(href)
	for _, scheme := range nonNavigable {
		if strings.HasPrefix(lower, scheme) {
			return LinkRecord{}, false
		}
	}

	// Protocol-relative links inherit the audited page's scheme.
	target := href
	if strings.HasPrefix(href, "//") {
		target = base.Scheme + ":" + href
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return LinkRecord{}, false
	}
	resolved := base.ResolveReference(parsed)

	linkType := LinkExternal
	if strings.EqualFold(resolved.Hostname(), base.Hostname()) {
		linkType = LinkInternal
	}

	return LinkRecord{
		Href:    href,
		Text:    text,
		FullURL: resolved.String(),
		Type:    linkType,
	}, true
}

// probeSample liveness-checks the first SampleLimit links in discovery order
// with at most Concurrency probes in flight, tolerating individual failures.
func (a *Analyzer) probeSample(ctx context.Context, links []LinkRecord) LinkGroup {
	sample := links
	if len(sample) > a.probeRules.SampleLimit {
		sample = sample[:a.probeRules.SampleLimit]
	}

	checked := make([]LinkRecord, len(sample))
	copy(checked, sample)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, a.probeRules.Concurrency)
	for i := range checked {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			probeCtx, cancel := context.WithTimeout(ctx, a.probeRules.Timeout)
			defer cancel()

			status, err := a.fetcher.probe(probeCtx, checked[i].FullURL)
			if err != nil || status >= 400 {
				checked[i].Status = LinkBroken
			} else {
				checked[i].Status = LinkWorking
			}
			checked[i].StatusCode = status
		}(i)
	}
	wg.Wait()

	group := LinkGroup{Links: checked, Status: StatusGood}
	for _, l := range checked {
		if l.Status == LinkBroken {
			group.Broken++
		} else {
			group.Working++
		}
	}
	if group.Broken > 0 {
		group.Status = StatusWarning
	}
	return group
}
