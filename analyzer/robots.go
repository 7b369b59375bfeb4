package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
)

// AnalyzeRobots probes the audited origin's /robots.txt and /sitemap.xml.
// The two probes fail independently: an unreachable or non-2xx resource
// yields a not-found result for that probe only, never an analyzer error.
func (a *Analyzer) AnalyzeRobots(ctx context.Context, rawURL string) (*RobotsReport, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	origin := base.Scheme + "://" + base.Host

	return &RobotsReport{
		RobotsTxt: a.probeRobotsTxt(ctx, origin+"/robots.txt"),
		Sitemap:   a.probeSitemap(ctx, origin+"/sitemap.xml"),
	}, nil
}

func (a *Analyzer) probeRobotsTxt(ctx context.Context, robotsURL string) RobotsTxtInfo {
	info := RobotsTxtInfo{Sitemaps: []string{}}

	fetchCtx, cancel := context.WithTimeout(ctx, robotsFetchTimeout)
	defer cancel()

	body, status, _, err := a.fetcher.get(fetchCtx, robotsURL, maxRobotsBody)
	if err != nil || status < 200 || status > 299 {
		return info
	}

	info.Found = true
	info.Accessible = true
	info.Size = len(body)

	// The parser handles case-insensitive directives and inline comments.
	data, err := robotstxt.FromBytes(body)
	if err == nil {
		info.Sitemaps = append(info.Sitemaps, data.Sitemaps...)
	}
	return info
}

func (a *Analyzer) probeSitemap(ctx context.Context, sitemapURL string) SitemapInfo {
	var info SitemapInfo

	fetchCtx, cancel := context.WithTimeout(ctx, robotsFetchTimeout)
	defer cancel()

	body, status, header, err := a.fetcher.get(fetchCtx, sitemapURL, maxRobotsBody)
	if err != nil || status < 200 || status > 299 {
		return info
	}

	info.Found = true
	info.Accessible = true

	content := string(body)
	if strings.Contains(header.Get("Content-Type"), "xml") || strings.Contains(content, "<?xml") {
		info.Format = "xml"
		info.URLCount = countXMLSitemapURLs(content)
	} else {
		info.Format = "text"
		info.URLCount = countTextSitemapURLs(content)
	}
	return info
}

// countXMLSitemapURLs takes the larger of the <url> and <loc> tag counts, a
// heuristic that tolerates malformed documents.
func countXMLSitemapURLs(content string) int {
	urls := strings.Count(content, "<url>")
	locs := strings.Count(content, "<loc>")
	return max(urls, locs)
}

// countTextSitemapURLs counts lines that are a bare absolute http(s) URL.
func countTextSitemapURLs(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
			continue
		}
		if _, err := url.Parse(line); err == nil {
			count++
		}
	}
	return count
}
