package analyzer

import "time"

// Status classifies a single finding.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Link classification and liveness values.
const (
	LinkInternal = "internal"
	LinkExternal = "external"
	LinkWorking  = "working"
	LinkBroken   = "broken"
)

// MetaTagFinding is one classified observation about a page's meta data.
type MetaTagFinding struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
	Length      int    `json:"length,omitempty"`
}

// LinkRecord describes one anchor discovered on the page.
type LinkRecord struct {
	Href       string `json:"href"`
	Text       string `json:"text"`
	FullURL    string `json:"fullUrl"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// LinkGroup summarizes the liveness-checked sample of one link category.
type LinkGroup struct {
	Links   []LinkRecord `json:"links"`
	Working int          `json:"working"`
	Broken  int          `json:"broken"`
	Status  Status       `json:"status"`
}

// ExternalLinks additionally reports the full discovered count, including
// links beyond the checked sample. Internal links carry no such total.
type ExternalLinks struct {
	LinkGroup
	Total int `json:"total"`
}

// LinksReport is the link analyzer's output.
type LinksReport struct {
	Internal LinkGroup     `json:"internal"`
	External ExternalLinks `json:"external"`
}

// RobotsTxtInfo describes the /robots.txt probe.
type RobotsTxtInfo struct {
	Found      bool     `json:"found"`
	Accessible bool     `json:"accessible"`
	Size       int      `json:"size"`
	Sitemaps   []string `json:"sitemaps"`
}

// SitemapInfo describes the /sitemap.xml probe.
type SitemapInfo struct {
	Found      bool   `json:"found"`
	Accessible bool   `json:"accessible"`
	URLCount   int    `json:"urlCount"`
	Format     string `json:"format,omitempty"`
}

// RobotsReport is the robots/sitemap analyzer's output.
type RobotsReport struct {
	RobotsTxt RobotsTxtInfo `json:"robotsTxt"`
	Sitemap   SitemapInfo   `json:"sitemap"`
}

// HeaderFinding is one classified observation about a response header.
type HeaderFinding struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

// HeadersReport is the headers analyzer's output.
type HeadersReport struct {
	Security []HeaderFinding `json:"security"`
	Caching  HeaderFinding   `json:"caching"`
}

// StrategyScore holds the numeric score for one PageSpeed strategy.
type StrategyScore struct {
	Score    int    `json:"score"`
	Strategy string `json:"strategy"`
}

// CoreWebVitals holds display strings for the mobile strategy's metrics.
type CoreWebVitals struct {
	LCP string `json:"lcp"`
	FID string `json:"fid"`
	CLS string `json:"cls"`
	FCP string `json:"fcp,omitempty"`
	SI  string `json:"si,omitempty"`
}

// SpeedReport is the speed analyzer's output. Either strategy may be absent
// when its upstream call failed.
type SpeedReport struct {
	Performance   *StrategyScore `json:"performance,omitempty"`
	Mobile        *StrategyScore `json:"mobile,omitempty"`
	CoreWebVitals *CoreWebVitals `json:"coreWebVitals,omitempty"`
}

// ScoreSet holds the aggregate scores, each in [0,100].
type ScoreSet struct {
	Overall     int `json:"overall"`
	Technical   int `json:"technical"`
	Content     int `json:"content"`
	Performance int `json:"performance"`
	Mobile      int `json:"mobile"`
}

// Recommendation is one prioritized improvement suggestion.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
}

// AuditReport is the root aggregate returned for one audit. Fields for
// analyzers that failed are absent; their failures appear in Errors.
type AuditReport struct {
	URL             string           `json:"url"`
	Timestamp       time.Time        `json:"timestamp"`
	Scores          ScoreSet         `json:"scores"`
	Meta            []MetaTagFinding `json:"meta,omitempty"`
	Speed           *SpeedReport     `json:"speed,omitempty"`
	Links           *LinksReport     `json:"links,omitempty"`
	Robots          *RobotsReport    `json:"robots,omitempty"`
	Headers         *HeadersReport   `json:"headers,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Errors          []string         `json:"errors,omitempty"`
}
