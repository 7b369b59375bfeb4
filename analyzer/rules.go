package analyzer

import "time"

// MetaRules holds the thresholds applied by the meta analyzer.
type MetaRules struct {
	TitleMin          int
	TitleMax          int
	DescriptionMin    int
	DescriptionMax    int
	H1TextMax         int
	RequiredOpenGraph []string
}

// DefaultMetaRules are the standard SEO thresholds.
var DefaultMetaRules = MetaRules{
	TitleMin:       30,
	TitleMax:       60,
	DescriptionMin: 120,
	DescriptionMax: 160,
	H1TextMax:      70,
	RequiredOpenGraph: []string{
		"og:title",
		"og:description",
		"og:image",
		"og:url",
	},
}

// HeaderRule describes one expected response header. Expected values are
// matched as case-insensitive substrings.
type HeaderRule struct {
	Name       string
	Expected   []string
	Suggestion string
}

// SecurityHeaderRules is the fixed reference list evaluated by the headers
// analyzer, in report order.
var SecurityHeaderRules = []HeaderRule{
	{
		Name:       "Strict-Transport-Security",
		Expected:   []string{"max-age"},
		Suggestion: "set max-age with a value of at least 31536000",
	},
	{
		Name:       "X-Content-Type-Options",
		Expected:   []string{"nosniff"},
		Suggestion: "set the value to nosniff",
	},
	{
		Name:       "X-Frame-Options",
		Expected:   []string{"deny", "sameorigin"},
		Suggestion: "set the value to DENY or SAMEORIGIN",
	},
	{
		Name:       "Content-Security-Policy",
		Expected:   []string{"default-src", "script-src"},
		Suggestion: "declare at least a default-src directive",
	},
}

// ProbeRules bounds the link liveness sampling.
type ProbeRules struct {
	SampleLimit int
	Concurrency int
	Timeout     time.Duration
}

// DefaultProbeRules checks at most 10 links per category, 10 at a time.
var DefaultProbeRules = ProbeRules{
	SampleLimit: 10,
	Concurrency: 10,
	Timeout:     10 * time.Second,
}

// Fetch policy shared by the analyzers.
const (
	pageFetchTimeout    = 15 * time.Second
	headerFetchTimeout  = 10 * time.Second
	robotsFetchTimeout  = 10 * time.Second
	speedFetchTimeout   = 30 * time.Second
	maxRedirects        = 5
	maxPageBody         = 10 << 20 // 10 MB
	maxHeaderProbeBody  = 1 << 10  // 1 KB GET fallback when HEAD is rejected
	maxRobotsBody       = 512 << 10
	defaultUserAgent    = "SiteAuditBot/1.0"
	performanceLowScore = 50
	performanceOKScore  = 80
)
