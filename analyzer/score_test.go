package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodFindings(n int) []MetaTagFinding {
	findings := make([]MetaTagFinding, n)
	for i := range findings {
		findings[i] = MetaTagFinding{Name: "F", Status: StatusGood}
	}
	return findings
}

func securityFindings(good int) *HeadersReport {
	report := &HeadersReport{Caching: HeaderFinding{Name: "Cache-Control", Status: StatusGood}}
	for i, rule := range SecurityHeaderRules {
		status := StatusError
		if i < good {
			status = StatusGood
		}
		report.Security = append(report.Security, HeaderFinding{Name: rule.Name, Status: status})
	}
	return report
}

func TestComputeScoresSpeed(t *testing.T) {
	t.Run("both strategies copy directly", func(t *testing.T) {
		s := computeScores(&AuditReport{Speed: &SpeedReport{
			Performance: &StrategyScore{Score: 90, Strategy: StrategyDesktop},
			Mobile:      &StrategyScore{Score: 60, Strategy: StrategyMobile},
		}})
		assert.Equal(t, 90, s.Performance)
		assert.Equal(t, 60, s.Mobile)
	})

	t.Run("mobile falls back to desktop", func(t *testing.T) {
		s := computeScores(&AuditReport{Speed: &SpeedReport{
			Performance: &StrategyScore{Score: 85, Strategy: StrategyDesktop},
		}})
		assert.Equal(t, 85, s.Performance)
		assert.Equal(t, 85, s.Mobile)
	})

	t.Run("absent speed leaves both at zero", func(t *testing.T) {
		s := computeScores(&AuditReport{})
		assert.Zero(t, s.Performance)
		assert.Zero(t, s.Mobile)
	})
}

func TestComputeScoresTechnical(t *testing.T) {
	t.Run("robots contributes 50 per found resource", func(t *testing.T) {
		s := computeScores(&AuditReport{Robots: &RobotsReport{
			RobotsTxt: RobotsTxtInfo{Found: true},
			Sitemap:   SitemapInfo{Found: true},
		}})
		assert.Equal(t, 100, s.Technical)
	})

	t.Run("headers contribute 20 per good security header", func(t *testing.T) {
		s := computeScores(&AuditReport{Headers: securityFindings(3)})
		assert.Equal(t, 60, s.Technical)
	})

	t.Run("mean of both when both present", func(t *testing.T) {
		s := computeScores(&AuditReport{
			Robots:  &RobotsReport{RobotsTxt: RobotsTxtInfo{Found: true}},
			Headers: securityFindings(4),
		})
		// robots 50, headers 80 -> 65
		assert.Equal(t, 65, s.Technical)
	})
}

func TestComputeScoresContent(t *testing.T) {
	t.Run("25 points per good finding", func(t *testing.T) {
		s := computeScores(&AuditReport{Meta: goodFindings(3)})
		assert.Equal(t, 75, s.Content)
	})

	t.Run("capped at 100", func(t *testing.T) {
		s := computeScores(&AuditReport{Meta: goodFindings(8)})
		assert.Equal(t, 100, s.Content)
	})
}

func TestComputeScoresOverallExcludesZeroComponents(t *testing.T) {
	s := computeScores(&AuditReport{
		Meta: goodFindings(4), // content 100
		Robots: &RobotsReport{ // technical 100
			RobotsTxt: RobotsTxtInfo{Found: true},
			Sitemap:   SitemapInfo{Found: true},
		},
		// speed never ran: performance and mobile stay 0 and are excluded
	})
	assert.Equal(t, 100, s.Overall)
}

func TestComputeScoresAllZero(t *testing.T) {
	s := computeScores(&AuditReport{})
	assert.Equal(t, ScoreSet{}, s)
}

func TestComputeScoresRange(t *testing.T) {
	reports := []*AuditReport{
		{},
		{Meta: goodFindings(8)},
		{Headers: securityFindings(4)},
		{Speed: &SpeedReport{Performance: &StrategyScore{Score: 100}}},
	}
	for _, r := range reports {
		s := computeScores(r)
		for _, v := range []int{s.Overall, s.Technical, s.Content, s.Performance, s.Mobile} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestBuildRecommendationsOrderAndPriorities(t *testing.T) {
	report := &AuditReport{
		Meta: []MetaTagFinding{
			{Name: "Title", Status: StatusError, Description: "Page is missing a title tag"},
			{Name: "Description", Status: StatusWarning, Description: "too short"},
			{Name: "Viewport", Status: StatusGood},
		},
		Speed: &SpeedReport{Performance: &StrategyScore{Score: 42, Strategy: StrategyDesktop}},
		Headers: &HeadersReport{Security: []HeaderFinding{
			{Name: "Strict-Transport-Security", Status: StatusError, Description: "missing"},
		}},
		Links: &LinksReport{External: ExternalLinks{LinkGroup: LinkGroup{Broken: 2}}},
		Robots: &RobotsReport{
			RobotsTxt: RobotsTxtInfo{Found: false},
			Sitemap:   SitemapInfo{Found: false},
		},
	}

	recs := buildRecommendations(report)
	require.Len(t, recs, 7)

	assert.Equal(t, "Improve Title", recs[0].Title)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Improve Description", recs[1].Title)
	assert.Equal(t, PriorityMedium, recs[1].Priority)

	assert.Equal(t, "Improve page speed", recs[2].Title)
	assert.Equal(t, PriorityHigh, recs[2].Priority)

	assert.Equal(t, "Configure Strict-Transport-Security", recs[3].Title)
	assert.Equal(t, PriorityHigh, recs[3].Priority)

	assert.Equal(t, "Fix broken external links", recs[4].Title)
	assert.Equal(t, PriorityHigh, recs[4].Priority)

	assert.Equal(t, "Add a robots.txt file", recs[5].Title)
	assert.Equal(t, PriorityMedium, recs[5].Priority)
	assert.Equal(t, "Add an XML sitemap", recs[6].Title)
	assert.Equal(t, PriorityMedium, recs[6].Priority)
}

func TestBuildRecommendationsModeratePerformance(t *testing.T) {
	report := &AuditReport{
		Speed: &SpeedReport{Performance: &StrategyScore{Score: 70}},
	}
	recs := buildRecommendations(report)
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityMedium, recs[0].Priority)
}

func TestBuildRecommendationsCleanReport(t *testing.T) {
	report := &AuditReport{
		Meta:  goodFindings(8),
		Speed: &SpeedReport{Performance: &StrategyScore{Score: 95}},
		Headers: &HeadersReport{
			Security: securityFindings(4).Security,
			Caching:  HeaderFinding{Status: StatusGood},
		},
		Links: &LinksReport{},
		Robots: &RobotsReport{
			RobotsTxt: RobotsTxtInfo{Found: true},
			Sitemap:   SitemapInfo{Found: true},
		},
	}
	assert.Empty(t, buildRecommendations(report))
}
