package analyzer

import (
	"fmt"
	"math"
)

// Score contributions from the fixed rule table.
const (
	robotsFoundPoints  = 50
	sitemapFoundPoints = 50
	securityHeaderStep = 20
	metaFindingStep    = 25
	maxScore           = 100
)

// computeScores derives the aggregate score set from whichever analyzer
// results are present. Components whose analyzer never ran stay at zero and
// are excluded from the overall mean, so a partial report is not penalized
// for checks that could not run.
func computeScores(r *AuditReport) ScoreSet {
	var s ScoreSet

	if r.Speed != nil {
		if r.Speed.Performance != nil {
			s.Performance = r.Speed.Performance.Score
		}
		switch {
		case r.Speed.Mobile != nil:
			s.Mobile = r.Speed.Mobile.Score
		case r.Speed.Performance != nil:
			s.Mobile = r.Speed.Performance.Score
		}
	}

	var technicalParts []int
	if r.Robots != nil {
		score := 0
		if r.Robots.RobotsTxt.Found {
			score += robotsFoundPoints
		}
		if r.Robots.Sitemap.Found {
			score += sitemapFoundPoints
		}
		technicalParts = append(technicalParts, score)
	}
	if r.Headers != nil {
		score := 0
		for _, h := range r.Headers.Security {
			if h.Status == StatusGood {
				score += securityHeaderStep
			}
		}
		technicalParts = append(technicalParts, min(score, maxScore))
	}
	s.Technical = mean(technicalParts)

	if r.Meta != nil {
		score := 0
		for _, f := range r.Meta {
			if f.Status == StatusGood {
				score += metaFindingStep
			}
		}
		s.Content = min(score, maxScore)
	}

	var nonZero []int
	for _, v := range []int{s.Technical, s.Content, s.Performance, s.Mobile} {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	s.Overall = mean(nonZero)

	return s
}

func mean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// buildRecommendations scans the present findings in a fixed order and emits
// one recommendation per non-good condition. No deduplication or ranking
// happens beyond the emission order.
func buildRecommendations(r *AuditReport) []Recommendation {
	var recs []Recommendation

	for _, f := range r.Meta {
		if f.Status == StatusGood {
			continue
		}
		recs = append(recs, Recommendation{
			Title:       fmt.Sprintf("Improve %s", f.Name),
			Description: f.Description,
			Priority:    priorityForStatus(f.Status),
			Category:    "content",
		})
	}

	if r.Speed != nil && r.Speed.Performance != nil {
		switch score := r.Speed.Performance.Score; {
		case score < performanceLowScore:
			recs = append(recs, Recommendation{
				Title:       "Improve page speed",
				Description: fmt.Sprintf("Performance score is %d; reduce render-blocking resources and optimize assets", score),
				Priority:    PriorityHigh,
				Category:    "performance",
			})
		case score < performanceOKScore:
			recs = append(recs, Recommendation{
				Title:       "Improve page speed",
				Description: fmt.Sprintf("Performance score is %d; there is room for optimization", score),
				Priority:    PriorityMedium,
				Category:    "performance",
			})
		}
	}

	if r.Headers != nil {
		for _, h := range r.Headers.Security {
			if h.Status == StatusGood {
				continue
			}
			recs = append(recs, Recommendation{
				Title:       fmt.Sprintf("Configure %s", h.Name),
				Description: h.Description,
				Priority:    priorityForStatus(h.Status),
				Category:    "security",
			})
		}
	}

	if r.Links != nil && r.Links.External.Broken > 0 {
		recs = append(recs, Recommendation{
			Title:       "Fix broken external links",
			Description: fmt.Sprintf("%d of the checked external links are broken", r.Links.External.Broken),
			Priority:    PriorityHigh,
			Category:    "links",
		})
	}

	if r.Robots != nil {
		if !r.Robots.RobotsTxt.Found {
			recs = append(recs, Recommendation{
				Title:       "Add a robots.txt file",
				Description: "No robots.txt was found at the site root",
				Priority:    PriorityMedium,
				Category:    "technical",
			})
		}
		if !r.Robots.Sitemap.Found {
			recs = append(recs, Recommendation{
				Title:       "Add an XML sitemap",
				Description: "No sitemap.xml was found at the site root",
				Priority:    PriorityMedium,
				Category:    "technical",
			})
		}
	}

	return recs
}

func priorityForStatus(s Status) Priority {
	if s == StatusError {
		return PriorityHigh
	}
	return PriorityMedium
}
