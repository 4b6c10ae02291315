package match

import (
	"fmt"
	"strings"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

// Reason thresholds: a field contributes a sentence only when its signal is
// strong enough to be worth explaining.
const (
	closeTitleThreshold   = 0.7
	partialTitleThreshold = 0.4
	locationThreshold     = 0.8
	experienceThreshold   = 0.8
)

// FallbackReason is emitted when no field contributed a specific reason, so
// the reasons list is never empty.
const FallbackReason = "General match based on search criteria"

// Reasons produces the human-readable justification sentences for the
// posting. The order is fixed: title, location, skills, experience.
func (s *Scorer) Reasons(req jobs.Requirements, job jobs.Job) []string {
	var reasons []string

	if len(req.Keywords) > 0 {
		display := strings.Join(req.Keywords, ", ")
		switch score := s.titleScore(req.Keywords, job.Title); {
		case score > closeTitleThreshold:
			reasons = append(reasons, fmt.Sprintf("Title closely matches '%s'", display))
		case score > partialTitleThreshold:
			reasons = append(reasons, fmt.Sprintf("Title partially matches '%s'", display))
		}
	}

	if req.Location != "" {
		if s.locationScore(req.Location, job.Location) > locationThreshold {
			reasons = append(reasons, fmt.Sprintf("Location matches '%s'", req.Location))
		}
	}

	if len(req.Skills) > 0 {
		text := searchText(job)
		var mentioned []string
		for _, skill := range req.Skills {
			if strings.Contains(text, strings.ToLower(skill)) {
				mentioned = append(mentioned, skill)
			}
		}
		if len(mentioned) > 0 {
			reasons = append(reasons, fmt.Sprintf("Mentions required skills: %s", strings.Join(mentioned, ", ")))
		}
	}

	if req.ExperienceLevel != taxonomy.LevelAny {
		if s.experienceScore(req.ExperienceLevel, job) > experienceThreshold {
			reasons = append(reasons, fmt.Sprintf("Matches %s level experience", req.ExperienceLevel))
		}
	}

	if len(reasons) == 0 {
		return []string{FallbackReason}
	}
	return reasons
}
