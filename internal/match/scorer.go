// Package match scores job postings against extracted search requirements.
// Scoring is a pure function over the immutable taxonomy and its arguments:
// it never fails, and missing posting fields are treated as empty strings.
package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

// Field weights. They sum to 1.0 and are always fully applied, so totals are
// comparable across postings.
const (
	WeightTitle      = 0.4
	WeightLocation   = 0.2
	WeightSkills     = 0.25
	WeightExperience = 0.15
)

// Calibration constants inherited from the reference behavior. They were
// chosen empirically; treat them as a tuning surface, not derived values.
const (
	// neutralTitleScore applies when either side carries no title signal.
	neutralTitleScore = 0.5
	// fuzzyTitleBlend caps a fuzzy-only title match below a perfect direct hit.
	fuzzyTitleBlend = 0.8
	// missingLocationCredit applies when the posting states no location.
	missingLocationCredit = 0.7
	// onsitePenalty applies to non-remote postings for remote-only searches.
	onsitePenalty = 0.3
	// relatedSkillCredit is the partial credit for a same-category skill hit.
	relatedSkillCredit = 0.5
	// adjacentLevelCredit applies when the stated level neighbors the
	// requested one (mid against entry or senior, and vice versa).
	adjacentLevelCredit = 0.7
	// mismatchedLevelCredit applies when the stated level is unrelated.
	mismatchedLevelCredit = 0.3
	// unknownLevelCredit applies when the posting states no level at all;
	// absence is not treated as a mismatch.
	unknownLevelCredit = 0.8
)

// Breakdown carries the per-field subscores, each in [0,1].
type Breakdown struct {
	Title      float64 `json:"title"`
	Location   float64 `json:"location"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
}

// Total folds the subscores into the weighted total.
func (b Breakdown) Total() float64 {
	return b.Title*WeightTitle +
		b.Location*WeightLocation +
		b.Skills*WeightSkills +
		b.Experience*WeightExperience
}

type Scorer struct {
	tax *taxonomy.Taxonomy
}

func NewScorer(tax *taxonomy.Taxonomy) *Scorer {
	return &Scorer{tax: tax}
}

// Score computes the weighted total and the per-field breakdown for the
// posting against the requirements.
func (s *Scorer) Score(req jobs.Requirements, job jobs.Job) (float64, Breakdown) {
	breakdown := Breakdown{
		Title:      s.titleScore(req.Keywords, job.Title),
		Location:   s.locationScore(req.Location, job.Location),
		Skills:     s.skillsScore(req.Skills, job),
		Experience: s.experienceScore(req.ExperienceLevel, job),
	}
	return breakdown.Total(), breakdown
}

// titleScore blends exact keyword hits with a fuzzy comparison of the whole
// keyword phrase, rewarding direct substring matches fully while letting
// near-miss phrasing score through similarity, capped by fuzzyTitleBlend.
func (s *Scorer) titleScore(keywords []string, title string) float64 {
	if len(keywords) == 0 || title == "" {
		return neutralTitleScore
	}

	titleLower := strings.ToLower(title)

	matches := 0
	var phrase strings.Builder
	for i, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(titleLower, kw) {
			matches++
		}
		if i > 0 {
			phrase.WriteString(" ")
		}
		phrase.WriteString(kw)
	}

	direct := float64(matches) / float64(len(keywords))
	fuzz := similarity(titleLower, phrase.String())

	return max(direct, fuzz*fuzzyTitleBlend)
}

func (s *Scorer) locationScore(required, posted string) float64 {
	if required == "" {
		return 1.0
	}
	if posted == "" {
		return missingLocationCredit
	}

	requiredLower := strings.ToLower(required)
	postedLower := strings.ToLower(posted)

	if strings.Contains(requiredLower, "remote") {
		if strings.Contains(postedLower, "remote") {
			return 1.0
		}
		return onsitePenalty
	}

	if strings.Contains(postedLower, requiredLower) {
		return 1.0
	}

	return similarity(postedLower, requiredLower)
}

// skillsScore grants full credit for a verbatim skill mention and partial
// credit when another term from the same category appears instead.
func (s *Scorer) skillsScore(required []string, job jobs.Job) float64 {
	if len(required) == 0 {
		return 1.0
	}

	text := searchText(job)

	score := 0.0
	for _, skill := range required {
		skill = strings.ToLower(skill)
		if strings.Contains(text, skill) {
			score++
			continue
		}
		for _, category := range s.tax.SkillCategories() {
			if !s.tax.CategoryHas(category.Name, skill) {
				continue
			}
			for _, related := range category.Terms {
				if strings.Contains(text, related) {
					score += relatedSkillCredit
					break
				}
			}
		}
	}

	return min(score/float64(len(required)), 1.0)
}

// experienceScore compares the first level indicator found in the posting
// against the requested level. The level scan order is fixed so the result
// is deterministic when a posting mentions several levels.
func (s *Scorer) experienceScore(required string, job jobs.Job) float64 {
	if required == taxonomy.LevelAny {
		return 1.0
	}

	text := searchText(job)

	for _, level := range s.tax.Levels() {
		for _, term := range level.Terms {
			if !strings.Contains(text, term) {
				continue
			}
			switch {
			case level.Level == required:
				return 1.0
			case level.Level == taxonomy.LevelMid:
				return adjacentLevelCredit
			case required == taxonomy.LevelMid:
				return adjacentLevelCredit
			default:
				return mismatchedLevelCredit
			}
		}
	}

	return unknownLevelCredit
}

func searchText(job jobs.Job) string {
	return strings.ToLower(job.Title + " " + job.Description)
}

// similarity is the partial-ratio fuzzy capability: a [0,1] score tolerant of
// substring and word-order differences.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(fuzzy.PartialRatio(a, b)) / 100.0
}
