package match

import (
	"math"
	"testing"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	return NewScorer(taxonomy.Default())
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreBaseline(t *testing.T) {
	req := jobs.Requirements{}
	req.Normalize()

	job := jobs.Job{
		Title:       "Accountant",
		Location:    "Paris",
		Description: "bookkeeping and reporting",
	}

	total, breakdown := newTestScorer(t).Score(req, job)

	if !almostEqual(breakdown.Title, neutralTitleScore) {
		t.Fatalf("expected neutral title score, got %v", breakdown.Title)
	}
	if !almostEqual(breakdown.Location, 1.0) {
		t.Fatalf("expected full location score, got %v", breakdown.Location)
	}
	if !almostEqual(breakdown.Skills, 1.0) {
		t.Fatalf("expected full skills score, got %v", breakdown.Skills)
	}
	if !almostEqual(breakdown.Experience, 1.0) {
		t.Fatalf("expected full experience score, got %v", breakdown.Experience)
	}
	if !almostEqual(total, 0.8) {
		t.Fatalf("expected baseline total 0.8, got %v", total)
	}
}

func TestScorePerfectMatch(t *testing.T) {
	req := jobs.Requirements{
		Keywords:        []string{"python", "developer"},
		Location:        "Georgia (country)",
		ExperienceLevel: taxonomy.LevelSenior,
		Skills:          []string{"python", "developer"},
	}
	req.Normalize()

	job := jobs.Job{
		Title:       "Senior Python Developer",
		Location:    "Tbilisi, Georgia (country)",
		Description: "We need a senior python developer",
	}

	total, breakdown := newTestScorer(t).Score(req, job)

	if !almostEqual(total, 1.0) {
		t.Fatalf("expected a perfect total, got %v (breakdown %+v)", total, breakdown)
	}
}

func TestTitleScore(t *testing.T) {
	s := newTestScorer(t)

	if got := s.titleScore(nil, "Senior Developer"); !almostEqual(got, neutralTitleScore) {
		t.Fatalf("expected neutral score for no keywords, got %v", got)
	}
	if got := s.titleScore([]string{"python"}, ""); !almostEqual(got, neutralTitleScore) {
		t.Fatalf("expected neutral score for empty title, got %v", got)
	}
	if got := s.titleScore([]string{"Python", "Developer"}, "Senior Python Developer"); !almostEqual(got, 1.0) {
		t.Fatalf("expected full score for direct hits, got %v", got)
	}

	// A fuzzy-only match stays below a full direct hit.
	got := s.titleScore([]string{"python"}, "Florist")
	if got < 0 || got > fuzzyTitleBlend {
		t.Fatalf("expected fuzzy-only score within [0, %v], got %v", fuzzyTitleBlend, got)
	}
}

func TestLocationScore(t *testing.T) {
	s := newTestScorer(t)

	cases := []struct {
		name     string
		required string
		posted   string
		want     float64
	}{
		{"no requirement", "", "Tbilisi", 1.0},
		{"missing posted", "Tbilisi", "", missingLocationCredit},
		{"remote on remote", "remote", "Remote, Worldwide", 1.0},
		{"remote on onsite", "remote", "Tbilisi, Georgia (country)", onsitePenalty},
		{"substring", "Georgia (country)", "Tbilisi, Georgia (country)", 1.0},
		{"case insensitive", "tbilisi", "Tbilisi, Georgia (country)", 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.locationScore(tc.required, tc.posted); !almostEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSkillsScore(t *testing.T) {
	s := newTestScorer(t)

	cases := []struct {
		name   string
		skills []string
		job    jobs.Job
		want   float64
	}{
		{
			name:   "no requirement",
			skills: nil,
			job:    jobs.Job{Description: "anything"},
			want:   1.0,
		},
		{
			name:   "verbatim",
			skills: []string{"python"},
			job:    jobs.Job{Description: "strong python experience"},
			want:   1.0,
		},
		{
			name:   "related category",
			skills: []string{"python"},
			job:    jobs.Job{Description: "experience with rust"},
			want:   relatedSkillCredit,
		},
		{
			name:   "unrelated",
			skills: []string{"python"},
			job:    jobs.Job{Description: "florist arranging flowers"},
			want:   0.0,
		},
		{
			// swift belongs to both programming and mobile, and each
			// category can contribute its credit.
			name:   "multi category credit",
			skills: []string{"swift"},
			job:    jobs.Job{Description: "rust services and flutter apps"},
			want:   1.0,
		},
		{
			name:   "all verbatim",
			skills: []string{"python", "react"},
			job:    jobs.Job{Title: "Python React Developer", Description: "python react django flask"},
			want:   1.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.skillsScore(tc.skills, tc.job); !almostEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestExperienceScore(t *testing.T) {
	s := newTestScorer(t)

	cases := []struct {
		name     string
		required string
		job      jobs.Job
		want     float64
	}{
		{"any requirement", taxonomy.LevelAny, jobs.Job{Description: "senior role"}, 1.0},
		{"exact", taxonomy.LevelSenior, jobs.Job{Description: "senior position"}, 1.0},
		{"posting mid is adjacent", taxonomy.LevelSenior, jobs.Job{Description: "mid level position"}, adjacentLevelCredit},
		{"required mid is adjacent", taxonomy.LevelMid, jobs.Job{Description: "senior position"}, adjacentLevelCredit},
		{"mismatch", taxonomy.LevelEntry, jobs.Job{Description: "senior position"}, mismatchedLevelCredit},
		{"no level stated", taxonomy.LevelSenior, jobs.Job{Description: "great team"}, unknownLevelCredit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.experienceScore(tc.required, tc.job); !almostEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	s := newTestScorer(t)

	reqs := []jobs.Requirements{
		{},
		{Keywords: []string{"python"}, Location: "remote", ExperienceLevel: taxonomy.LevelSenior},
		{Keywords: []string{"devops", "kubernetes"}, Location: "Tbilisi", ExperienceLevel: taxonomy.LevelEntry},
	}
	postings := []jobs.Job{
		{},
		{Title: "Senior Python Developer", Location: "Remote", Description: "python docker kubernetes"},
		{Title: "Florist", Location: "Paris", Description: "flowers"},
	}

	for _, req := range reqs {
		req.Normalize()
		for _, job := range postings {
			total, breakdown := s.Score(req, job)
			if total < 0 || total > 1 {
				t.Fatalf("total out of bounds: %v (req %+v, job %+v)", total, req, job)
			}
			for _, sub := range []float64{breakdown.Title, breakdown.Location, breakdown.Skills, breakdown.Experience} {
				if sub < 0 || sub > 1 {
					t.Fatalf("subscore out of bounds: %+v", breakdown)
				}
			}
		}
	}
}

func TestBreakdownTotalWeighting(t *testing.T) {
	full := Breakdown{Title: 1, Location: 1, Skills: 1, Experience: 1}
	if got := full.Total(); !almostEqual(got, 1.0) {
		t.Fatalf("expected weights to sum to 1.0, got %v", got)
	}

	mixed := Breakdown{Title: 0.5, Location: 0.7, Skills: 0.3, Experience: 0.8}
	want := 0.5*WeightTitle + 0.7*WeightLocation + 0.3*WeightSkills + 0.8*WeightExperience
	if got := mixed.Total(); !almostEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
