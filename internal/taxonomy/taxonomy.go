package taxonomy

import (
	"fmt"
	"regexp"
)

// Experience level identifiers used across the engine.
const (
	LevelAny    = "any"
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

// Job type identifiers, in detection priority order.
const (
	TypeAny      = "any"
	TypeRemote   = "remote"
	TypeContract = "contract"
	TypePartTime = "part-time"
	TypeFullTime = "full-time"
)

// CompanyAny is the default company type when nothing was requested.
const CompanyAny = "any"

// SentinelKeyword is appended when a message carries a location and a generic
// job-seeking term but no concrete title or technology keyword.
const SentinelKeyword = "job opportunities"

// LevelTerms binds an experience level to its indicator terms.
type LevelTerms struct {
	Level string   `yaml:"level"`
	Terms []string `yaml:"terms"`
}

// SkillCategory groups related skill terms under a category name. Categories
// are ordered; scoring iterates them in the configured order so that terms
// appearing in several categories are credited deterministically.
type SkillCategory struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// TypePattern binds a job type to the pattern that detects it in free text.
type TypePattern struct {
	Type    string
	Pattern *regexp.Regexp
}

// Locality maps a lowercase place-name fragment to its canonical form.
type Locality struct {
	Term      string `yaml:"term"`
	Canonical string `yaml:"canonical"`
}

// AmbiguousPlace describes a place name shared by two localities. The term
// resolves to Canonical unless one of the exclusion Markers appears anywhere
// in the message, in which case it resolves to Alternate.
type AmbiguousPlace struct {
	Term      string   `yaml:"term"`
	Canonical string   `yaml:"canonical"`
	Alternate string   `yaml:"alternate"`
	Markers   []string `yaml:"markers"`
}

// Taxonomy is the set of static gazetteers consumed by the extractor and the
// scorer. It is built once at startup and is read-only afterwards, so a single
// instance is safe to share across goroutines.
type Taxonomy struct {
	skills        []SkillCategory
	skillSets     map[string]map[string]struct{}
	levels        []LevelTerms
	levelCues     []LevelTerms
	titleKeywords []string
	techKeywords  []string
	jobTypes      []TypePattern
	localities    []Locality
	ambiguous     []AmbiguousPlace
	excludeWords  map[string]struct{}
	generalTerms  []string
}

// New assembles a taxonomy from the provided config. All term lookups are
// case-sensitive over lowercase terms; callers lower their input first.
func New(cfg Config) (*Taxonomy, error) {
	if len(cfg.Skills) == 0 {
		return nil, fmt.Errorf("taxonomy: no skill categories configured")
	}
	if len(cfg.Levels) == 0 || len(cfg.LevelCues) == 0 {
		return nil, fmt.Errorf("taxonomy: no experience levels configured")
	}
	if len(cfg.TitleKeywords) == 0 && len(cfg.TechKeywords) == 0 {
		return nil, fmt.Errorf("taxonomy: no keyword lists configured")
	}

	t := &Taxonomy{
		skills:        cfg.Skills,
		skillSets:     make(map[string]map[string]struct{}, len(cfg.Skills)),
		levels:        cfg.Levels,
		levelCues:     cfg.LevelCues,
		titleKeywords: cfg.TitleKeywords,
		techKeywords:  cfg.TechKeywords,
		localities:    cfg.Localities,
		ambiguous:     cfg.Ambiguous,
		excludeWords:  make(map[string]struct{}, len(cfg.ExcludeWords)),
		generalTerms:  cfg.GeneralTerms,
	}

	for _, category := range cfg.Skills {
		set := make(map[string]struct{}, len(category.Terms))
		for _, term := range category.Terms {
			set[term] = struct{}{}
		}
		t.skillSets[category.Name] = set
	}

	for _, word := range cfg.ExcludeWords {
		t.excludeWords[word] = struct{}{}
	}

	for _, jt := range cfg.JobTypes {
		re, err := regexp.Compile(jt.Pattern)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: job type %q pattern: %w", jt.Type, err)
		}
		t.jobTypes = append(t.jobTypes, TypePattern{Type: jt.Type, Pattern: re})
	}

	return t, nil
}

// SkillCategories returns the skill categories in their configured order.
func (t *Taxonomy) SkillCategories() []SkillCategory {
	return t.skills
}

// CategoryHas reports whether the category contains the term.
func (t *Taxonomy) CategoryHas(category, term string) bool {
	_, ok := t.skillSets[category][term]
	return ok
}

// Levels returns experience levels with their indicator terms, in the fixed
// order the scorer scans them.
func (t *Taxonomy) Levels() []LevelTerms {
	return t.levels
}

// LevelCues returns the extraction cue sets, in detection priority order.
func (t *Taxonomy) LevelCues() []LevelTerms {
	return t.levelCues
}

// TitleKeywords returns the job title keyword list.
func (t *Taxonomy) TitleKeywords() []string {
	return t.titleKeywords
}

// TechKeywords returns the technology keyword list.
func (t *Taxonomy) TechKeywords() []string {
	return t.techKeywords
}

// JobTypes returns job type patterns in detection priority order.
func (t *Taxonomy) JobTypes() []TypePattern {
	return t.jobTypes
}

// Localities returns the known place-name gazetteer.
func (t *Taxonomy) Localities() []Locality {
	return t.localities
}

// AmbiguousPlaces returns place names needing exclusion-marker disambiguation.
func (t *Taxonomy) AmbiguousPlaces() []AmbiguousPlace {
	return t.ambiguous
}

// IsLocationWord reports whether the term is part of the location vocabulary
// and must not leak into keywords.
func (t *Taxonomy) IsLocationWord(term string) bool {
	_, ok := t.excludeWords[term]
	return ok
}

// GeneralTerms returns the generic job-seeking terms that trigger the
// sentinel keyword.
func (t *Taxonomy) GeneralTerms() []string {
	return t.generalTerms
}
