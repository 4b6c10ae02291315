// Package extract turns a free-text job-search message into structured
// search requirements. The extraction is rule based and total: any input,
// including the empty string, yields a fully populated Requirements value.
package extract

import (
	"strings"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

// locationCues are the prepositions that introduce a place name when the
// gazetteer has no match. Tried in order, first hit wins.
var locationCues = []string{"in ", "at ", "near ", "from "}

// maxCueWindow bounds how far past a cue the raw location guess may reach.
const maxCueWindow = 50

// maxCueTokens bounds how many tokens a raw location guess may keep.
const maxCueTokens = 3

type Extractor struct {
	tax *taxonomy.Taxonomy
}

func New(tax *taxonomy.Taxonomy) *Extractor {
	return &Extractor{tax: tax}
}

// Extract parses the message into requirements. It never fails; irregular
// input degrades to defaults.
func (e *Extractor) Extract(message string) jobs.Requirements {
	lower := strings.ToLower(message)

	location := e.resolveLocation(message, lower)
	keywords := e.extractKeywords(lower, location)

	req := jobs.Requirements{
		Keywords:        keywords,
		Location:        location,
		ExperienceLevel: e.detectLevel(lower),
		JobType:         e.detectJobType(lower),
		Skills:          append([]string{}, keywords...),
		CompanyType:     taxonomy.CompanyAny,
	}
	req.Normalize()
	return req
}

// resolveLocation tries, in priority order: the locality gazetteer, the
// ambiguous-place table, and finally a raw guess after a preposition cue.
func (e *Extractor) resolveLocation(message, lower string) string {
	for _, loc := range e.tax.Localities() {
		if strings.Contains(lower, loc.Term) {
			return loc.Canonical
		}
	}

	for _, place := range e.tax.AmbiguousPlaces() {
		if !strings.Contains(lower, place.Term) {
			continue
		}
		// Any marker anywhere in the message flips the interpretation,
		// regardless of where it sits relative to the place name.
		for _, marker := range place.Markers {
			if strings.Contains(lower, marker) {
				return place.Alternate
			}
		}
		return place.Canonical
	}

	for _, cue := range locationCues {
		idx := strings.Index(lower, cue)
		if idx < 0 {
			continue
		}
		return rawLocationGuess(message, idx+len(cue))
	}

	return ""
}

// rawLocationGuess takes up to maxCueTokens tokens from the original-case
// message after the cue and trims trailing punctuation.
func rawLocationGuess(message string, start int) string {
	if start >= len(message) {
		return ""
	}

	window := []rune(message[start:])
	if len(window) > maxCueWindow {
		window = window[:maxCueWindow]
	}

	tokens := strings.Fields(string(window))
	if len(tokens) > maxCueTokens {
		tokens = tokens[:maxCueTokens]
	}

	return strings.Trim(strings.Join(tokens, " "), ",.!?")
}

// extractKeywords scans the title and technology keyword lists, skipping any
// term that belongs to the location vocabulary. When nothing matched but the
// message names a location and a generic job-seeking term, a single sentinel
// keyword marks the generic search intent.
func (e *Extractor) extractKeywords(lower, location string) []string {
	keywords := []string{}

	for _, kw := range e.tax.TitleKeywords() {
		if strings.Contains(lower, kw) && !e.tax.IsLocationWord(kw) {
			keywords = append(keywords, kw)
		}
	}

	for _, kw := range e.tax.TechKeywords() {
		if strings.Contains(lower, kw) && !e.tax.IsLocationWord(kw) {
			keywords = append(keywords, kw)
		}
	}

	if len(keywords) == 0 && location != "" {
		for _, term := range e.tax.GeneralTerms() {
			if strings.Contains(lower, term) {
				keywords = append(keywords, taxonomy.SentinelKeyword)
				break
			}
		}
	}

	return keywords
}

func (e *Extractor) detectLevel(lower string) string {
	for _, cues := range e.tax.LevelCues() {
		for _, term := range cues.Terms {
			if strings.Contains(lower, term) {
				return cues.Level
			}
		}
	}
	return taxonomy.LevelAny
}

func (e *Extractor) detectJobType(lower string) string {
	for _, jt := range e.tax.JobTypes() {
		if jt.Pattern.MatchString(lower) {
			return jt.Type
		}
	}
	return taxonomy.TypeAny
}
