package search

import (
	"fmt"
	"strings"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

const noMatchesGeorgia = "I searched for jobs in Georgia (country) based on your criteria but didn't find any exact matches. " +
	"Georgia's job market is growing, especially in Tbilisi's tech sector. You might want to try:\n" +
	"- Checking major Georgian companies like TBC Bank, Bank of Georgia, or Wissol\n" +
	"- Looking for remote opportunities with international companies\n" +
	"- Broadening your search to include Batumi or other cities\n" +
	"- Searching on hr.ge or jobs.ge directly"

const noMatchesGeneric = "I searched for jobs based on your criteria but didn't find any exact matches. " +
	"You might want to try broadening your search terms or checking different locations."

const georgiaContext = "\n\nAbout working in Georgia (country):\n" +
	"- Major tech hub: Tbilisi with a growing startup ecosystem\n" +
	"- Key employers: TBC Bank, Bank of Georgia, international companies\n" +
	"- Languages: Georgian (ქართული) + English often required for tech roles\n" +
	"- Currency: Georgian Lari (GEL)\n" +
	"- Time zone: Georgia Standard Time (UTC+4)"

// Respond builds the chat reply summarizing the search outcome. Searches
// aimed at Georgia the country get market guidance appended.
func Respond(req jobs.Requirements, matched *jobs.ScoredJobs) string {
	locationLower := strings.ToLower(req.Location)
	georgiaSearch := strings.Contains(locationLower, "georgia") && !strings.Contains(locationLower, "usa")

	if matched == nil || matched.Len() == 0 {
		if georgiaSearch {
			return noMatchesGeorgia
		}
		return noMatchesGeneric
	}

	var criteria []string
	if len(req.Keywords) > 0 {
		criteria = append(criteria, fmt.Sprintf("skills: %s", strings.Join(req.Keywords, ", ")))
	}
	if req.Location != "" {
		criteria = append(criteria, fmt.Sprintf("location: %s", req.Location))
	}
	if req.ExperienceLevel != taxonomy.LevelAny {
		criteria = append(criteria, fmt.Sprintf("experience: %s", req.ExperienceLevel))
	}

	summary := ""
	if len(criteria) > 0 {
		summary = " with " + strings.Join(criteria, " and ")
	}

	plural := "s"
	if matched.Len() == 1 {
		plural = ""
	}

	response := fmt.Sprintf("I found %d job%s matching your search%s. Here are the best matches:",
		matched.Len(), plural, summary)

	if georgiaSearch {
		return response + georgiaContext
	}
	return response
}
