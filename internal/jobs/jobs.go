package jobs

import (
	"encoding/json"
	"fmt"
	"os"
)

// Job is a single posting produced by a collector. All fields are plain
// strings and any of them may be empty; upstream data is scraped and noisy,
// so the engine never assumes a populated field.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Source      string `json:"source"`
}

// Jobs is a list of postings.
type Jobs struct {
	Items []Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) Append(items ...Job) {
	j.Items = append(j.Items, items...)
}

// ReportBySource groups postings by their source for display.
func (j *Jobs) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		key := job.Source
		if key == "" {
			key = "unknown"
		}
		report[key] = append(report[key], map[string]string{
			"title":    job.Title,
			"company":  job.Company,
			"location": job.Location,
			"url":      job.URL,
		})
	}
	return report
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Requirements is the structured form of a job-search request. It is always
// fully populated: extraction fills every field with its default when the
// message carries no signal, so consumers never see a partial object.
type Requirements struct {
	Keywords        []string `json:"keywords" mapstructure:"keywords"`
	Location        string   `json:"location" mapstructure:"location"`
	ExperienceLevel string   `json:"experience_level" mapstructure:"experience_level"`
	JobType         string   `json:"job_type" mapstructure:"job_type"`
	Skills          []string `json:"skills" mapstructure:"skills"`
	CompanyType     string   `json:"company_type" mapstructure:"company_type"`
}

// Normalize fills empty fields with their defaults and guarantees non-nil
// slices, so a Requirements from any origin satisfies the fully-populated
// invariant.
func (r *Requirements) Normalize() {
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	if r.ExperienceLevel == "" {
		r.ExperienceLevel = "any"
	}
	if r.JobType == "" {
		r.JobType = "any"
	}
	if r.Skills == nil {
		r.Skills = append([]string{}, r.Keywords...)
	}
	if r.CompanyType == "" {
		r.CompanyType = "any"
	}
}

// KeywordString joins the keywords for display and for fuzzy comparison.
func (r *Requirements) KeywordString() string {
	out := ""
	for i, kw := range r.Keywords {
		if i > 0 {
			out += " "
		}
		out += kw
	}
	return out
}

// ScoredJob is a posting with its match score and human-readable
// justifications. MatchReasons is never empty for a retained job.
type ScoredJob struct {
	Job          Job      `json:"job"`
	MatchScore   float64  `json:"match_score"`
	MatchReasons []string `json:"match_reasons"`
}

// ScoredJobs is an ordered list of scored postings.
type ScoredJobs struct {
	Items []ScoredJob
}

func (s *ScoredJobs) Len() int {
	return len(s.Items)
}

func (s *ScoredJobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportBySource groups scored postings by source, keeping score and reasons.
func (s *ScoredJobs) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, scored := range s.Items {
		key := scored.Job.Source
		if key == "" {
			key = "unknown"
		}
		entry := map[string]string{
			"title":    scored.Job.Title,
			"company":  scored.Job.Company,
			"location": scored.Job.Location,
			"url":      scored.Job.URL,
			"score":    fmt.Sprintf("%.2f", scored.MatchScore),
		}
		report[key] = append(report[key], entry)
	}
	return report
}
