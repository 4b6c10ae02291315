package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the serializable form of a taxonomy. Empty sections in a loaded
// file fall back to the built-in defaults.
type Config struct {
	Skills        []SkillCategory  `yaml:"skills"`
	Levels        []LevelTerms     `yaml:"levels"`
	LevelCues     []LevelTerms     `yaml:"level_cues"`
	TitleKeywords []string         `yaml:"title_keywords"`
	TechKeywords  []string         `yaml:"tech_keywords"`
	JobTypes      []TypeConfig     `yaml:"job_types"`
	Localities    []Locality       `yaml:"localities"`
	Ambiguous     []AmbiguousPlace `yaml:"ambiguous"`
	ExcludeWords  []string         `yaml:"exclude_words"`
	GeneralTerms  []string         `yaml:"general_terms"`
}

// TypeConfig is the serializable form of a job type pattern.
type TypeConfig struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

// DefaultConfig returns the built-in gazetteers. The locality tables target
// the Georgian job market, with the Georgia-the-country vs Georgia-the-US-state
// ambiguity resolved through exclusion markers.
func DefaultConfig() Config {
	return Config{
		Skills: []SkillCategory{
			{Name: "programming", Terms: []string{"python", "javascript", "java", "c++", "c#", "go", "rust", "swift", "kotlin"}},
			{Name: "web", Terms: []string{"react", "angular", "vue", "html", "css", "nodejs", "express", "django", "flask"}},
			{Name: "data", Terms: []string{"sql", "mysql", "postgresql", "mongodb", "pandas", "numpy", "tensorflow", "pytorch"}},
			{Name: "cloud", Terms: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins"}},
			{Name: "mobile", Terms: []string{"android", "ios", "react native", "flutter", "swift", "kotlin"}},
			{Name: "general", Terms: []string{"git", "linux", "agile", "scrum", "rest api", "microservices"}},
		},
		// Scan order matters: the scorer takes the first indicator found.
		Levels: []LevelTerms{
			{Level: LevelEntry, Terms: []string{"junior", "entry", "graduate", "intern", "0-2 years", "new grad"}},
			{Level: LevelMid, Terms: []string{"mid", "intermediate", "2-5 years", "3-7 years"}},
			{Level: LevelSenior, Terms: []string{"senior", "lead", "principal", "5+ years", "7+ years", "architect"}},
		},
		LevelCues: []LevelTerms{
			{Level: LevelSenior, Terms: []string{"senior", "sr", "lead"}},
			{Level: LevelEntry, Terms: []string{"junior", "jr", "entry", "graduate"}},
			{Level: LevelMid, Terms: []string{"mid", "intermediate"}},
		},
		TitleKeywords: []string{
			"developer", "engineer", "scientist", "analyst", "manager",
			"designer", "consultant", "programmer", "architect", "specialist",
		},
		TechKeywords: []string{
			"python", "javascript", "react", "node", "java", "sql", "aws",
			"docker", "kubernetes", "frontend", "backend", "fullstack", "devops",
		},
		JobTypes: []TypeConfig{
			{Type: TypeRemote, Pattern: `remote`},
			{Type: TypeContract, Pattern: `contract`},
			{Type: TypePartTime, Pattern: `part[- ]time`},
			{Type: TypeFullTime, Pattern: `full[- ]time`},
		},
		Localities: []Locality{
			{Term: "tbilisi", Canonical: "Tbilisi, Georgia (country)"},
			{Term: "batumi", Canonical: "Batumi, Georgia (country)"},
			{Term: "kutaisi", Canonical: "Kutaisi, Georgia (country)"},
			{Term: "rustavi", Canonical: "Rustavi, Georgia (country)"},
			{Term: "gori", Canonical: "Gori, Georgia (country)"},
			{Term: "zugdidi", Canonical: "Zugdidi, Georgia (country)"},
			{Term: "poti", Canonical: "Poti, Georgia (country)"},
			{Term: "kobuleti", Canonical: "Kobuleti, Georgia (country)"},
		},
		Ambiguous: []AmbiguousPlace{
			{
				Term:      "georgia",
				Canonical: "Georgia (country)",
				Alternate: "Georgia, USA",
				Markers:   []string{"atlanta", "savannah", "columbus", "augusta", "georgia usa", "georgia us", "us state"},
			},
		},
		ExcludeWords: []string{
			"georgia", "tbilisi", "batumi", "kutaisi", "rustavi", "gori",
			"country", "in", "at", "near", "from",
		},
		GeneralTerms: []string{"job", "work", "position", "opportunity", "career", "employment"},
	}
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := New(DefaultConfig())
	if err != nil {
		// The built-in config is static; failing to build it is a programming error.
		panic(err)
	}
	return t
}

// LoadFile builds a taxonomy from a YAML file, filling any section the file
// leaves empty from the built-in defaults.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing taxonomy file %q: %w", path, err)
	}

	return New(merge(DefaultConfig(), cfg))
}

func merge(base, override Config) Config {
	if len(override.Skills) > 0 {
		base.Skills = override.Skills
	}
	if len(override.Levels) > 0 {
		base.Levels = override.Levels
	}
	if len(override.LevelCues) > 0 {
		base.LevelCues = override.LevelCues
	}
	if len(override.TitleKeywords) > 0 {
		base.TitleKeywords = override.TitleKeywords
	}
	if len(override.TechKeywords) > 0 {
		base.TechKeywords = override.TechKeywords
	}
	if len(override.JobTypes) > 0 {
		base.JobTypes = override.JobTypes
	}
	if len(override.Localities) > 0 {
		base.Localities = override.Localities
	}
	if len(override.Ambiguous) > 0 {
		base.Ambiguous = override.Ambiguous
	}
	if len(override.ExcludeWords) > 0 {
		base.ExcludeWords = override.ExcludeWords
	}
	if len(override.GeneralTerms) > 0 {
		base.GeneralTerms = override.GeneralTerms
	}
	return base
}
