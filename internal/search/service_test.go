package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/gkotua/jobradar/internal/extract"
	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/match"
	"github.com/gkotua/jobradar/internal/rank"
	"github.com/gkotua/jobradar/internal/scrape"
	"github.com/gkotua/jobradar/internal/store"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

type fakeCandidates struct {
	jobs      []jobs.Job
	lastQuery *scrape.Query
}

func (f *fakeCandidates) ScrapeAll(_ context.Context, q scrape.Query) *jobs.Jobs {
	f.lastQuery = &q
	return &jobs.Jobs{Items: f.jobs}
}

type fakeLLM struct {
	req *jobs.Requirements
	err error
}

func (f *fakeLLM) Extract(_ context.Context, _ string) (*jobs.Requirements, error) {
	return f.req, f.err
}

func newTestService(t *testing.T, candidates Candidates, opts Options) *Service {
	t.Helper()

	tax := taxonomy.Default()
	ranker := rank.New(match.NewScorer(tax), zap.NewNop())
	return NewService(extract.New(tax), candidates, ranker, zap.NewNop(), opts)
}

func TestProcessFullPipeline(t *testing.T) {
	candidates := &fakeCandidates{jobs: []jobs.Job{
		{
			Title:       "Senior Python Developer",
			Company:     "Acme",
			Location:    "Tbilisi, Georgia (country)",
			Description: "We need a senior python developer",
			Source:      "LinkedIn",
		},
		{
			Title:       "Florist",
			Company:     "Petals",
			Location:    "Paris",
			Description: "arranging flowers",
			Source:      "LinkedIn",
		},
	}}
	service := newTestService(t, candidates, Options{})

	result := service.Process(context.Background(), "user-1", "remote senior python developer job in georgia")

	if candidates.lastQuery == nil {
		t.Fatalf("expected the sources to be queried")
	}
	if candidates.lastQuery.Keywords != "developer python" {
		t.Fatalf("unexpected query keywords: %q", candidates.lastQuery.Keywords)
	}
	if candidates.lastQuery.Location != "Georgia (country)" {
		t.Fatalf("unexpected query location: %q", candidates.lastQuery.Location)
	}
	if candidates.lastQuery.Limit != defaultLimitPerSource {
		t.Fatalf("unexpected query limit: %d", candidates.lastQuery.Limit)
	}

	if result.TotalFound != 2 {
		t.Fatalf("expected 2 found postings, got %d", result.TotalFound)
	}
	if result.TotalMatched < 1 {
		t.Fatalf("expected at least 1 matched posting, got %d", result.TotalMatched)
	}
	if result.Matched.Items[0].Job.Title != "Senior Python Developer" {
		t.Fatalf("unexpected matched posting: %q", result.Matched.Items[0].Job.Title)
	}
	if len(result.Matched.Items[0].MatchReasons) == 0 {
		t.Fatalf("expected match reasons")
	}
	if result.Response == "" {
		t.Fatalf("expected a response text")
	}
	if result.Requirements.Location != "Georgia (country)" {
		t.Fatalf("unexpected extracted location: %q", result.Requirements.Location)
	}
}

func TestProcessSkipsScrapingWithoutKeywords(t *testing.T) {
	candidates := &fakeCandidates{}
	service := newTestService(t, candidates, Options{})

	result := service.Process(context.Background(), "", "hello there")

	if candidates.lastQuery != nil {
		t.Fatalf("did not expect the sources to be queried")
	}
	if result.TotalFound != 0 || result.TotalMatched != 0 {
		t.Fatalf("expected an empty result, got %+v", result)
	}
	if result.Response == "" {
		t.Fatalf("expected a response text even with no search")
	}
}

func TestProcessPrefersLLMExtraction(t *testing.T) {
	llmReq := &jobs.Requirements{Keywords: []string{"golang"}, Location: "Batumi, Georgia (country)"}
	llmReq.Normalize()

	candidates := &fakeCandidates{}
	service := newTestService(t, candidates, Options{LLM: &fakeLLM{req: llmReq}})

	result := service.Process(context.Background(), "", "whatever the rules would say")

	if result.Requirements.Keywords[0] != "golang" {
		t.Fatalf("expected the llm extraction to win, got %v", result.Requirements.Keywords)
	}
	if candidates.lastQuery == nil || candidates.lastQuery.Keywords != "golang" {
		t.Fatalf("expected the llm keywords in the query")
	}
}

func TestProcessFallsBackToRules(t *testing.T) {
	service := newTestService(t, &fakeCandidates{}, Options{
		LLM: &fakeLLM{err: errors.New("quota exceeded")},
	})

	result := service.Process(context.Background(), "", "senior python developer")

	if len(result.Requirements.Keywords) == 0 {
		t.Fatalf("expected rule-based extraction after llm failure")
	}
	if result.Requirements.ExperienceLevel != taxonomy.LevelSenior {
		t.Fatalf("expected senior from the rules, got %q", result.Requirements.ExperienceLevel)
	}
}

func TestProcessPersistsHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	candidates := &fakeCandidates{jobs: []jobs.Job{
		{Title: "Python Developer", URL: "https://example.com/1", Source: "LinkedIn"},
	}}
	service := newTestService(t, candidates, Options{Store: st})

	service.Process(context.Background(), "user-1", "python developer in tbilisi")

	count, err := st.SearchCount(context.Background())
	if err != nil {
		t.Fatalf("counting searches: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recorded search, got %d", count)
	}

	recent, err := st.RecentJobs(context.Background(), 10)
	if err != nil {
		t.Fatalf("listing postings: %v", err)
	}
	if recent.Len() != 1 {
		t.Fatalf("expected 1 stored posting, got %d", recent.Len())
	}
}
