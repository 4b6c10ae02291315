package rank

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/match"
)

// stubScorer returns canned scores keyed by job title.
type stubScorer struct {
	scores  map[string]float64
	reasons []string
}

func (s *stubScorer) Score(_ jobs.Requirements, job jobs.Job) (float64, match.Breakdown) {
	return s.scores[job.Title], match.Breakdown{}
}

func (s *stubScorer) Reasons(_ jobs.Requirements, _ jobs.Job) []string {
	if len(s.reasons) == 0 {
		return []string{match.FallbackReason}
	}
	return s.reasons
}

func candidates(titles ...string) *jobs.Jobs {
	list := &jobs.Jobs{}
	for _, title := range titles {
		list.Append(jobs.Job{Title: title})
	}
	return list
}

func TestRankThresholdIsStrict(t *testing.T) {
	ranker := New(&stubScorer{scores: map[string]float64{
		"at threshold":    MinScore,
		"above threshold": 0.31,
		"below threshold": 0.1,
	}}, zap.NewNop())

	ranked := ranker.Rank(context.Background(), jobs.Requirements{},
		candidates("at threshold", "above threshold", "below threshold"))

	if ranked.Len() != 1 {
		t.Fatalf("expected 1 retained posting, got %d", ranked.Len())
	}
	if ranked.Items[0].Job.Title != "above threshold" {
		t.Fatalf("unexpected posting retained: %q", ranked.Items[0].Job.Title)
	}
	if ranked.Items[0].MatchScore != 0.31 {
		t.Fatalf("expected score 0.31, got %v", ranked.Items[0].MatchScore)
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	ranker := New(&stubScorer{scores: map[string]float64{
		"low":  0.5,
		"high": 0.9,
		"mid":  0.7,
	}}, zap.NewNop())

	ranked := ranker.Rank(context.Background(), jobs.Requirements{}, candidates("low", "high", "mid"))

	want := []string{"high", "mid", "low"}
	for i, title := range want {
		if ranked.Items[i].Job.Title != title {
			t.Fatalf("expected %q at position %d, got %q", title, i, ranked.Items[i].Job.Title)
		}
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	ranker := New(&stubScorer{scores: map[string]float64{
		"first":  0.5,
		"second": 0.5,
		"third":  0.5,
	}}, zap.NewNop())

	ranked := ranker.Rank(context.Background(), jobs.Requirements{}, candidates("first", "second", "third"))

	want := []string{"first", "second", "third"}
	for i, title := range want {
		if ranked.Items[i].Job.Title != title {
			t.Fatalf("expected %q at position %d, got %q", title, i, ranked.Items[i].Job.Title)
		}
	}
}

func TestRankRoundsToFourDecimals(t *testing.T) {
	ranker := New(&stubScorer{scores: map[string]float64{
		"third": 1.0 / 3.0,
	}}, zap.NewNop())

	ranked := ranker.Rank(context.Background(), jobs.Requirements{}, candidates("third"))

	if ranked.Len() != 1 {
		t.Fatalf("expected 1 retained posting, got %d", ranked.Len())
	}
	if got := ranked.Items[0].MatchScore; got != 0.3333 {
		t.Fatalf("expected 0.3333, got %v", got)
	}
}

func TestRankAttachesReasons(t *testing.T) {
	ranker := New(&stubScorer{
		scores:  map[string]float64{"a": 0.9, "b": 0.8},
		reasons: []string{"Mentions required skills: python"},
	}, zap.NewNop())

	ranked := ranker.Rank(context.Background(), jobs.Requirements{}, candidates("a", "b"))

	for _, item := range ranked.Items {
		if len(item.MatchReasons) == 0 {
			t.Fatalf("expected reasons for %q", item.Job.Title)
		}
	}
}

func TestRankEmptyInput(t *testing.T) {
	ranker := New(&stubScorer{}, zap.NewNop())

	ranked := ranker.Rank(context.Background(), jobs.Requirements{}, nil)
	if ranked == nil || ranked.Items == nil {
		t.Fatalf("expected an empty, non-nil result")
	}
	if ranked.Len() != 0 {
		t.Fatalf("expected no postings, got %d", ranked.Len())
	}

	ranked = ranker.Rank(context.Background(), jobs.Requirements{}, &jobs.Jobs{})
	if ranked.Len() != 0 {
		t.Fatalf("expected no postings for empty candidates, got %d", ranked.Len())
	}
}
