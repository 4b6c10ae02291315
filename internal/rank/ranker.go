// Package rank orders scored postings for presentation. Scoring each posting
// is independent of the others, so the ranker fans the work out across
// workers and only then applies the stable sort, keeping tie order
// deterministic.
package rank

import (
	"context"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"
	"github.com/gkotua/jobradar/internal/match"
)

// MinScore is the minimum-relevance threshold. Postings scoring at or below
// it are treated as noise and dropped.
const MinScore = 0.3

// scoreDecimals is the serialized precision of match scores. Rounding happens
// after threshold filtering so it can never move a posting across the cut.
const scoreDecimals = 1e4

// Scorer computes a posting's weighted score and its justification.
type Scorer interface {
	Score(req jobs.Requirements, job jobs.Job) (float64, match.Breakdown)
	Reasons(req jobs.Requirements, job jobs.Job) []string
}

type Ranker struct {
	scorer  Scorer
	logger  *zap.Logger
	workers int
}

func New(scorer Scorer, log *zap.Logger) *Ranker {
	return &Ranker{
		scorer:  scorer,
		logger:  logger.NopIfNil(log),
		workers: runtime.GOMAXPROCS(0),
	}
}

// Rank scores every posting against the requirements, drops those at or
// below MinScore, and returns the rest ordered by score descending. Postings
// with equal scores keep their input order. Every returned posting carries at
// least one match reason.
func (r *Ranker) Rank(ctx context.Context, req jobs.Requirements, candidates *jobs.Jobs) *jobs.ScoredJobs {
	ranked := &jobs.ScoredJobs{Items: []jobs.ScoredJob{}}
	if candidates == nil || candidates.Len() == 0 {
		return ranked
	}

	scores := make([]float64, candidates.Len())

	// The taxonomy is read-only and scoring has no shared state, so the
	// only synchronization needed is the indexed result slice.
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i, job := range candidates.Items {
		group.Go(func() error {
			scores[i], _ = r.scorer.Score(req, job)
			return nil
		})
	}
	// Scoring is total; the group never returns an error.
	_ = group.Wait()

	for i, job := range candidates.Items {
		if scores[i] <= MinScore {
			continue
		}
		ranked.Items = append(ranked.Items, jobs.ScoredJob{
			Job:        job,
			MatchScore: scores[i],
		})
	}

	sort.SliceStable(ranked.Items, func(a, b int) bool {
		return ranked.Items[a].MatchScore > ranked.Items[b].MatchScore
	})

	for i := range ranked.Items {
		item := &ranked.Items[i]
		item.MatchScore = math.Round(item.MatchScore*scoreDecimals) / scoreDecimals
		item.MatchReasons = r.scorer.Reasons(req, item.Job)
	}

	r.logger.Debug("ranking finished",
		zap.Int("candidates", candidates.Len()),
		zap.Int("retained", ranked.Len()),
		zap.Float64("threshold", MinScore),
	)

	return ranked
}
