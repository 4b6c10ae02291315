// Package search wires the pipeline together: message in, extracted
// requirements, scraped candidates, ranked matches and a chat reply out.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gkotua/jobradar/internal/ai"
	"github.com/gkotua/jobradar/internal/extract"
	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"
	"github.com/gkotua/jobradar/internal/rank"
	"github.com/gkotua/jobradar/internal/scrape"
	"github.com/gkotua/jobradar/internal/store"
)

const defaultLimitPerSource = 10

// Candidates is the collaborator producing postings for a query. Both the
// live scraper and the stored-postings path satisfy it.
type Candidates interface {
	ScrapeAll(ctx context.Context, q scrape.Query) *jobs.Jobs
}

// Service runs the search pipeline. The rule-based extractor is the behavior
// of record; the LLM extractor, when configured, is tried first and any
// failure falls back silently to the rules.
type Service struct {
	rules          *extract.Extractor
	llm            ai.Extractor
	candidates     Candidates
	ranker         *rank.Ranker
	store          *store.Store
	logger         *zap.Logger
	limitPerSource int
}

// Options carries the optional collaborators.
type Options struct {
	LLM            ai.Extractor
	Store          *store.Store
	LimitPerSource int
}

func NewService(rules *extract.Extractor, candidates Candidates, ranker *rank.Ranker, log *zap.Logger, opts Options) *Service {
	limit := opts.LimitPerSource
	if limit <= 0 {
		limit = defaultLimitPerSource
	}

	return &Service{
		rules:          rules,
		llm:            opts.LLM,
		candidates:     candidates,
		ranker:         ranker,
		store:          opts.Store,
		logger:         logger.NopIfNil(log),
		limitPerSource: limit,
	}
}

// Result is the outcome of one processed search request.
type Result struct {
	Response     string            `json:"response"`
	Requirements jobs.Requirements `json:"requirements_extracted"`
	Jobs         *jobs.Jobs        `json:"jobs"`
	Matched      *jobs.ScoredJobs  `json:"matched_jobs"`
	TotalFound   int               `json:"total_jobs_found"`
	TotalMatched int               `json:"total_matched_jobs"`
	DurationMS   int64             `json:"response_time_ms"`
}

// Process runs the full pipeline for one message. It is total: collaborator
// failures degrade to fewer candidates or the rule-based extraction, never to
// an error for the caller.
func (s *Service) Process(ctx context.Context, userID, message string) *Result {
	start := time.Now()

	req := s.extractRequirements(ctx, message)
	s.logger.Info("requirements extracted",
		zap.Strings("keywords", req.Keywords),
		zap.String("location", req.Location),
		zap.String("experience_level", req.ExperienceLevel),
		zap.String("job_type", req.JobType),
	)

	found := &jobs.Jobs{}
	if len(req.Keywords) > 0 && s.candidates != nil {
		found = s.candidates.ScrapeAll(ctx, scrape.Query{
			Keywords: req.KeywordString(),
			Location: req.Location,
			Limit:    s.limitPerSource,
		})

		if s.store != nil {
			if saved, err := s.store.SaveJobs(ctx, found); err != nil {
				s.logger.Warn("saving postings failed", zap.Error(err))
			} else if saved > 0 {
				s.logger.Debug("postings saved", zap.Int("new", saved))
			}
		}
	}

	matched := s.ranker.Rank(ctx, req, found)
	took := time.Since(start)

	if s.store != nil {
		if err := s.store.LogSearch(ctx, userID, message, req, matched.Len(), took); err != nil {
			s.logger.Warn("logging search failed", zap.Error(err))
		}
	}

	return &Result{
		Response:     Respond(req, matched),
		Requirements: req,
		Jobs:         found,
		Matched:      matched,
		TotalFound:   found.Len(),
		TotalMatched: matched.Len(),
		DurationMS:   took.Milliseconds(),
	}
}

func (s *Service) extractRequirements(ctx context.Context, message string) jobs.Requirements {
	if s.llm != nil {
		req, err := s.llm.Extract(ctx, message)
		if err == nil && req != nil {
			return *req
		}
		s.logger.Warn("llm extraction failed, using rule-based extraction", zap.Error(err))
	}
	return s.rules.Extract(message)
}
