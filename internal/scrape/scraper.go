// Package scrape collects job postings from external boards. Sources are
// collaborators outside the matching core: they produce noisy, partially
// populated postings, and the core is expected to absorb that.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Query carries the search parameters passed to every source.
type Query struct {
	Keywords string
	Location string
	Limit    int
}

// Source fetches postings from a single job board.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]jobs.Job, error)
}

// Scraper fans a query out over its sources concurrently. A failing source
// is logged and skipped; one broken board must not abort the search.
type Scraper struct {
	sources []Source
	logger  *zap.Logger
}

func New(log *zap.Logger, sources ...Source) *Scraper {
	return &Scraper{
		sources: sources,
		logger:  logger.NopIfNil(log),
	}
}

// ScrapeAll queries every source and returns the combined postings in source
// order.
func (s *Scraper) ScrapeAll(ctx context.Context, q Query) *jobs.Jobs {
	results := make([][]jobs.Job, len(s.sources))

	group, ctx := errgroup.WithContext(ctx)
	for i, source := range s.sources {
		group.Go(func() error {
			found, err := source.Fetch(ctx, q)
			if err != nil {
				s.logger.Warn("source failed",
					zap.String("source", source.Name()),
					zap.Error(err),
				)
				return nil
			}
			s.logger.Info("source finished",
				zap.String("source", source.Name()),
				zap.Int("postings", len(found)),
			)
			results[i] = found
			return nil
		})
	}
	// Source errors are downgraded to warnings; the group never fails.
	_ = group.Wait()

	collected := &jobs.Jobs{}
	for _, found := range results {
		collected.Append(found...)
	}
	return collected
}

// fetchDocument performs a GET request with the scraping user agent and
// parses the body as HTML.
func fetchDocument(ctx context.Context, client *http.Client, rawURL string, params url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
