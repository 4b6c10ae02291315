package scrape

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"
)

const hrgeSourceName = "hr.ge"

// hr.ge has no stable public search API; these are the pages that reliably
// carry vacancy links.
var hrgePaths = []string{"/", "/companies", "/jobseeker"}

// vacancyLinkWords mark hrefs that lead to job listings, including the
// Georgian word for vacancy.
var vacancyLinkWords = []string{"vacancy", "job", "position", "ვაკანსია"}

// HRGE harvests vacancy links from hr.ge, the Georgian job board.
type HRGE struct {
	BaseURL string

	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewHRGE(log *zap.Logger) *HRGE {
	return &HRGE{
		BaseURL: "https://hr.ge",
		client:  &http.Client{Timeout: 10 * time.Second},
		// Polite pacing; the board throttles aggressive clients.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger.NopIfNil(log),
	}
}

func (h *HRGE) Name() string { return hrgeSourceName }

// Fetch walks the known pages and collects links that look like vacancies.
// The board exposes little structure, so postings carry defaults for the
// fields it does not publish.
func (h *HRGE) Fetch(ctx context.Context, q Query) ([]jobs.Job, error) {
	base, err := url.Parse(h.BaseURL)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var found []jobs.Job
	for _, path := range hrgePaths {
		if err := h.limiter.Wait(ctx); err != nil {
			return found, err
		}

		doc, err := fetchDocument(ctx, h.client, h.BaseURL+path, nil)
		if err != nil {
			h.logger.Debug("hr.ge page skipped",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}

		doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, _ := sel.Attr("href")
			text := CleanText(sel.Text())

			if !looksLikeVacancyLink(strings.ToLower(href)) || len(text) <= 5 {
				return true
			}

			ref, err := url.Parse(href)
			if err != nil {
				return true
			}

			found = append(found, jobs.Job{
				Title:       text,
				Company:     "Available on hr.ge",
				Location:    "Tbilisi, Georgia (country)",
				URL:         base.ResolveReference(ref).String(),
				Source:      hrgeSourceName,
				Description: "Job listing from hr.ge: " + text,
			})
			return len(found) < limit
		})

		if len(found) >= limit {
			break
		}
	}

	return found, nil
}

func looksLikeVacancyLink(href string) bool {
	for _, word := range vacancyLinkWords {
		if strings.Contains(href, word) {
			return true
		}
	}
	return false
}
