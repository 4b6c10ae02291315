package scrape

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"
)

const linkedinSourceName = "LinkedIn"

// LinkedIn scrapes the public job search listing pages.
type LinkedIn struct {
	BaseURL string

	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewLinkedIn(log *zap.Logger) *LinkedIn {
	return &LinkedIn{
		BaseURL: "https://www.linkedin.com/jobs/search",
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger.NopIfNil(log),
	}
}

func (l *LinkedIn) Name() string { return linkedinSourceName }

func (l *LinkedIn) Fetch(ctx context.Context, q Query) ([]jobs.Job, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("keywords", q.Keywords)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	// Last 24 hours only; older cards are mostly reposts.
	params.Set("f_TPR", "r86400")

	doc, err := fetchDocument(ctx, l.client, l.BaseURL, params)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var found []jobs.Job
	doc.Find("div.job-search-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := CleanText(card.Find("h3.base-search-card__title").Text())
		company := CleanText(card.Find("h4.base-search-card__subtitle").Text())
		if title == "" || company == "" {
			return true
		}

		jobURL, _ := card.Find("a.base-card__full-link").Attr("href")

		found = append(found, jobs.Job{
			Title:    title,
			Company:  company,
			Location: CleanText(card.Find("span.job-search-card__location").Text()),
			URL:      jobURL,
			Source:   linkedinSourceName,
		})
		return len(found) < limit
	})

	l.logger.Debug("linkedin cards parsed", zap.Int("count", len(found)))

	return found, nil
}
