package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/pkg/serper"
	"github.com/sells-group/leadgen-cli/pkg/webreader"
)

// serperSearcher backs the search capability with the Serper API,
// rate-limited so pipeline units cannot exhaust the quota.
type serperSearcher struct {
	client     serper.Client
	limiter    *rate.Limiter
	maxResults int
}

func newSerperSearcher(key string, cfg config.SerperConfig) (Searcher, error) {
	if key == "" {
		return nil, eris.New("capability: serper key is empty")
	}
	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 2
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	var opts []serper.Option
	if cfg.BaseURL != "" {
		opts = append(opts, serper.WithBaseURL(cfg.BaseURL))
	}
	return &serperSearcher{
		client:     serper.NewClient(key, opts...),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxResults: maxResults,
	}, nil
}

func (s *serperSearcher) Search(ctx context.Context, query string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "capability: search rate limit wait")
	}

	resp, err := s.client.Search(ctx, serper.SearchRequest{Query: query, Num: s.maxResults})
	if err != nil {
		return "", eris.Wrap(err, "capability: search")
	}

	var b strings.Builder
	for _, r := range resp.Organic {
		fmt.Fprintf(&b, "Title: %s\nURL: %s\nSnippet: %s\n\n", r.Title, r.Link, r.Snippet)
	}
	return strings.TrimSpace(b.String()), nil
}

// readerScraper backs the scrape capability with a reader-style service.
type readerScraper struct {
	client  webreader.Client
	limiter *rate.Limiter
}

func newReaderScraper(cfg config.ReaderConfig) (Scraper, error) {
	if cfg.BaseURL == "" {
		return nil, eris.New("capability: reader base URL is empty")
	}
	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 1
	}
	return &readerScraper{
		client:  webreader.NewClient("", webreader.WithBaseURL(cfg.BaseURL)),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (s *readerScraper) Scrape(ctx context.Context, url string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "capability: scrape rate limit wait")
	}

	resp, err := s.client.Read(ctx, url)
	if err != nil {
		return "", eris.Wrap(err, "capability: scrape")
	}
	return resp.Data.Content, nil
}
