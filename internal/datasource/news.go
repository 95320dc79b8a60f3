// Package datasource fetches raw news articles for a company from
// Google News RSS. It is the only upstream the pipeline has; failures
// surface as an error and an empty article list, never a partial panic.
package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/newslens-ai/newslens/internal/infra"
	"github.com/newslens-ai/newslens/pkg/models"
)

// ErrNoArticles is returned when every configured feed came back empty.
var ErrNoArticles = fmt.Errorf("no news articles found")

// Feed is a single RSS feed endpoint for a company query.
type Feed struct {
	Name string
	URL  string
}

// CompanyFeeds returns the Google News feeds tried for a company, in
// preference order. The alternate section feed catches queries the
// primary search feed occasionally returns empty for.
func CompanyFeeds(company string) []Feed {
	q := url.QueryEscape(company)
	return []Feed{
		{
			Name: "Google News Search",
			URL:  "https://news.google.com/rss/search?q=" + q,
		},
		{
			Name: "Google News Section",
			URL:  fmt.Sprintf("https://news.google.com/news/rss/search/section/q/%s/%s?hl=en&gl=US&ned=us", q, q),
		},
	}
}

// GoogleNews fetches company news from Google News RSS feeds.
type GoogleNews struct {
	maxArticles int
	cache       *infra.Cache
	limiter     *infra.RateLimiter
	feeds       func(company string) []Feed
}

// Option configures a GoogleNews fetcher.
type Option func(*GoogleNews)

// WithMaxArticles caps the number of articles returned per fetch.
func WithMaxArticles(n int) Option {
	return func(g *GoogleNews) { g.maxArticles = n }
}

// WithCacheTTL sets the fetch cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(g *GoogleNews) { g.cache = infra.NewCache(ttl) }
}

// WithRequestRate sets the allowed request rate against the feed host.
func WithRequestRate(perSecond int) Option {
	return func(g *GoogleNews) { g.limiter = infra.NewRateLimiter(perSecond, time.Second) }
}

// WithFeedFunc replaces the feed URL builder. Used for custom feed
// hosts and in tests.
func WithFeedFunc(fn func(company string) []Feed) Option {
	return func(g *GoogleNews) { g.feeds = fn }
}

// NewGoogleNews creates a Google News fetcher with conservative
// defaults: 10 articles, 10 minute cache, 2 requests per second.
func NewGoogleNews(opts ...Option) *GoogleNews {
	g := &GoogleNews{
		maxArticles: 10,
		cache:       infra.NewCache(10 * time.Minute),
		limiter:     infra.NewRateLimiter(2, time.Second),
		feeds:       CompanyFeeds,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the data source name.
func (g *GoogleNews) Name() string { return "Google News" }

// FetchCompanyNews returns recent articles mentioning the company.
// All company feeds are fetched concurrently and the first feed (in
// preference order) that yielded articles wins. Returns ErrNoArticles
// when every feed came back empty.
func (g *GoogleNews) FetchCompanyNews(ctx context.Context, company string) ([]models.Article, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("company name is required")
	}

	cacheKey := "news:" + strings.ToLower(company)
	if cached, ok := g.cache.Get(cacheKey); ok {
		return cached.([]models.Article), nil
	}

	feeds := g.feeds(company)
	results := make([][]models.Article, len(feeds))

	grp, gctx := errgroup.WithContext(ctx)
	for i, feed := range feeds {
		i, feed := i, feed
		grp.Go(func() error {
			articles, err := g.fetchFeed(gctx, feed)
			if err != nil {
				// Non-critical: a sibling feed may still succeed.
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	for _, articles := range results {
		if len(articles) > 0 {
			g.cache.Set(cacheKey, articles)
			return articles, nil
		}
	}
	return nil, fmt.Errorf("%w for %q", ErrNoArticles, company)
}

// fetchFeed downloads and parses a single RSS feed.
func (g *GoogleNews) fetchFeed(ctx context.Context, feed Feed) ([]models.Article, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// Google News wants a browser user agent and the consent cookie;
	// infra.Get supplies the former.
	body, _, err := infra.Get(ctx, feed.URL, map[string]string{
		"Cookie": "CONSENT=YES+",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed.Name, err)
	}
	defer body.Close()

	// Feeds are fetched concurrently, so each parse gets its own parser.
	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", feed.Name, err)
	}

	items := parsed.Items
	if g.maxArticles > 0 && len(items) > g.maxArticles {
		items = items[:g.maxArticles]
	}

	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		a := models.Article{
			Title:   item.Title,
			Summary: cleanHTML(item.Description),
			Source:  sourceFromTitle(item.Title, feed.Name),
			Link:    item.Link,
			Date:    item.Published,
		}
		if a.Title == "" {
			a.Title = "No title"
		}
		if a.Summary == "" {
			a.Summary = "No description"
		}
		if a.Link == "" {
			a.Link = "#"
		}
		if a.Date == "" {
			a.Date = "Unknown date"
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// sourceFromTitle extracts the publisher from a Google News headline,
// which carries it as a " - Publisher" suffix. Falls back to the feed
// name when no suffix is present.
func sourceFromTitle(title, fallback string) string {
	if idx := strings.LastIndex(title, " - "); idx > 0 && idx+3 < len(title) {
		return strings.TrimSpace(title[idx+3:])
	}
	return fallback
}
