// Package news serves agriculture news with a singleton freshness cache and
// a degrade-only failure policy: the caller always gets a page of articles,
// never an error status.
//
// Source chain on a cache miss: agriculture-specific search, then the
// general latest feed, then a built-in list. A failure anywhere outside the
// chain falls back to a smaller fixed mock list.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/neokrishi/farmer-assistant/internal/cache"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

const (
	cacheKey = "news"

	DefaultPage  = 1
	DefaultLimit = 10

	searchQuery = "agriculture farming crops india"
	searchLimit = 100
)

// Gateway serves paginated, normalized news articles.
type Gateway struct {
	searchURL string
	latestURL string
	client    *http.Client
	cache     *cache.Store[[]model.Article]
	logger    *slog.Logger
}

// New creates a Gateway. The cache is a singleton store: one shared entry
// regardless of pagination parameters.
func New(searchURL, latestURL string, store *cache.Store[[]model.Article], logger *slog.Logger) *Gateway {
	return &Gateway{
		searchURL: searchURL,
		latestURL: latestURL,
		client:    http.DefaultClient,
		cache:     store,
		logger:    logger,
	}
}

// rawArticle tolerates the field-name variations across upstream sources:
// the summary may arrive as description, summary, or content; the timestamp
// as publishedAt or published_at; the source as an object or a bare string.
type rawArticle struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Summary      string          `json:"summary"`
	Content      string          `json:"content"`
	URL          string          `json:"url"`
	PublishedAt  string          `json:"publishedAt"`
	PublishedAt2 string          `json:"published_at"`
	Source       json.RawMessage `json:"source"`
}

type articlesEnvelope struct {
	Articles []rawArticle `json:"articles"`
}

// Page returns one page of articles. Pagination only slices the cached
// list; within the freshness window no upstream call is made. This method
// never fails; on an unrecoverable pipeline error it serves the fixed mock
// list instead.
func (g *Gateway) Page(ctx context.Context, page, limit int) model.ArticlePage {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	articles, ok := g.cache.Get(cacheKey)
	if !ok {
		fresh, err := g.refresh(ctx)
		if err != nil {
			g.logger.Warn("news pipeline failed, serving mock articles",
				slog.String("error", err.Error()))
			return paginate(errorFallback(), page, limit)
		}
		g.cache.Put(cacheKey, fresh)
		articles = fresh
	}

	return paginate(articles, page, limit)
}

// refresh walks the source chain and returns the normalized full list. Both
// upstream failures and empty results fall through to the next source; the
// built-in list guarantees a non-empty result. Only context cancellation
// aborts the chain.
func (g *Gateway) refresh(ctx context.Context) ([]model.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := g.fetchSearch(ctx)
	if len(raw) == 0 {
		raw = g.fetchLatest(ctx)
	}
	if len(raw) == 0 {
		return builtinArticles(), nil
	}

	out := make([]model.Article, 0, len(raw))
	for _, a := range raw {
		out = append(out, normalize(a))
	}
	return out, nil
}

func (g *Gateway) fetchSearch(ctx context.Context) []rawArticle {
	q := url.Values{}
	q.Set("q", searchQuery)
	q.Set("limit", fmt.Sprint(searchLimit))

	var env articlesEnvelope
	if err := g.getJSON(ctx, g.searchURL+"?"+q.Encode(), &env); err != nil {
		g.logger.Info("agriculture news search failed, trying general feed",
			slog.String("error", err.Error()))
		return nil
	}
	return env.Articles
}

func (g *Gateway) fetchLatest(ctx context.Context) []rawArticle {
	// The latest feed answers either {"articles":[...]} or a bare array.
	var body json.RawMessage
	if err := g.getJSON(ctx, g.latestURL, &body); err != nil {
		g.logger.Info("general news feed failed", slog.String("error", err.Error()))
		return nil
	}

	var env articlesEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Articles) > 0 {
		return env.Articles
	}

	var list []rawArticle
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}
	return nil
}

func (g *Gateway) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d from %s", resp.StatusCode, req.URL.Host)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func normalize(a rawArticle) model.Article {
	out := model.Article{
		Title:       a.Title,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		Source:      sourceName(a.Source),
	}
	if out.Title == "" {
		out.Title = "No Title"
	}
	if out.URL == "" {
		out.URL = "#"
	}

	switch {
	case a.Description != "":
		out.Summary = a.Description
	case a.Summary != "":
		out.Summary = a.Summary
	case a.Content != "":
		out.Summary = a.Content
	default:
		out.Summary = "No summary available"
	}

	if out.PublishedAt == "" {
		out.PublishedAt = a.PublishedAt2
	}
	if out.PublishedAt == "" {
		out.PublishedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return out
}

// sourceName accepts {"name":"..."} or a plain string.
func sourceName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "News Source"
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	return "News Source"
}

func paginate(articles []model.Article, page, limit int) model.ArticlePage {
	total := len(articles)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return model.ArticlePage{
		Articles:   articles[start:end],
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}
}

// builtinArticles is substituted when every upstream source fails or comes
// back empty. It is cached like a real fetch.
func builtinArticles() []model.Article {
	now := time.Now().UTC()
	day := func(n int) string { return now.AddDate(0, 0, -n).Format(time.RFC3339) }

	return []model.Article{
		{Title: "Latest Agriculture Updates", Summary: "Stay updated with the latest developments in agriculture and farming.", URL: "#", PublishedAt: day(0), Source: "Agriculture Today"},
		{Title: "Sustainable Farming Practices", Summary: "Learn about eco-friendly farming methods that boost productivity.", URL: "#", PublishedAt: day(1), Source: "Green Farming"},
		{Title: "Crop Price Analysis for 2024", Summary: "Market experts analyze crop price trends and predictions for the upcoming season.", URL: "#", PublishedAt: day(2), Source: "Market Analysis"},
		{Title: "Weather Impact on Agriculture", Summary: "How changing weather patterns are affecting crop yields across different regions.", URL: "#", PublishedAt: day(3), Source: "Weather Agriculture"},
		{Title: "Government Schemes for Farmers", Summary: "New government initiatives to support farmers with subsidies and technology.", URL: "#", PublishedAt: day(4), Source: "Government News"},
		{Title: "Smart Irrigation Systems Boost Water Efficiency", Summary: "Modern drip irrigation and smart water management systems help farmers save water.", URL: "#", PublishedAt: day(5), Source: "Water Management"},
		{Title: "Fertilizer Prices Expected to Stabilize", Summary: "Market analysis shows fertilizer costs may stabilize in the coming months.", URL: "#", PublishedAt: day(6), Source: "Market Watch"},
		{Title: "Pest Control Methods for Monsoon Season", Summary: "Effective pest management strategies to protect crops during rainy season.", URL: "#", PublishedAt: day(7), Source: "Crop Protection"},
		{Title: "Export Opportunities for Indian Agriculture", Summary: "Growing international demand for Indian agricultural products opens new markets.", URL: "#", PublishedAt: day(8), Source: "Export News"},
		{Title: "Soil Testing Camps Organized Across States", Summary: "Free soil testing facilities being set up to help farmers optimize crop nutrition.", URL: "#", PublishedAt: day(9), Source: "Soil Health"},
	}
}

// errorFallback is the last-resort list served when the pipeline itself
// fails. It is not cached.
func errorFallback() []model.Article {
	now := time.Now().UTC()
	day := func(n int) string { return now.AddDate(0, 0, -n).Format(time.RFC3339) }

	return []model.Article{
		{Title: "Government Announces New Crop Insurance Scheme", Summary: "The government has launched a comprehensive crop insurance scheme to protect farmers from weather-related losses.", URL: "#", PublishedAt: day(0), Source: "Agriculture Ministry"},
		{Title: "Organic Farming Techniques Show 30% Yield Increase", Summary: "Recent studies demonstrate that modern organic farming methods can significantly boost crop yields while maintaining soil health.", URL: "#", PublishedAt: day(1), Source: "Farm Research Institute"},
		{Title: "Digital Agriculture Tools Gaining Popularity", Summary: "Farmers across India are increasingly adopting digital tools for crop monitoring, weather forecasting, and market analysis.", URL: "#", PublishedAt: day(2), Source: "Tech Agriculture Today"},
	}
}
