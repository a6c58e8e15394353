// Package market serves mandi price quotes from the data.gov.in AGMARKNET
// resource.
//
// This gateway has no freshness cache. Fetched records are written through
// to the market_prices table, but nothing reads them back; the persisted
// data exists for offline analysis only. Upstream failure degrades to a
// single synthetic record echoing the requested filters.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/neokrishi/farmer-assistant/internal/model"
	"github.com/neokrishi/farmer-assistant/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12

	// upstreamLimit is the raw record count requested per upstream call;
	// filtering happens upstream, pagination happens here.
	upstreamLimit = 1000
)

// Commodities is the fixed list behind GET /api/market/commodities.
var Commodities = []string{
	"Rice", "Wheat", "Onion", "Potato", "Tomato",
	"Maize", "Sugarcane", "Cotton", "Soybean", "Groundnut",
}

// States is the fixed list behind GET /api/market/states.
var States = []string{
	"Delhi", "Maharashtra", "Karnataka", "Tamil Nadu", "Gujarat",
	"Rajasthan", "Punjab", "Haryana", "Uttar Pradesh", "West Bengal",
}

// Gateway serves paginated price quotes.
type Gateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
	store   repository.MarketRepository
	logger  *slog.Logger
}

// New creates a Gateway. store receives the write-through copies of fetched
// records; pass nil to disable persistence.
func New(apiKey, baseURL string, store repository.MarketRepository, logger *slog.Logger) *Gateway {
	return &Gateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  http.DefaultClient,
		store:   store,
		logger:  logger,
	}
}

// rawRecord mirrors the upstream record shape. Every field arrives as a
// string, prices included.
type rawRecord struct {
	Commodity   string `json:"commodity"`
	Market      string `json:"market"`
	State       string `json:"state"`
	District    string `json:"district"`
	ArrivalDate string `json:"arrival_date"`
	ModalPrice  string `json:"modal_price"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	Variety     string `json:"variety"`
	Grade       string `json:"grade"`
}

type upstreamResponse struct {
	Records []rawRecord `json:"records"`
}

// Prices returns one page of quotes. commodity and state are optional
// pass-through filters applied upstream, not locally. This method never
// fails: an upstream error yields a one-record synthetic page.
func (g *Gateway) Prices(ctx context.Context, commodity, state string, page, limit int) model.PricePage {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	records, err := g.fetch(ctx, commodity, state)
	if err != nil {
		g.logger.Warn("market upstream failed, serving synthetic record",
			slog.String("commodity", commodity),
			slog.String("state", state),
			slog.String("error", err.Error()),
		)
		records = fallbackRecords(commodity, state)
	} else if g.store != nil {
		// Opportunistic write-through; a storage failure never affects the
		// response.
		if err := g.store.SavePrices(ctx, toStored(records)); err != nil {
			g.logger.Warn("persisting market prices failed", slog.String("error", err.Error()))
		}
	}

	return paginate(records, page, limit)
}

func (g *Gateway) fetch(ctx context.Context, commodity, state string) ([]model.PriceRecord, error) {
	q := url.Values{}
	q.Set("api-key", g.apiKey)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(upstreamLimit))
	if commodity != "" {
		q.Set("filters[commodity]", commodity)
	}
	if state != "" {
		q.Set("filters[state.keyword]", state)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d from %s", resp.StatusCode, req.URL.Host)
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding market response: %w", err)
	}
	if body.Records == nil {
		return nil, fmt.Errorf("market response has no records field")
	}

	out := make([]model.PriceRecord, 0, len(body.Records))
	for _, r := range body.Records {
		out = append(out, normalize(r))
	}
	return out, nil
}

// normalize coerces the all-string upstream record: missing strings become
// "N/A", unparseable prices become 0.
func normalize(r rawRecord) model.PriceRecord {
	return model.PriceRecord{
		Commodity:  orNA(r.Commodity),
		Market:     orNA(r.Market),
		State:      orNA(r.State),
		District:   orNA(r.District),
		Date:       orToday(r.ArrivalDate),
		ModalPrice: parsePrice(r.ModalPrice),
		MinPrice:   parsePrice(r.MinPrice),
		MaxPrice:   parsePrice(r.MaxPrice),
		Variety:    orNA(r.Variety),
		Grade:      orNA(r.Grade),
		Source:     "Government API",
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orToday(s string) string {
	if s == "" {
		return time.Now().UTC().Format("2006-01-02")
	}
	return s
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// fallbackRecords synthesizes one record echoing the requested filters with
// placeholder prices.
func fallbackRecords(commodity, state string) []model.PriceRecord {
	if commodity == "" {
		commodity = "Rice"
	}
	if state == "" {
		state = "Delhi"
	}
	return []model.PriceRecord{{
		Commodity:  commodity,
		Market:     "Sample Market",
		State:      state,
		Date:       time.Now().UTC().Format("2006-01-02"),
		ModalPrice: 2500,
		MinPrice:   2300,
		MaxPrice:   2700,
		Source:     "Mock Data",
	}}
}

func toStored(records []model.PriceRecord) []model.StoredPrice {
	now := time.Now()
	out := make([]model.StoredPrice, 0, len(records))
	for _, r := range records {
		out = append(out, model.StoredPrice{
			Commodity:  r.Commodity,
			Market:     r.Market,
			State:      r.State,
			District:   r.District,
			Date:       r.Date,
			ModalPrice: r.ModalPrice,
			MinPrice:   r.MinPrice,
			MaxPrice:   r.MaxPrice,
			Variety:    r.Variety,
			Grade:      r.Grade,
			Source:     r.Source,
			FetchedAt:  now,
		})
	}
	return out
}

func paginate(records []model.PriceRecord, page, limit int) model.PricePage {
	total := len(records)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return model.PricePage{
		Records:    records[start:end],
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}
}
