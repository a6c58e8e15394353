package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neokrishi/farmer-assistant/internal/gateway/market"
)

// MarketHandler serves mandi price quotes and the filter option lists.
type MarketHandler struct {
	market *market.Gateway
}

func NewMarketHandler(gw *market.Gateway) *MarketHandler {
	return &MarketHandler{market: gw}
}

func (h *MarketHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Prices)
	r.Get("/commodities", h.Commodities)
	r.Get("/states", h.States)
	return r
}

func (h *MarketHandler) Prices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(r, "page", market.DefaultPage)
	limit := queryInt(r, "limit", market.DefaultLimit)

	writeJSON(w, http.StatusOK, h.market.Prices(r.Context(), q.Get("commodity"), q.Get("state"), page, limit))
}

func (h *MarketHandler) Commodities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, market.Commodities)
}

func (h *MarketHandler) States(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, market.States)
}
