package handler

import (
	"net/http"
	"strconv"

	"github.com/neokrishi/farmer-assistant/internal/gateway/news"
)

// NewsHandler serves the paginated agriculture news feed.
type NewsHandler struct {
	news *news.Gateway
}

func NewNewsHandler(gw *news.Gateway) *NewsHandler {
	return &NewsHandler{news: gw}
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", news.DefaultPage)
	limit := queryInt(r, "limit", news.DefaultLimit)

	writeJSON(w, http.StatusOK, h.news.Page(r.Context(), page, limit))
}

// queryInt parses an integer query parameter, falling back on absent or
// unparseable values.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
