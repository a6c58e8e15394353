package handler

import (
	"net/http"

	"github.com/neokrishi/farmer-assistant/internal/gateway/video"
)

// VideoHandler serves government scheme videos.
type VideoHandler struct {
	videos *video.Gateway
}

func NewVideoHandler(gw *video.Gateway) *VideoHandler {
	return &VideoHandler{videos: gw}
}

func (h *VideoHandler) Schemes(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", video.DefaultPage)
	limit := queryInt(r, "limit", video.DefaultLimit)

	writeJSON(w, http.StatusOK, h.videos.Page(r.Context(), page, limit))
}
