package handler

import (
	"net/http"

	"github.com/neokrishi/farmer-assistant/internal/gateway/weather"
)

// WeatherHandler serves current conditions plus the 5-day outlook.
type WeatherHandler struct {
	weather *weather.Gateway
}

func NewWeatherHandler(gw *weather.Gateway) *WeatherHandler {
	return &WeatherHandler{weather: gw}
}

func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")

	report, err := h.weather.Report(r.Context(), lat, lon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
