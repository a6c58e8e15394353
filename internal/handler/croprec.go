package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/auth"
	"github.com/neokrishi/farmer-assistant/internal/gateway/advisory"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

// CropRecHandler serves AI crop recommendations and the form helper lists.
type CropRecHandler struct {
	recommender *advisory.CropRecommender
}

func NewCropRecHandler(rec *advisory.CropRecommender) *CropRecHandler {
	return &CropRecHandler{recommender: rec}
}

func (h *CropRecHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/advanced", h.Advanced)
	r.Get("/soil-types", h.SoilTypes)
	r.Get("/crops", h.Crops)
	r.Get("/seasons", h.Seasons)
	return r
}

func (h *CropRecHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	var in model.CropAdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	// Anonymous requests are allowed; a valid token just attributes the
	// history record.
	userID, _ := auth.UserIDFromContext(r.Context())

	result, err := h.recommender.Recommend(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CropRecHandler) SoilTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, advisory.SoilTypes)
}

func (h *CropRecHandler) Crops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, advisory.CommonCrops)
}

func (h *CropRecHandler) Seasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, advisory.Seasons)
}
