package handler

import (
	"net/http"

	"github.com/neokrishi/farmer-assistant/internal/auth"
	"github.com/neokrishi/farmer-assistant/internal/service"
)

// ProfileHandler serves the authenticated self-view.
type ProfileHandler struct {
	auth *service.AuthService
}

func NewProfileHandler(authSvc *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: authSvc}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	profile, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
