package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/auth"
	"github.com/neokrishi/farmer-assistant/internal/service"
)

// CommunityHandler exposes the farmer directory, follows and messages.
type CommunityHandler struct {
	community   *service.CommunityService
	requireAuth func(http.Handler) http.Handler
}

func NewCommunityHandler(community *service.CommunityService, requireAuth func(http.Handler) http.Handler) *CommunityHandler {
	return &CommunityHandler{community: community, requireAuth: requireAuth}
}

func (h *CommunityHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Administrative endpoints, no auth in the upstream contract.
	r.Post("/update-avatars", h.UpdateAvatars)
	r.Delete("/cleanup-all", h.Cleanup)

	// Public profile lookup.
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/all", h.List)
		r.Post("/follow/{farmerId}", h.Follow)
		r.Post("/message/{userId}", h.Message)
	})
	return r
}

func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	users, err := h.community.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.community.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *CommunityHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.community.Follow(r.Context(), userID, chi.URLParam(r, "farmerId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully followed farmer"})
}

type messageRequest struct {
	Message string `json:"message"`
}

func (h *CommunityHandler) Message(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.community.Message(r.Context(), userID, chi.URLParam(r, "userId"), in.Message); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully"})
}

func (h *CommunityHandler) UpdateAvatars(w http.ResponseWriter, r *http.Request) {
	n, err := h.community.UpdateAvatars(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Avatars updated successfully",
		"usersUpdated": n,
	})
}

func (h *CommunityHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	n, err := h.community.Cleanup(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Cleanup completed",
		"mockUsersRemoved": n,
	})
}
