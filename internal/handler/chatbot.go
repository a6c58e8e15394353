package handler

import (
	"encoding/json"
	"net/http"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/gateway/advisory"
)

// ChatbotHandler answers free-form farming questions.
type ChatbotHandler struct {
	bot *advisory.Chatbot
}

func NewChatbotHandler(bot *advisory.Chatbot) *ChatbotHandler {
	return &ChatbotHandler{bot: bot}
}

type chatbotRequest struct {
	Message string `json:"message"`
}

type chatbotResponse struct {
	Reply string `json:"reply"`
}

func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in chatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	reply, err := h.bot.Reply(r.Context(), in.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatbotResponse{Reply: reply})
}
