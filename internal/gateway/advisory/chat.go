package advisory

import (
	"context"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
)

const chatSystemPrompt = "You are NeoKrishi AI, a helpful farming assistant. " +
	"Provide concise, practical advice about agriculture, crops, weather, farming techniques, " +
	"and market information. Keep responses under 150 words."

// Chatbot answers free-form farming questions.
type Chatbot struct {
	groq *GroqClient
}

func NewChatbot(groq *GroqClient) *Chatbot {
	return &Chatbot{groq: groq}
}

// Reply sends one user message and returns the assistant text.
func (c *Chatbot) Reply(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", apperror.ValidationFailed("message", "message is required")
	}
	return c.groq.ChatCompletion(ctx, chatSystemPrompt, message, 200, 0.7)
}
