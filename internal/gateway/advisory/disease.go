package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

const diseasePrompt = `Analyze this plant image for diseases. Provide response in JSON format with:
{
  "disease": "disease name or 'Healthy Plant'",
  "confidence": confidence_percentage,
  "severity": "Low/Medium/High/None",
  "treatment": "specific treatment steps",
  "prevention": "prevention measures",
  "pesticides": ["recommended pesticides"],
  "organicCures": ["organic treatment options"],
  "sprayTiming": "when to apply treatment",
  "fertilizers": ["recommended fertilizers"]
}`

// VisionModel answers a text prompt about an inline image.
type VisionModel interface {
	Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// GeminiVision is the production VisionModel backed by the Gemini API.
type GeminiVision struct {
	client *genai.Client
	model  string
}

func NewGeminiVision(ctx context.Context, apiKey, model string) (*GeminiVision, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiVision{client: client, model: model}, nil
}

func (g *GeminiVision) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", apperror.Upstream("gemini", err)
	}
	return result.Text(), nil
}

// UnavailableVision stands in when no Gemini key is configured. Every call
// fails upstream, which keeps the endpoint's error contract intact.
type UnavailableVision struct{}

func (UnavailableVision) Describe(context.Context, string, []byte, string) (string, error) {
	return "", apperror.Upstream("gemini", fmt.Errorf("vision model not configured"))
}

// DiseaseAnalyzer turns a plant photo into a structured DiseaseReport.
type DiseaseAnalyzer struct {
	vision VisionModel
	logger *slog.Logger
}

func NewDiseaseAnalyzer(vision VisionModel, logger *slog.Logger) *DiseaseAnalyzer {
	return &DiseaseAnalyzer{vision: vision, logger: logger}
}

// Analyze submits the image and parses the reply. An unparseable reply
// yields the fixed fallback report with the raw text as treatment; only a
// provider failure is returned as an error.
func (a *DiseaseAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (model.DiseaseReport, error) {
	reply, err := a.vision.Describe(ctx, diseasePrompt, image, mimeType)
	if err != nil {
		return model.DiseaseReport{}, err
	}

	report, ok := parseDiseaseReport(reply)
	if !ok {
		a.logger.Warn("disease reply had no parseable JSON, using fallback report")
		return fallbackReport(reply), nil
	}
	return report, nil
}

func parseDiseaseReport(reply string) (model.DiseaseReport, bool) {
	raw, err := extractJSON(reply)
	if err != nil {
		return model.DiseaseReport{}, false
	}
	var report model.DiseaseReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return model.DiseaseReport{}, false
	}
	return report, true
}

func fallbackReport(reply string) model.DiseaseReport {
	return model.DiseaseReport{
		Disease:      "Analysis Complete",
		Confidence:   75,
		Severity:     "Unknown",
		Treatment:    reply,
		Prevention:   "Follow general plant care guidelines",
		Pesticides:   []string{"Consult local agricultural expert"},
		OrganicCures: []string{"Neem oil", "Baking soda solution"},
		SprayTiming:  "Early morning or evening",
		Fertilizers:  []string{"Balanced NPK fertilizer"},
	}
}
