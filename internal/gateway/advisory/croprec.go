// Package advisory wraps the AI providers behind the recommendation,
// disease-analysis and chatbot endpoints.
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/model"
	"github.com/neokrishi/farmer-assistant/internal/repository"
)

// SoilTypes, CommonCrops and Seasons back the form-helper endpoints.
var (
	SoilTypes = []string{"Clay", "Sandy", "Loamy", "Silt", "Peaty", "Chalky"}

	CommonCrops = []string{
		"Rice", "Wheat", "Maize", "Cotton", "Sugarcane", "Groundnut",
		"Soybean", "Millet", "Barley", "Vegetables", "Pulses",
	}

	Seasons = []string{"Kharif", "Rabi", "Zaid"}
)

const cropRecSystemPrompt = "You are an expert agricultural scientist. " +
	"Provide precise, practical crop recommendations based on soil and environmental data."

// CropRecommender produces structured crop advice from soil data.
type CropRecommender struct {
	groq    *GroqClient
	history repository.RecommendationRepository
	logger  *slog.Logger
}

// NewCropRecommender creates a recommender. history receives successful
// recommendations; pass nil to disable persistence.
func NewCropRecommender(groq *GroqClient, history repository.RecommendationRepository, logger *slog.Logger) *CropRecommender {
	return &CropRecommender{groq: groq, history: history, logger: logger}
}

// Recommend asks the model for crop advice. A reply with parseable JSON
// yields a model.CropAdvice; otherwise a model.CropAdviceFallback carrying
// the raw text is returned. userID may be empty for anonymous requests.
func (r *CropRecommender) Recommend(ctx context.Context, userID string, req model.CropAdviceRequest) (any, error) {
	if req.SoilType == "" {
		return nil, apperror.ValidationFailed("soilType", "soilType is required")
	}
	if req.Season == "" {
		return nil, apperror.ValidationFailed("season", "season is required")
	}

	reply, err := r.groq.ChatCompletion(ctx, cropRecSystemPrompt, buildCropPrompt(req), 500, 0.3)
	if err != nil {
		return nil, err
	}

	advice, ok := parseCropAdvice(reply)
	if !ok {
		return model.CropAdviceFallback{
			Mode:       "advanced",
			AIResponse: reply,
			InputData:  req,
		}, nil
	}

	if r.history != nil && len(advice.Crops) > 0 {
		if rec, ok := historyRecord(userID, req, advice); ok {
			if err := r.history.SaveRecommendation(ctx, rec); err != nil {
				r.logger.Warn("saving recommendation history failed", slog.String("error", err.Error()))
			}
		} else {
			r.logger.Warn("request outside history bounds, recommendation not recorded",
				slog.String("soilType", req.SoilType),
				slog.String("season", req.Season),
				slog.Int("yearsUsed", req.YearsUsed),
			)
		}
	}
	return advice, nil
}

func buildCropPrompt(req model.CropAdviceRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, `As an expert agronomist, recommend the best crops based on:

Soil Analysis:
- Soil Type: %s
- Last Crop: %s (grown for %d years)
- Season: %s`, req.SoilType, req.LastCrop, req.YearsUsed, req.Season)

	if req.Nitrogen != "" || req.Phosphorus != "" || req.Potassium != "" {
		fmt.Fprintf(&b, "\n- NPK Values: N=%s, P=%s, K=%s mg/kg",
			orUnknown(req.Nitrogen), orUnknown(req.Phosphorus), orUnknown(req.Potassium))
	}
	if req.PH != "" {
		fmt.Fprintf(&b, "\n- pH Level: %s", req.PH)
	}
	if req.Moisture != "" {
		fmt.Fprintf(&b, "\n- Soil Moisture: %s%%", req.Moisture)
	}
	if req.Location != "" {
		fmt.Fprintf(&b, "\n- Location: %s", req.Location)
	}

	b.WriteString(`

Provide:
1. Top 3 recommended crops with reasons
2. Profitability score (1-10)
3. Climate suitability
4. Soil match score
5. Specific farming tips

Format as JSON with: {"crops": [{"name": "", "profitability": 0, "suitability": "", "soilMatch": 0, "tips": []}]}`)
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func parseCropAdvice(reply string) (model.CropAdvice, bool) {
	raw, err := extractJSON(reply)
	if err != nil {
		return model.CropAdvice{}, false
	}
	var advice model.CropAdvice
	if err := json.Unmarshal([]byte(raw), &advice); err != nil {
		return model.CropAdvice{}, false
	}
	return advice, true
}

const defaultConfidence = 75

// historyRecord builds the persisted record for the top recommendation.
// History rows carry tighter invariants than the request itself: soil type
// and season must be known enum values, yearsUsed must be 0-50, and
// confidence is a 0-100 percentage. Requests outside those bounds are
// answered but not recorded.
func historyRecord(userID string, req model.CropAdviceRequest, advice model.CropAdvice) (*model.CropRecommendation, bool) {
	if !slices.Contains(SoilTypes, req.SoilType) || !slices.Contains(Seasons, req.Season) {
		return nil, false
	}
	if req.YearsUsed < 0 || req.YearsUsed > 50 {
		return nil, false
	}

	top := advice.Crops[0]
	return &model.CropRecommendation{
		ID:              xid.New().String(),
		UserID:          userID,
		SoilType:        req.SoilType,
		LastCrop:        req.LastCrop,
		YearsUsed:       req.YearsUsed,
		Season:          req.Season,
		RecommendedCrop: top.Name,
		Notes:           top.Tips,
		Confidence:      confidenceFrom(top.SoilMatch),
		CreatedAt:       time.Now().UTC(),
	}, true
}

// confidenceFrom converts a 0-10 soil match score to a 0-100 percentage.
// An absent score stores the default; out-of-scale scores clamp rather than
// escape the percentage range.
func confidenceFrom(soilMatch float64) int {
	if soilMatch == 0 {
		return defaultConfidence
	}
	c := int(math.Round(soilMatch * 10))
	return min(max(c, 0), 100)
}
