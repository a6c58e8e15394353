package advisory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVision returns a canned reply and records what it was asked.
type fakeVision struct {
	reply    string
	err      error
	prompt   string
	image    []byte
	mimeType string
}

func (f *fakeVision) Describe(_ context.Context, prompt string, image []byte, mimeType string) (string, error) {
	f.prompt = prompt
	f.image = image
	f.mimeType = mimeType
	return f.reply, f.err
}

func TestAnalyzeParsesStructuredReply(t *testing.T) {
	vision := &fakeVision{reply: "```json\n" + `{
  "disease": "Leaf Blight",
  "confidence": 88,
  "severity": "Medium",
  "treatment": "Remove affected leaves",
  "prevention": "Rotate crops",
  "pesticides": ["Mancozeb"],
  "organicCures": ["Neem oil"],
  "sprayTiming": "Evening",
  "fertilizers": ["Urea"]
}` + "\n```"}

	a := NewDiseaseAnalyzer(vision, testLogger())
	report, err := a.Analyze(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Leaf Blight", report.Disease)
	assert.Equal(t, 88.0, report.Confidence)
	assert.Equal(t, "Medium", report.Severity)
	assert.Equal(t, []string{"Mancozeb"}, report.Pesticides)

	assert.Equal(t, "image/jpeg", vision.mimeType)
	assert.Equal(t, []byte{0xFF, 0xD8}, vision.image)
	assert.Contains(t, vision.prompt, "Analyze this plant image for diseases")
}

func TestAnalyzeUnparseableReplyYieldsFallback(t *testing.T) {
	vision := &fakeVision{reply: "The plant appears stressed but I cannot say more."}

	a := NewDiseaseAnalyzer(vision, testLogger())
	report, err := a.Analyze(context.Background(), []byte{1}, "image/png")
	require.NoError(t, err, "a parse failure never surfaces as an error")

	assert.Equal(t, "Analysis Complete", report.Disease)
	assert.Equal(t, 75.0, report.Confidence)
	assert.Equal(t, "Unknown", report.Severity)
	assert.Equal(t, "The plant appears stressed but I cannot say more.", report.Treatment)
	assert.Equal(t, "Follow general plant care guidelines", report.Prevention)
	assert.Equal(t, []string{"Consult local agricultural expert"}, report.Pesticides)
	assert.Equal(t, []string{"Neem oil", "Baking soda solution"}, report.OrganicCures)
	assert.Equal(t, "Early morning or evening", report.SprayTiming)
	assert.Equal(t, []string{"Balanced NPK fertilizer"}, report.Fertilizers)
}

func TestAnalyzeProviderFailure(t *testing.T) {
	vision := &fakeVision{err: errors.New("quota exhausted")}

	a := NewDiseaseAnalyzer(vision, testLogger())
	_, err := a.Analyze(context.Background(), []byte{1}, "image/png")
	assert.Error(t, err)
}
