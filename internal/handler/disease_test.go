package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neokrishi/farmer-assistant/internal/gateway/advisory"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubVision struct {
	reply string
	err   error
	calls int
}

func (s *stubVision) Describe(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

// multipartImage builds a multipart body with one "image" part.
func multipartImage(t *testing.T, fileName, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func newDiseaseHandler(vision *stubVision) *DiseaseHandler {
	return NewDiseaseHandler(advisory.NewDiseaseAnalyzer(vision, testLogger()))
}

func TestAnalyzeAttachesScanMetadata(t *testing.T) {
	vision := &stubVision{reply: `{"disease": "Rust", "confidence": 90, "severity": "High"}`}
	h := newDiseaseHandler(vision)

	body, contentType := multipartImage(t, "leaf.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0x01})
	req := httptest.NewRequest(http.MethodPost, "/analyze-advanced", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var scan model.DiseaseScan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	assert.Equal(t, "Rust", scan.Disease)
	assert.Equal(t, "leaf.jpg", scan.FileName)
	assert.Equal(t, int64(3), scan.FileSize)
	assert.NotEmpty(t, scan.ScanID)
	assert.False(t, scan.ScanDate.IsZero())
	assert.Equal(t, "advanced", scan.Mode)
}

func TestAnalyzeRejectsOversizedImage(t *testing.T) {
	vision := &stubVision{reply: "{}"}
	h := newDiseaseHandler(vision)

	body, contentType := multipartImage(t, "big.jpg", "image/jpeg", make([]byte, 6<<20))
	req := httptest.NewRequest(http.MethodPost, "/analyze-advanced", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, vision.calls, "oversized uploads never reach the provider")
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	vision := &stubVision{reply: "{}"}
	h := newDiseaseHandler(vision)

	body, contentType := multipartImage(t, "notes.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/analyze-advanced", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, vision.calls)
}

func TestAnalyzeMissingFile(t *testing.T) {
	h := newDiseaseHandler(&stubVision{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no image here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-advanced", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeFallbackReportIsComplete(t *testing.T) {
	vision := &stubVision{reply: "The leaf looks discolored but I cannot classify it."}
	h := newDiseaseHandler(vision)

	body, contentType := multipartImage(t, "leaf.png", "image/png", []byte{1, 2, 3})
	req := httptest.NewRequest(http.MethodPost, "/analyze-advanced", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var scan model.DiseaseScan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	assert.Equal(t, "Analysis Complete", scan.Disease)
	assert.Equal(t, 75.0, scan.Confidence)
	assert.NotEmpty(t, scan.Treatment)
	assert.NotEmpty(t, scan.Pesticides)
	assert.NotEmpty(t, scan.OrganicCures)
	assert.NotEmpty(t, scan.Fertilizers)
}
