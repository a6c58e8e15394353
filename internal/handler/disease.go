package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/gateway/advisory"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

// maxImageSize bounds plant photo uploads.
const maxImageSize = 5 << 20

// DiseaseHandler accepts a plant photo and returns the analysis report.
type DiseaseHandler struct {
	analyzer *advisory.DiseaseAnalyzer
}

func NewDiseaseHandler(analyzer *advisory.DiseaseAnalyzer) *DiseaseHandler {
	return &DiseaseHandler{analyzer: analyzer}
}

func (h *DiseaseHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1024)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, apperror.ValidationFailed("image", "image must be at most 5MB"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "no image file provided"))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		writeError(w, apperror.ValidationFailed("image", "image must be at most 5MB"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, apperror.ValidationFailed("image", "only image files are allowed"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), data, mimeType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DiseaseScan{
		DiseaseReport: report,
		FileName:      header.Filename,
		FileSize:      header.Size,
		ScanDate:      time.Now().UTC(),
		ScanID:        xid.New().String(),
		Mode:          "advanced",
	})
}
