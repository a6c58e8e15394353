package model

import "time"

// CropAdviceRequest carries the soil and nutrient data submitted for an
// AI crop recommendation. Only SoilType, LastCrop, YearsUsed and Season are
// expected on every request; the rest are optional refinements.
type CropAdviceRequest struct {
	SoilType   string `json:"soilType"`
	LastCrop   string `json:"lastCrop"`
	YearsUsed  int    `json:"yearsUsed"`
	Season     string `json:"season"`
	Nitrogen   string `json:"nitrogen,omitempty"`
	Phosphorus string `json:"phosphorus,omitempty"`
	Potassium  string `json:"potassium,omitempty"`
	PH         string `json:"ph,omitempty"`
	Moisture   string `json:"moisture,omitempty"`
	Location   string `json:"location,omitempty"`
}

// CropAdvice is the structured recommendation parsed out of the model reply.
type CropAdvice struct {
	Crops []CropOption `json:"crops"`
}

// CropOption is one recommended crop.
type CropOption struct {
	Name          string   `json:"name"`
	Profitability float64  `json:"profitability"`
	Suitability   string   `json:"suitability"`
	SoilMatch     float64  `json:"soilMatch"`
	Tips          []string `json:"tips"`
}

// CropAdviceFallback is returned when the model reply contains no parseable
// JSON. It embeds the raw model text and echoes the input so the caller
// still receives a usable payload.
type CropAdviceFallback struct {
	Mode       string            `json:"mode"`
	AIResponse string            `json:"aiResponse"`
	InputData  CropAdviceRequest `json:"inputData"`
}

// CropRecommendation is the persisted history record for a successful
// recommendation. Anonymous requests are allowed, so UserID may be empty.
type CropRecommendation struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	SoilType        string    `json:"soilType"`
	LastCrop        string    `json:"lastCrop"`
	YearsUsed       int       `json:"yearsUsed"`
	Season          string    `json:"season"`
	RecommendedCrop string    `json:"recommendedCrop"`
	Notes           []string  `json:"notes"`
	Confidence      int       `json:"confidence"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DiseaseReport is the structured result of a plant-image analysis. When the
// model reply cannot be parsed, a fixed fallback report is substituted with
// the raw text in Treatment. This endpoint never surfaces a parse failure.
type DiseaseReport struct {
	Disease      string   `json:"disease"`
	Confidence   float64  `json:"confidence"`
	Severity     string   `json:"severity"`
	Treatment    string   `json:"treatment"`
	Prevention   string   `json:"prevention"`
	Pesticides   []string `json:"pesticides"`
	OrganicCures []string `json:"organicCures"`
	SprayTiming  string   `json:"sprayTiming"`
	Fertilizers  []string `json:"fertilizers"`
}

// DiseaseScan wraps a DiseaseReport with the upload metadata attached by the
// handler.
type DiseaseScan struct {
	DiseaseReport
	FileName string    `json:"fileName"`
	FileSize int64     `json:"fileSize"`
	ScanDate time.Time `json:"scanDate"`
	ScanID   string    `json:"scanId"`
	Mode     string    `json:"mode"`
}
