package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neokrishi/farmer-assistant/internal/model"
)

func TestSavePricesBatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	records := []model.StoredPrice{
		{
			Commodity: "Onion", Market: "Lasalgaon", State: "Maharashtra",
			District: "Nashik", Date: "2026-08-30",
			ModalPrice: 1800, MinPrice: 1500, MaxPrice: 2100,
			Variety: "Red", Grade: "FAQ", Source: "Government API",
			FetchedAt: time.Now(),
		},
		{
			Commodity: "Onion", Market: "Pimpalgaon", State: "Maharashtra",
			Date:       "2026-08-30",
			ModalPrice: 1750, MinPrice: 1400, MaxPrice: 2000,
			Source:    "Government API",
			FetchedAt: time.Now(),
		},
	}

	require.NoError(t, db.SavePrices(ctx, records))

	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM market_prices`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSavePricesEmptyBatchIsNoop(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.SavePrices(context.Background(), nil))
}

func TestSaveRecommendation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := newTestUser(t, db, "farmer@example.com", "Farmer")

	rec := &model.CropRecommendation{
		UserID:          u.ID,
		SoilType:        "Loamy",
		LastCrop:        "Wheat",
		YearsUsed:       3,
		Season:          "Rabi",
		RecommendedCrop: "Mustard",
		Notes:           []string{"rotate after two seasons", "test soil nitrogen"},
		Confidence:      82,
	}
	require.NoError(t, db.SaveRecommendation(ctx, rec))
	assert.NotEmpty(t, rec.ID)

	var soil, crop string
	var conf int
	err := db.conn.QueryRowContext(ctx,
		`SELECT soil_type, recommended_crop, confidence FROM crop_recommendations WHERE id = ?`,
		rec.ID).Scan(&soil, &crop, &conf)
	require.NoError(t, err)
	assert.Equal(t, "Loamy", soil)
	assert.Equal(t, "Mustard", crop)
	assert.Equal(t, 82, conf)
}

func TestSaveRecommendationAnonymous(t *testing.T) {
	db := newTestDB(t)

	rec := &model.CropRecommendation{
		SoilType:        "Clay",
		LastCrop:        "Rice",
		YearsUsed:       1,
		Season:          "Kharif",
		RecommendedCrop: "Sugarcane",
		Confidence:      75,
	}
	require.NoError(t, db.SaveRecommendation(context.Background(), rec))
}
