package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/neokrishi/farmer-assistant/internal/model"
	"github.com/neokrishi/farmer-assistant/internal/repository"
	"github.com/rs/xid"
)

var _ repository.MarketRepository = (*DB)(nil)
var _ repository.RecommendationRepository = (*DB)(nil)

// SavePrices persists a batch of fetched price records in one transaction.
func (db *DB) SavePrices(ctx context.Context, records []model.StoredPrice) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting price batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO market_prices (commodity, market, state, district, date, modal_price, min_price, max_price, variety, grade, source, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing price insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Commodity, r.Market, r.State, r.District, r.Date,
			r.ModalPrice, r.MinPrice, r.MaxPrice,
			r.Variety, r.Grade, r.Source, r.FetchedAt,
		); err != nil {
			return fmt.Errorf("sqlite: inserting price record: %w", err)
		}
	}

	return tx.Commit()
}

// SaveRecommendation persists one crop-recommendation history record.
// UserID may be empty (anonymous request); it is stored as NULL.
func (db *DB) SaveRecommendation(ctx context.Context, rec *model.CropRecommendation) error {
	rec.ID = xid.New().String()

	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO crop_recommendations (id, user_id, soil_type, last_crop, years_used, season, recommended_crop, notes, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		userID,
		rec.SoilType,
		rec.LastCrop,
		rec.YearsUsed,
		rec.Season,
		rec.RecommendedCrop,
		strings.Join(rec.Notes, "\n"),
		rec.Confidence,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting recommendation: %w", err)
	}
	return nil
}
