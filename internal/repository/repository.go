// Package repository declares the storage interfaces consumed by the service
// and gateway layers. The sqlite subpackage provides the implementation.
package repository

import (
	"context"
	"time"

	"github.com/neokrishi/farmer-assistant/internal/model"
)

// UserRepository persists accounts, the follow graph, and inbox messages.
type UserRepository interface {
	// Create inserts a new account. A duplicate email yields an
	// apperror.Conflict.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns all users except excludeID, with edge lists populated
	// and password hashes omitted.
	List(ctx context.Context, excludeID string) ([]model.User, error)

	// Follow records the edge follower→followed. Inserting an existing edge
	// is a no-op, so both sides' edge lists stay duplicate-free.
	Follow(ctx context.Context, followerID, followedID string) error
	Followers(ctx context.Context, userID string) ([]model.UserRef, error)
	Following(ctx context.Context, userID string) ([]model.UserRef, error)

	// AppendMessage adds a timestamped message to the recipient's inbox.
	// Appends are not deduplicated.
	AppendMessage(ctx context.Context, toID, fromID, body string, at time.Time) error
	Messages(ctx context.Context, userID string) ([]model.Message, error)

	// UpdateAllAvatars sets every account's avatar URL and returns the
	// number of rows touched.
	UpdateAllAvatars(ctx context.Context, avatarURL string) (int64, error)
	// DeleteByEmailSuffix removes legacy accounts whose email ends with the
	// given suffix and returns the number removed.
	DeleteByEmailSuffix(ctx context.Context, suffix string) (int64, error)
}

// MarketRepository stores fetched mandi prices. Writes are opportunistic;
// there is no read path and no eviction.
type MarketRepository interface {
	SavePrices(ctx context.Context, records []model.StoredPrice) error
}

// RecommendationRepository stores crop recommendation history records.
type RecommendationRepository interface {
	SaveRecommendation(ctx context.Context, rec *model.CropRecommendation) error
}
