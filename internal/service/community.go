package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/model"
	"github.com/neokrishi/farmer-assistant/internal/repository"
)

// legacyEmailSuffix marks seeded demo accounts removed by Cleanup.
const legacyEmailSuffix = "@farmer.com"

// CommunityService implements the farmer directory, the follow graph and
// direct messages.
type CommunityService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewCommunityService(users repository.UserRepository, logger *slog.Logger) *CommunityService {
	return &CommunityService{users: users, logger: logger}
}

// List returns every account except the caller's own.
func (s *CommunityService) List(ctx context.Context, callerID string) ([]model.User, error) {
	return s.users.List(ctx, callerID)
}

// Get returns one farmer's public profile.
func (s *CommunityService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Follow records callerID following farmerID. Following yourself is
// rejected; following someone twice is a silent no-op.
func (s *CommunityService) Follow(ctx context.Context, callerID, farmerID string) error {
	if callerID == farmerID {
		return apperror.ValidationFailed("farmerId", "cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, farmerID); err != nil {
		return err
	}
	if err := s.users.Follow(ctx, callerID, farmerID); err != nil {
		return err
	}
	s.logger.Info("follow recorded",
		slog.String("follower", callerID),
		slog.String("followed", farmerID),
	)
	return nil
}

// Message appends a message to the recipient's inbox. Repeated sends are
// delivered repeatedly.
func (s *CommunityService) Message(ctx context.Context, fromID, toID, body string) error {
	if body == "" {
		return apperror.ValidationFailed("message", "message is required")
	}
	if _, err := s.users.GetByID(ctx, toID); err != nil {
		return err
	}
	return s.users.AppendMessage(ctx, toID, fromID, body, time.Now().UTC())
}

// UpdateAvatars resets every account's avatar to the default picture and
// returns the number of accounts touched.
func (s *CommunityService) UpdateAvatars(ctx context.Context) (int64, error) {
	n, err := s.users.UpdateAllAvatars(ctx, model.DefaultAvatarURL)
	if err != nil {
		return 0, err
	}
	s.logger.Info("avatars reset", slog.Int64("users_updated", n))
	return n, nil
}

// Cleanup removes seeded demo accounts and returns how many were deleted.
func (s *CommunityService) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.users.DeleteByEmailSuffix(ctx, legacyEmailSuffix)
	if err != nil {
		return 0, err
	}
	s.logger.Info("cleanup completed", slog.Int64("mock_users_removed", n))
	return n, nil
}
