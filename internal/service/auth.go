// Package service holds the business logic between the HTTP handlers and
// the repositories.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/auth"
	"github.com/neokrishi/farmer-assistant/internal/model"
	"github.com/neokrishi/farmer-assistant/internal/repository"
)

// AuthService handles registration, login and the authenticated self-view.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Location   string   `json:"location"`
	Crops      []string `json:"crops"`
	Experience string   `json:"experience"`
}

// AuthResult bundles the account with its issued session token.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates an account and issues a session token. A duplicate email
// surfaces as apperror.Conflict from the repository.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, apperror.ValidationFailed("password", "password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Location:     in.Location,
		Crops:        in.Crops,
		Experience:   in.Experience,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords both map to the same unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// Profile assembles the authenticated self-view: identity plus edge lists
// and inbox.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.users.Messages(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.Profile{
		Email:     user.Email,
		JoinDate:  user.CreatedAt,
		Followers: user.Followers,
		Following: user.Following,
		Messages:  messages,
	}, nil
}
