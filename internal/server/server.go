// Package server wires the dependency graph and runs the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/neokrishi/farmer-assistant/internal/auth"
	"github.com/neokrishi/farmer-assistant/internal/cache"
	"github.com/neokrishi/farmer-assistant/internal/config"
	"github.com/neokrishi/farmer-assistant/internal/gateway/advisory"
	"github.com/neokrishi/farmer-assistant/internal/gateway/market"
	"github.com/neokrishi/farmer-assistant/internal/gateway/news"
	"github.com/neokrishi/farmer-assistant/internal/gateway/video"
	"github.com/neokrishi/farmer-assistant/internal/gateway/weather"
	"github.com/neokrishi/farmer-assistant/internal/handler"
	"github.com/neokrishi/farmer-assistant/internal/middleware"
	"github.com/neokrishi/farmer-assistant/internal/model"
	sqliteRepo "github.com/neokrishi/farmer-assistant/internal/repository/sqlite"
	"github.com/neokrishi/farmer-assistant/internal/service"
)

// Server owns the router and the database connection.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS)

	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	requireAuth := auth.RequireAuth(tokens)

	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
	communityService := service.NewCommunityService(s.db, s.logger)

	weatherCache := cache.New[model.WeatherReport](s.config.Cache.WeatherTTL)
	newsCache := cache.New[[]model.Article](s.config.Cache.NewsTTL)

	weatherGW := weather.New(s.config.Weather.APIKey, s.config.Weather.BaseURL, weatherCache, s.logger)
	newsGW := news.New(s.config.News.SearchURL, s.config.News.LatestURL, newsCache, s.logger)
	marketGW := market.New(s.config.Market.APIKey, s.config.Market.BaseURL, s.db, s.logger)
	videoGW := video.New(s.config.YouTube.APIKey, s.config.YouTube.BaseURL, s.logger)

	groq := advisory.NewGroqClient(s.config.Groq.APIKey, s.config.Groq.BaseURL)
	recommender := advisory.NewCropRecommender(groq, s.db, s.logger)
	chatbot := advisory.NewChatbot(groq)

	var vision advisory.VisionModel
	if s.config.Gemini.APIKey == "" {
		s.logger.Warn("GEMINI_API_KEY not set, disease analysis disabled")
		vision = advisory.UnavailableVision{}
	} else {
		v, err := advisory.NewGeminiVision(context.Background(), s.config.Gemini.APIKey, s.config.Gemini.Model)
		if err != nil {
			return fmt.Errorf("creating gemini client: %w", err)
		}
		vision = v
	}
	analyzer := advisory.NewDiseaseAnalyzer(vision, s.logger)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService)
	communityHandler := handler.NewCommunityHandler(communityService, requireAuth)
	weatherHandler := handler.NewWeatherHandler(weatherGW)
	newsHandler := handler.NewNewsHandler(newsGW)
	marketHandler := handler.NewMarketHandler(marketGW)
	videoHandler := handler.NewVideoHandler(videoGW)
	cropRecHandler := handler.NewCropRecHandler(recommender)
	diseaseHandler := handler.NewDiseaseHandler(analyzer)
	chatbotHandler := handler.NewChatbotHandler(chatbot)

	s.router.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/community", communityHandler.Routes())
		r.Mount("/market", marketHandler.Routes())

		r.Get("/weather", weatherHandler.Get)
		r.Get("/news", newsHandler.List)
		r.Get("/youtube/schemes", videoHandler.Schemes)
		r.Post("/chatbot/chat", chatbotHandler.Chat)
		r.Post("/disease/analyze-advanced", diseaseHandler.Analyze)

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Mount("/crop-reco", cropRecHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", profileHandler.Get)
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("database", s.config.Server.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
