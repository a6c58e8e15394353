// Package config loads application configuration from the environment.
//
// A .env file is honored when present (development convenience); real
// environments set the variables directly. Missing provider keys are a
// configuration fault; the affected gateway will fail upstream calls and
// apply its own fallback policy.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Cache  CacheConfig

	Weather WeatherConfig
	News    NewsConfig
	Market  MarketConfig
	YouTube YouTubeConfig
	Groq    GroqConfig
	Gemini  GeminiConfig
}

type ServerConfig struct {
	Port   int
	DBPath string
}

type AuthConfig struct {
	JWTSecret string
}

type CacheConfig struct {
	WeatherTTL time.Duration
	NewsTTL    time.Duration
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
}

type NewsConfig struct {
	SearchURL string
	LatestURL string
}

type MarketConfig struct {
	APIKey  string
	BaseURL string
}

type YouTubeConfig struct {
	APIKey  string
	BaseURL string
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads the environment (and an optional .env file) into a Config.
// JWT_SECRET is the only hard requirement; everything else has a default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("missing env JWT_SECRET")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:   envInt("PORT", 5000),
			DBPath: envString("DB_PATH", "data/neokrishi.db"),
		},
		Auth: AuthConfig{
			JWTSecret: secret,
		},
		Cache: CacheConfig{
			WeatherTTL: envDuration("WEATHER_CACHE_TTL", 5*time.Minute),
			NewsTTL:    envDuration("NEWS_CACHE_TTL", 15*time.Minute),
		},
		Weather: WeatherConfig{
			APIKey:  os.Getenv("OPENWEATHER_KEY"),
			BaseURL: envString("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		},
		News: NewsConfig{
			SearchURL: envString("NEWS_SEARCH_URL", "https://news.knowivate.com/api/search"),
			LatestURL: envString("NEWS_LATEST_URL", "https://news.knowivate.com/api/latest"),
		},
		Market: MarketConfig{
			APIKey:  os.Getenv("DATA_GOV_API_KEY"),
			BaseURL: envString("DATA_GOV_BASE_URL", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"),
		},
		YouTube: YouTubeConfig{
			APIKey:  os.Getenv("YOUTUBE_API_KEY"),
			BaseURL: envString("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3/search"),
		},
		Groq: GroqConfig{
			APIKey:  os.Getenv("GROQ_API_KEY"),
			BaseURL: envString("GROQ_BASE_URL", "https://api.groq.com/openai/v1/chat/completions"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envString("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
