package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultCacheTTL = 5 * time.Minute

type Config struct {
	GitHubToken    string
	GitHubUsername string
	GitHubAPIURL   string

	ProfileDir string
	CacheTTL   time.Duration
	Port       string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubUsername: os.Getenv("GITHUB_USERNAME"),
		GitHubAPIURL:   os.Getenv("GITHUB_API_URL"),

		ProfileDir: os.Getenv("PROFILE_DIR"),
		CacheTTL:   DefaultCacheTTL,
		Port:       os.Getenv("PORT"),

		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   os.Getenv("LLM_MODEL"),
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing CACHE_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", raw)
		}
		cfg.CacheTTL = ttl
	}

	// go-github requires a trailing slash on its base URL
	if cfg.GitHubAPIURL != "" && !strings.HasSuffix(cfg.GitHubAPIURL, "/") {
		cfg.GitHubAPIURL += "/"
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}

	return cfg, nil
}
