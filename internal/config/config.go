// Package config provides application configuration management using environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Twitter     TwitterConfig
	HuggingFace HuggingFaceConfig
	HTTPClient  HTTPClientConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPPort string
	Host     string
	Env      string
}

// TwitterConfig holds Twitter/X OAuth and API configuration
type TwitterConfig struct {
	BaseURL             string
	TokenURL            string
	AuthorizeURL        string
	ClientID            string
	ClientSecret        string
	RedirectURI         string
	Scopes              []string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
	ResponseType        string
}

// HuggingFaceConfig holds Hugging Face inference API configuration
type HuggingFaceConfig struct {
	BaseURL string
	APIKey  string
}

// HTTPClientConfig holds outbound HTTP client configuration
type HTTPClientConfig struct {
	Timeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
// It optionally loads from a .env file if it exists.
func Load() (*Config, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Host:     getEnv("SERVER_HOST", "localhost"),
		Env:      getEnv("ENVIRONMENT", "development"),
	}

	cfg.Twitter = TwitterConfig{
		BaseURL:             getEnv("TWITTER_BASE_URL", "https://api.x.com"),
		TokenURL:            getEnv("TWITTER_TOKEN_URL", "https://api.x.com/2/oauth2/token"),
		AuthorizeURL:        getEnv("TWITTER_AUTHORIZE_URL", "https://x.com/i/oauth2/authorize"),
		ClientID:            getEnv("TWITTER_CLIENT_ID", ""),
		ClientSecret:        getEnv("TWITTER_CLIENT_SECRET", ""),
		RedirectURI:         getEnv("TWITTER_REDIRECT_URI", ""),
		Scopes:              strings.Split(getEnv("TWITTER_OAUTH_SCOPES", "tweet.read tweet.write users.read offline.access"), " "),
		State:               getEnv("TWITTER_OAUTH_STATE", ""),
		CodeChallenge:       getEnv("TWITTER_CODE_CHALLENGE", "challenge"),
		CodeChallengeMethod: getEnv("TWITTER_CODE_CHALLENGE_METHOD", "plain"),
		ResponseType:        getEnv("TWITTER_RESPONSE_TYPE", "code"),
	}

	cfg.HuggingFace = HuggingFaceConfig{
		BaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co"),
		APIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
	}

	timeoutSeconds, _ := strconv.Atoi(getEnv("HTTP_CLIENT_TIMEOUT_SECONDS", "10"))
	cfg.HTTPClient = HTTPClientConfig{
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}

	cfg.Logging = LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Twitter.ClientID == "" {
		return fmt.Errorf("TWITTER_CLIENT_ID is required")
	}
	if c.Twitter.ClientSecret == "" {
		return fmt.Errorf("TWITTER_CLIENT_SECRET is required")
	}
	if c.Twitter.RedirectURI == "" {
		return fmt.Errorf("TWITTER_REDIRECT_URI is required")
	}
	if c.Twitter.State == "" {
		return fmt.Errorf("TWITTER_OAUTH_STATE is required")
	}
	if c.Twitter.CodeChallenge == "" {
		return fmt.Errorf("TWITTER_CODE_CHALLENGE is required")
	}

	if c.HuggingFace.APIKey == "" {
		return fmt.Errorf("HUGGINGFACE_API_KEY is required")
	}
	if c.HuggingFace.BaseURL == "" {
		return fmt.Errorf("HUGGINGFACE_BASE_URL is required")
	}

	if c.HTTPClient.Timeout <= 0 {
		return fmt.Errorf("HTTP_CLIENT_TIMEOUT_SECONDS must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
