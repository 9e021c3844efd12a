package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for Load to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TWITTER_CLIENT_ID", "client_id")
	t.Setenv("TWITTER_CLIENT_SECRET", "client_secret")
	t.Setenv("TWITTER_REDIRECT_URI", "http://localhost:8080/authorize/twitter/callback")
	t.Setenv("TWITTER_OAUTH_STATE", "state_secret")
	t.Setenv("HUGGINGFACE_API_KEY", "hf_key")
}

func validConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			ClientID:      "client_id",
			ClientSecret:  "client_secret",
			RedirectURI:   "http://localhost:8080/authorize/twitter/callback",
			State:         "state_secret",
			CodeChallenge: "challenge",
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL: "https://api-inference.huggingface.co",
			APIKey:  "hf_key",
		},
		HTTPClient: HTTPClientConfig{Timeout: 10 * time.Second},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "https://api.x.com", cfg.Twitter.BaseURL)
	assert.Equal(t, "https://api.x.com/2/oauth2/token", cfg.Twitter.TokenURL)
	assert.Equal(t, "https://x.com/i/oauth2/authorize", cfg.Twitter.AuthorizeURL)
	assert.Equal(t, []string{"tweet.read", "tweet.write", "users.read", "offline.access"}, cfg.Twitter.Scopes)
	assert.Equal(t, "challenge", cfg.Twitter.CodeChallenge)
	assert.Equal(t, "plain", cfg.Twitter.CodeChallengeMethod)
	assert.Equal(t, "code", cfg.Twitter.ResponseType)
	assert.Equal(t, "https://api-inference.huggingface.co", cfg.HuggingFace.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPClient.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TWITTER_BASE_URL", "http://localhost:7001")
	t.Setenv("TWITTER_OAUTH_SCOPES", "tweet.write")
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "30")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, "http://localhost:7001", cfg.Twitter.BaseURL)
	assert.Equal(t, []string{"tweet.write"}, cfg.Twitter.Scopes)
	assert.Equal(t, 30*time.Second, cfg.HTTPClient.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TWITTER_CLIENT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWITTER_CLIENT_ID")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing client id", func(c *Config) { c.Twitter.ClientID = "" }, "TWITTER_CLIENT_ID"},
		{"missing client secret", func(c *Config) { c.Twitter.ClientSecret = "" }, "TWITTER_CLIENT_SECRET"},
		{"missing redirect uri", func(c *Config) { c.Twitter.RedirectURI = "" }, "TWITTER_REDIRECT_URI"},
		{"missing state", func(c *Config) { c.Twitter.State = "" }, "TWITTER_OAUTH_STATE"},
		{"missing code challenge", func(c *Config) { c.Twitter.CodeChallenge = "" }, "TWITTER_CODE_CHALLENGE"},
		{"missing hf api key", func(c *Config) { c.HuggingFace.APIKey = "" }, "HUGGINGFACE_API_KEY"},
		{"missing hf base url", func(c *Config) { c.HuggingFace.BaseURL = "" }, "HUGGINGFACE_BASE_URL"},
		{"zero timeout", func(c *Config) { c.HTTPClient.Timeout = 0 }, "HTTP_CLIENT_TIMEOUT_SECONDS"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
