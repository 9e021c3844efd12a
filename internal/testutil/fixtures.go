package testutil

import (
	"time"

	"github.com/woodycollective/woodyswildguess/internal/config"
	"github.com/woodycollective/woodyswildguess/internal/huggingface"
)

// GenerateTestConfig creates a valid configuration for tests.
func GenerateTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			HTTPPort: "8080",
			Host:     "localhost",
			Env:      "test",
		},
		Twitter: config.TwitterConfig{
			BaseURL:             "https://api.x.com",
			TokenURL:            "https://api.x.com/2/oauth2/token",
			AuthorizeURL:        "https://x.com/i/oauth2/authorize",
			ClientID:            "test_client_id",
			ClientSecret:        "test_client_secret",
			RedirectURI:         "http://localhost:8080/authorize/twitter/callback",
			Scopes:              []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
			State:               "test_state_secret",
			CodeChallenge:       "challenge",
			CodeChallengeMethod: "plain",
			ResponseType:        "code",
		},
		HuggingFace: config.HuggingFaceConfig{
			BaseURL: "https://api-inference.huggingface.co",
			APIKey:  "test_api_key",
		},
		HTTPClient: config.HTTPClientConfig{
			Timeout: 5 * time.Second,
		},
		Logging: config.LoggingConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}

// ToxicityScores builds a toxicity score matrix with the given toxic and
// severe_toxic confidences.
func ToxicityScores(toxic, severeToxic float64) [][]huggingface.LabelScore {
	return [][]huggingface.LabelScore{{
		{Label: "toxic", Score: toxic},
		{Label: "severe_toxic", Score: severeToxic},
		{Label: "obscene", Score: 0.01},
		{Label: "insult", Score: 0.01},
	}}
}

// SentimentScores builds a sentiment score matrix with the given positive,
// neutral, and negative confidences.
func SentimentScores(positive, neutral, negative float64) [][]huggingface.LabelScore {
	return [][]huggingface.LabelScore{{
		{Label: "positive", Score: positive},
		{Label: "neutral", Score: neutral},
		{Label: "negative", Score: negative},
	}}
}
