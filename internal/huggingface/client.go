// Package huggingface provides a client for the Hugging Face hosted
// inference API, used to classify chat messages for toxicity and sentiment.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/woodycollective/woodyswildguess/internal/config"
)

// Model identifies a hosted model by its namespace and name segments.
type Model struct {
	Namespace string
	Name      string
}

// The two models this application queries per chat message.
var (
	ToxicityModel  = Model{Namespace: "unitary", Name: "toxic-bert"}
	SentimentModel = Model{Namespace: "cardiffnlp", Name: "twitter-roberta-base-sentiment-latest"}
)

// LabelScore represents a single classification result: a label tag and the
// model's confidence that the input matches it, between 0 and 1.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// UnavailableError indicates the inference API could not classify the input.
// Callers treat it as "could not determine toxicity/sentiment" rather than a
// reason to block the message.
type UnavailableError struct {
	Model      Model
	StatusCode int
	Reason     string
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("inference for %s/%s unavailable: status %d", e.Model.Namespace, e.Model.Name, e.StatusCode)
	}
	return fmt.Sprintf("inference for %s/%s unavailable: %s", e.Model.Namespace, e.Model.Name, e.Reason)
}

// inferenceRequest is the JSON body sent to every model endpoint.
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Client handles requests to the Hugging Face inference API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new inference API client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.HuggingFace.BaseURL,
		apiKey:     cfg.HuggingFace.APIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPClient.Timeout},
		logger:     logger,
	}
}

// SetBaseURL sets the base URL for the inference API (used for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Classify sends text to a model endpoint and returns its nested label/score
// sequences. The outer sequence holds one entry per input text (always one
// here); the inner sequence is the set of labels the model scored for it.
func (c *Client) Classify(ctx context.Context, text string, model Model) ([][]LabelScore, error) {
	if text == "" {
		return nil, fmt.Errorf("text must not be empty")
	}

	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	modelURL := fmt.Sprintf("%s/models/%s/%s", c.baseURL, model.Namespace, model.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, modelURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("performing inference request",
		zap.String("model", model.Namespace+"/"+model.Name),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and transport errors are the same failure class as a
		// non-2xx response: classification was not possible.
		return nil, &UnavailableError{Model: model, Reason: err.Error()}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("inference request failed",
			zap.String("model", model.Namespace+"/"+model.Name),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, &UnavailableError{Model: model, StatusCode: resp.StatusCode}
	}

	var scores [][]LabelScore
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, &UnavailableError{Model: model, Reason: "malformed response: " + err.Error()}
	}

	c.logger.Debug("inference request completed",
		zap.String("model", model.Namespace+"/"+model.Name),
		zap.Int("result_count", len(scores)),
	)

	return scores, nil
}

// AnalyzeToxicity classifies text with the toxic-bert model
func (c *Client) AnalyzeToxicity(ctx context.Context, text string) ([][]LabelScore, error) {
	return c.Classify(ctx, text, ToxicityModel)
}

// AnalyzeSentiment classifies text with the twitter-roberta sentiment model
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) ([][]LabelScore, error) {
	return c.Classify(ctx, text, SentimentModel)
}
