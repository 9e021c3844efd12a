// Package twitter provides Twitter/X OAuth2 authentication with PKCE and
// tweet posting on behalf of the authorized user.
package twitter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/woodycollective/woodyswildguess/internal/config"
	"github.com/woodycollective/woodyswildguess/internal/ratelimit"
)

const (
	grantType = "authorization_code"

	// MaxTweetLength is the character cap enforced before calling the API;
	// the service itself performs no length validation.
	MaxTweetLength = 280

	// Rate limit bucket keys
	tokenEndpoint  = "/2/oauth2/token"
	tweetsEndpoint = "/2/tweets"
)

// createTweetRequest is the JSON body for the tweet-creation endpoint.
type createTweetRequest struct {
	Text string `json:"text"`
}

// Client handles Twitter OAuth operations and tweet posting.
//
// The bearer token obtained from the most recent successful exchange is the
// only long-lived mutable state in the process. It is guarded by a
// reader/writer lock: posting reads concurrently, re-authentication writes
// exclusively. It is never persisted and is lost on restart.
type Client struct {
	oauthConfig *oauth2.Config
	twitterCfg  config.TwitterConfig
	httpClient  *http.Client
	logger      *zap.Logger
	rateLimiter *ratelimit.RateLimiter

	tokenURL string
	baseURL  string

	tokenMu       sync.RWMutex
	accessToken   string
	authorization *TokenResponse
}

// NewClient creates a new Twitter OAuth client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Twitter.ClientID,
		ClientSecret: cfg.Twitter.ClientSecret,
		RedirectURL:  cfg.Twitter.RedirectURI,
		Scopes:       cfg.Twitter.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.Twitter.AuthorizeURL,
			TokenURL: cfg.Twitter.TokenURL,
		},
	}

	return &Client{
		oauthConfig: oauthConfig,
		twitterCfg:  cfg.Twitter,
		httpClient:  &http.Client{Timeout: cfg.HTTPClient.Timeout},
		logger:      logger,
		tokenURL:    cfg.Twitter.TokenURL,
		baseURL:     cfg.Twitter.BaseURL,
	}
}

// SetRateLimiter sets the rate limiter for outbound Twitter API calls
func (c *Client) SetRateLimiter(rl *ratelimit.RateLimiter) {
	c.rateLimiter = rl
}

// SetBaseURL sets the API base and token URLs (used for testing)
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
	c.tokenURL = base + tokenEndpoint
	c.oauthConfig.Endpoint.TokenURL = c.tokenURL
}

// AuthorizeURL builds the provider authorization URL the browser is sent to.
// The state parameter carries the SHA-256 digest of the configured state so
// the callback can be validated without echoing the secret itself.
func (c *Client) AuthorizeURL() string {
	return c.oauthConfig.AuthCodeURL(c.StateHash(),
		oauth2.SetAuthURLParam("code_challenge", c.twitterCfg.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", c.twitterCfg.CodeChallengeMethod),
	)
}

// StateHash returns the SHA-256 hex digest of the configured state value
func (c *Client) StateHash() string {
	sum := sha256.Sum256([]byte(c.twitterCfg.State))
	return hex.EncodeToString(sum[:])
}

// ValidateState compares a state parameter received on the callback URL
// against the configured state digest in constant time.
func (c *Client) ValidateState(state string) bool {
	expected := c.StateHash()
	return subtle.ConstantTimeCompare([]byte(state), []byte(expected)) == 1
}

// AccessToken returns the currently stored bearer token. It is empty until
// the first successful Authenticate call completes.
func (c *Client) AccessToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.accessToken
}

// AuthorizationResponse returns the most recent successful token response,
// or nil before the first successful exchange.
func (c *Client) AuthorizationResponse() *TokenResponse {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.authorization
}

func (c *Client) storeToken(resp *TokenResponse) {
	c.tokenMu.Lock()
	c.accessToken = resp.AccessToken
	c.authorization = resp
	c.tokenMu.Unlock()
}

// Authenticate exchanges an authorization code for a bearer token and
// returns the provider's HTTP status code.
//
// On 200 the token is stored for subsequent SendTweet calls. On 401 the
// stored token is left untouched. Any other status, or an empty or
// undecodable response body, is returned as an error; no retry is attempted.
func (c *Client) Authenticate(ctx context.Context, code string) (int, error) {
	if code == "" {
		return 0, fmt.Errorf("authorization code must not be empty")
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx, tokenEndpoint); err != nil {
			return 0, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	formData := url.Values{
		"code":          {code},
		"redirect_uri":  {c.twitterCfg.RedirectURI},
		"grant_type":    {grantType},
		"code_verifier": {c.twitterCfg.CodeChallenge},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.twitterCfg.ClientID, c.twitterCfg.ClientSecret)

	c.logger.Debug("exchanging authorization code for access token")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if c.rateLimiter != nil {
		c.rateLimiter.UpdateFromHeaders(tokenEndpoint, resp.Header)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read token response: %w", err)
	}
	if len(body) == 0 {
		return 0, fmt.Errorf("token response body is empty")
	}

	var tokenResponse TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return 0, fmt.Errorf("failed to decode token response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if tokenResponse.AccessToken == "" {
			return 0, fmt.Errorf("token response missing access_token")
		}
		c.storeToken(&tokenResponse)
		c.logger.Info("access token stored",
			zap.String("token_type", tokenResponse.TokenType),
			zap.Int("expires_in", tokenResponse.ExpiresIn),
			zap.Strings("scopes", tokenResponse.Scopes()),
		)
		return resp.StatusCode, nil

	case http.StatusUnauthorized:
		c.logger.Error("unauthorized access token request")
		return resp.StatusCode, nil

	default:
		c.logger.Error("failed to retrieve access token",
			zap.Int("status", resp.StatusCode),
		)
		return resp.StatusCode, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}
}

// SendTweet posts a tweet with the stored bearer token and returns the
// provider's HTTP status code. The caller maps 200 to success, 401 to a
// not-authorized warning, anything else to a generic failure.
func (c *Client) SendTweet(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("tweet text must not be empty")
	}
	if utf8.RuneCountInString(text) > MaxTweetLength {
		return 0, fmt.Errorf("tweet exceeds %d characters", MaxTweetLength)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx, tweetsEndpoint); err != nil {
			return 0, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	body, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tweetsEndpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken())

	c.logger.Debug("posting tweet", zap.Int("length", utf8.RuneCountInString(text)))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("tweet request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if c.rateLimiter != nil {
		c.rateLimiter.UpdateFromHeaders(tweetsEndpoint, resp.Header)
		if resp.StatusCode == http.StatusTooManyRequests {
			_ = c.rateLimiter.HandleRateLimitResponse(tweetsEndpoint, resp.Header)
		}
	}

	c.logger.Debug("tweet request completed", zap.Int("status", resp.StatusCode))
	return resp.StatusCode, nil
}
