package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

// MockTwitterServer represents a mock Twitter API server for testing.
type MockTwitterServer struct {
	Server     *httptest.Server
	TokenCalls int
	TweetCalls int

	// LastTweetText records the text of the most recent tweet request.
	LastTweetText string
}

// TwitterTokenResponse represents the OAuth token response from Twitter.
type TwitterTokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

// TwitterErrorResponse represents an error response from Twitter.
type TwitterErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Canned values served by the mock.
const (
	MockAccessToken  = "mock_access_token_123"
	MockRefreshToken = "mock_refresh_token_456"
)

// NewMockTwitterServer creates a new mock Twitter API server handling the
// token exchange and tweet creation endpoints. Behavior is keyed off the
// authorization code and bearer token the caller sends.
func NewMockTwitterServer() *MockTwitterServer {
	mts := &MockTwitterServer{}

	mux := http.NewServeMux()

	// Token exchange endpoint
	mux.HandleFunc("/2/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		mts.TokenCalls++

		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if _, _, ok := r.BasicAuth(); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(TwitterErrorResponse{
				Error:            "unauthorized_client",
				ErrorDescription: "Missing Basic authorization",
			})
			return
		}

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.FormValue("code") {
		case "valid_code":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(TwitterTokenResponse{
				TokenType:    "bearer",
				ExpiresIn:    7200,
				AccessToken:  MockAccessToken,
				Scope:        "tweet.read tweet.write users.read offline.access",
				RefreshToken: MockRefreshToken,
			})

		case "unauthorized_code":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(TwitterErrorResponse{
				Error:            "invalid_client",
				ErrorDescription: "Client authentication failed",
			})

		case "server_error":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"internal"}`))

		case "empty_body":
			w.WriteHeader(http.StatusOK)

		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(TwitterErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Unknown code",
			})
		}
	})

	// Tweet creation endpoint
	mux.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		mts.TweetCalls++

		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		authHeader := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != MockAccessToken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(TwitterErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "Missing or invalid bearer token",
			})
			return
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mts.LastTweetText = body.Text

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "1", "text": body.Text},
		})
	})

	mts.Server = httptest.NewServer(mux)
	return mts
}

// Close closes the mock server.
func (mts *MockTwitterServer) Close() {
	if mts.Server != nil {
		mts.Server.Close()
	}
}

// URL returns the mock server's base URL.
func (mts *MockTwitterServer) URL() string {
	return mts.Server.URL
}

// GetTokenURL returns the token exchange endpoint URL.
func (mts *MockTwitterServer) GetTokenURL() string {
	return fmt.Sprintf("%s/2/oauth2/token", mts.Server.URL)
}

// ResetCallCounts resets the call counters.
func (mts *MockTwitterServer) ResetCallCounts() {
	mts.TokenCalls = 0
	mts.TweetCalls = 0
}
