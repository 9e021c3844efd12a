package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/woodycollective/woodyswildguess/internal/chat"
)

// TwitterService is the subset of the Twitter client the handlers need.
type TwitterService interface {
	AuthorizeURL() string
	ValidateState(state string) bool
	Authenticate(ctx context.Context, code string) (int, error)
	SendTweet(ctx context.Context, text string) (int, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	twitter  TwitterService
	hub      *chat.Hub
	gateway  *chat.Gateway
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(twitterService TwitterService, hub *chat.Hub, gateway *chat.Gateway, logger *zap.Logger) *Handlers {
	return &Handlers{
		twitter: twitterService,
		hub:     hub,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// HealthHandler handles health check requests
func (h *Handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.Error("failed to write health check response", zap.Error(err))
	}
}

// AuthorizeHandler redirects the browser to the Twitter authorization URL
func (h *Handlers) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.twitter.AuthorizeURL(), http.StatusFound)
}

// CallbackHandler handles the OAuth callback from Twitter. The state
// parameter is always validated against the configured state digest; a
// mismatch is rejected with 401 before any token exchange happens.
func (h *Handlers) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Error("oauth error from twitter",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")),
		)
		http.Error(w, "authorization failed", http.StatusBadRequest)
		return
	}

	if code == "" || state == "" {
		h.logger.Error("missing required callback parameters",
			zap.Bool("has_code", code != ""),
			zap.Bool("has_state", state != ""),
		)
		http.Error(w, "missing required parameters (code or state)", http.StatusBadRequest)
		return
	}

	if !h.twitter.ValidateState(state) {
		h.logger.Error("callback state mismatch")
		http.Error(w, "state mismatch", http.StatusUnauthorized)
		return
	}

	status, err := h.twitter.Authenticate(r.Context(), code)
	if err != nil {
		h.logger.Error("failed to exchange authorization code", zap.Error(err))
		http.Error(w, "failed to retrieve access token", http.StatusBadRequest)
		return
	}

	switch status {
	case http.StatusOK:
		http.Redirect(w, r, "/chat", http.StatusFound)
	case http.StatusUnauthorized:
		http.Error(w, "unauthorized access token request", http.StatusUnauthorized)
	default:
		http.Error(w, "failed to retrieve access token", http.StatusBadRequest)
	}
}

// tweetRequest is the body for POST /tweet
type tweetRequest struct {
	Text string `json:"text"`
}

// TweetHandler posts a tweet with the stored bearer token and maps the
// provider status to the response: 200 success, 401 not authorized,
// anything else a generic failure.
func (h *Handlers) TweetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "invalid tweet body", http.StatusBadRequest)
		return
	}

	status, err := h.twitter.SendTweet(r.Context(), req.Text)
	if err != nil {
		h.logger.Error("failed to send tweet", zap.Error(err))
		http.Error(w, "invalid tweet", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch status {
	case http.StatusOK, http.StatusCreated:
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	case http.StatusUnauthorized:
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not authorized to tweet"})
	default:
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to send tweet"})
	}
}

// ChatHubHandler upgrades the connection to a websocket and attaches the
// client to the chat hub.
func (h *Handlers) ChatHubHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "anonymous"
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	client := chat.NewClient(h.hub, h.gateway, conn, name, h.logger)
	// The request context is cancelled once this handler returns, so the
	// pumps run against the background context; the hub's own context
	// governs shutdown.
	client.Start(context.Background())
}
