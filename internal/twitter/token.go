package twitter

import "strings"

// TokenResponse represents the body returned by the Twitter/X token
// endpoint for a successful authorization-code exchange.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

// Scopes returns the granted scopes as a list. The wire format is a single
// space-joined string.
func (t *TokenResponse) Scopes() []string {
	if t.Scope == "" {
		return nil
	}
	return strings.Split(t.Scope, " ")
}
