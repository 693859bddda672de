package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no Todoist API token is configured.
var ErrNoToken = errors.New("no Todoist API token provided")

// TokenSource wraps a personal Todoist API token. Todoist tokens never
// expire, so a static source is enough and nothing is refreshed or cached.
func TokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

// NewClient retrieves an *http.Client that sets the bearer Authorization
// header on every request. A base client can be supplied through
// oauth2.HTTPClient in ctx; its transport is reused.
func NewClient(ctx context.Context, token string, timeout time.Duration) (*http.Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	client := oauth2.NewClient(ctx, TokenSource(token))
	client.Timeout = timeout
	return client, nil
}
