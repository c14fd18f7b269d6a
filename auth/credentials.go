package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clambin/jsonclient"
	"github.com/google/uuid"
)

// ClientCredentials requests bearer tokens from a token endpoint using the OAuth2 client
// credentials grant. The zero value is not usable: at minimum, TokenURL must be set.
type ClientCredentials struct {
	// HTTPClient sends the token requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// TokenURL is the endpoint that issues tokens.
	TokenURL string
	// ClientID identifies the client with the token endpoint. If empty, TokenSource generates a
	// random (UUID) client ID.
	ClientID string
	// ClientSecret authenticates the client with the token endpoint.
	ClientSecret string
	// Scopes are the scopes to request, if any.
	Scopes []string
}

// TokenSource returns a TokenSource that fetches tokens from the configured endpoint, caching
// them until they expire.
func (c ClientCredentials) TokenSource(opts ...TokenSourceOption) TokenSource {
	if c.ClientID == "" {
		c.ClientID = uuid.New().String()
	}
	options := makeTokenSourceOptions(opts...)
	return CachingTokenSource(tokenSourceFunc(func(ctx context.Context) (Token, error) {
		token, err := c.fetch(ctx)
		if err == nil {
			options.logger.Debug("token issued", slog.String("client_id", c.ClientID))
		}
		return token, err
	}))
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Scope        string `json:"scope,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c ClientCredentials) fetch(ctx context.Context) (Token, error) {
	if c.TokenURL == "" {
		return "", ErrNoTokenURL
	}
	request := tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scope:        strings.Join(c.Scopes, " "),
	}
	client := jsonclient.Client{HTTPClient: c.HTTPClient}
	response, err := jsonclient.Call[tokenResponse](ctx, &client, http.MethodPost, c.TokenURL, request)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if response.AccessToken == "" {
		return "", ErrNoToken
	}
	return Token(response.AccessToken), nil
}
