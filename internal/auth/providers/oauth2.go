package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/brizzai/headless-auth/internal/auth/constants"
	"github.com/brizzai/headless-auth/internal/auth/models"
	"golang.org/x/oauth2"
)

// OAuth2Provider exchanges codes against a standard OAuth 2.0 token endpoint
type OAuth2Provider struct {
	oauth2Config *oauth2.Config
	client       *http.Client
	refreshTTL   time.Duration
	now          func() time.Time
}

// NewOAuth2Provider creates a provider around cfg. refreshTTL is used when the
// token response does not announce a refresh token lifetime.
func NewOAuth2Provider(cfg *oauth2.Config, client *http.Client, refreshTTL time.Duration) *OAuth2Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &OAuth2Provider{
		oauth2Config: cfg,
		client:       client,
		refreshTTL:   refreshTTL,
		now:          time.Now,
	}
}

// Exchange implements TokenExchanger
func (p *OAuth2Provider) Exchange(ctx context.Context, code, refreshToken string) (*models.AuthorizeResult, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	var token *oauth2.Token
	var err error
	switch {
	case code != "":
		token, err = p.oauth2Config.Exchange(ctx, code)
	case refreshToken != "":
		token, err = p.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	default:
		return nil, ErrNoCredentials
	}

	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return models.NewErrorResult(retrieveErr.Response.StatusCode, errorBody(retrieveErr)), nil
		}
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	// Providers that do not rotate refresh tokens omit them on refresh
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return models.NewTokenResult(p.tokenSet(token)), nil
}

func (p *OAuth2Provider) tokenSet(token *oauth2.Token) *models.TokenSet {
	now := p.now()

	set := &models.TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		set.AccessTokenExpiration = token.Expiry.Unix()
	}

	if seconds, ok := extraSeconds(token.Extra(constants.RefreshTokenExpiresInKey)); ok {
		set.RefreshTokenExpiration = now.Add(time.Duration(seconds) * time.Second).Unix()
	} else if p.refreshTTL > 0 {
		set.RefreshTokenExpiration = now.Add(p.refreshTTL).Unix()
	}
	return set
}

// extraSeconds reads a lifetime from a JSON number or a form encoded string
func extraSeconds(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n > 0
	case json.Number:
		i, err := n.Int64()
		return i, err == nil && i > 0
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil && i > 0
	}
	return 0, false
}

// errorBody relays the provider body when it is JSON and otherwise builds an
// RFC 6749 style error object
func errorBody(e *oauth2.RetrieveError) json.RawMessage {
	if len(e.Body) > 0 && json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}

	code := e.ErrorCode
	if code == "" {
		code = http.StatusText(e.Response.StatusCode)
	}
	body, err := json.Marshal(map[string]string{
		"error":             code,
		"error_description": e.ErrorDescription,
	})
	if err != nil {
		return nil
	}
	return body
}
