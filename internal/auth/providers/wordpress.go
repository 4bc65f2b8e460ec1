package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/brizzai/headless-auth/internal/auth/constants"
	"github.com/brizzai/headless-auth/internal/auth/models"
	"github.com/brizzai/headless-auth/internal/logger"
	"github.com/brizzai/headless-auth/internal/requester"
	"go.uber.org/zap"
)

// WordPressProvider exchanges codes against the FaustWP authorize REST route
type WordPressProvider struct {
	endpoint  string
	requester *requester.HTTPRequester
}

// authorizeRequest is the body expected by the plugin. Only one field is sent.
type authorizeRequest struct {
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// NewWordPressProvider creates a provider for the site at baseURL. The
// requester is expected to carry the secret header.
func NewWordPressProvider(baseURL string, r *requester.HTTPRequester) (*WordPressProvider, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid WordPress base URL %q", baseURL)
	}

	q := u.Query()
	q.Set("rest_route", constants.WordPressAuthorizeRoute)
	u.Path += "/"
	u.RawQuery = q.Encode()

	return &WordPressProvider{
		endpoint:  u.String(),
		requester: r,
	}, nil
}

// Endpoint returns the authorize URL requests are sent to
func (p *WordPressProvider) Endpoint() string {
	return p.endpoint
}

// Exchange implements TokenExchanger
func (p *WordPressProvider) Exchange(ctx context.Context, code, refreshToken string) (*models.AuthorizeResult, error) {
	body := authorizeRequest{}
	switch {
	case code != "":
		body.Code = code
	case refreshToken != "":
		body.RefreshToken = refreshToken
	default:
		return nil, ErrNoCredentials
	}

	resp, err := p.requester.PostJSON(ctx, p.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("authorize request failed: %w", err)
	}

	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("authorize endpoint returned a non-JSON body with status %d", resp.StatusCode)
	}

	if !resp.OK() {
		logger.Debug("authorize endpoint rejected the grant", zap.Int("status", resp.StatusCode))
		return models.NewErrorResult(resp.StatusCode, json.RawMessage(resp.Body)), nil
	}

	var tokens models.TokenSet
	if err := json.Unmarshal(resp.Body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token set: %w", err)
	}
	if !tokens.Valid() {
		return nil, fmt.Errorf("authorize endpoint returned an incomplete token set")
	}
	return models.NewTokenResult(&tokens), nil
}
