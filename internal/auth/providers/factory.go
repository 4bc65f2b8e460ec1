package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brizzai/headless-auth/internal/auth/constants"
	"github.com/brizzai/headless-auth/internal/config"
	"github.com/brizzai/headless-auth/internal/requester"
	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/fx"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// NewProvider builds the token exchanger selected by oauth.provider
func NewProvider(ctx context.Context, cfg *config.Config, r *requester.HTTPRequester) (TokenExchanger, error) {
	oauthCfg := cfg.OAuth
	if oauthCfg.Provider == config.ProviderWordPress {
		wp, err := NewWordPressProvider(oauthCfg.BaseURL, r)
		if err != nil {
			return nil, err
		}
		return wp, nil
	}

	client := &http.Client{Timeout: oauthCfg.Timeout}
	endpoint, err := resolveEndpoint(ctx, &oauthCfg, client)
	if err != nil {
		return nil, err
	}

	scopes := oauthCfg.Scopes
	if len(scopes) == 0 {
		scopes = constants.DefaultScopes
	}

	return NewOAuth2Provider(&oauth2.Config{
		ClientID:     oauthCfg.ClientID,
		ClientSecret: oauthCfg.ClientSecret,
		RedirectURL:  oauthCfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}, client, oauthCfg.RefreshTokenTTL), nil
}

func resolveEndpoint(ctx context.Context, cfg *config.OAuthConfig, client *http.Client) (oauth2.Endpoint, error) {
	switch cfg.Provider {
	case config.ProviderGitHub:
		return github.Endpoint, nil
	case config.ProviderGoogle:
		return google.Endpoint, nil
	case config.ProviderOAuth2:
		return oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL}, nil
	case config.ProviderOIDC:
		provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), cfg.IssuerURL)
		if err != nil {
			return oauth2.Endpoint{}, fmt.Errorf("failed to discover OIDC provider %s: %w", cfg.IssuerURL, err)
		}
		return provider.Endpoint(), nil
	default:
		return oauth2.Endpoint{}, fmt.Errorf("%w: %s", ErrInvalidOAuthProvider, cfg.Provider)
	}
}

func provideExchanger(lc fx.Lifecycle, cfg *config.Config, r *requester.HTTPRequester) (TokenExchanger, error) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.StopHook(cancel))
	return NewProvider(ctx, cfg, r)
}

// Module provides the configured TokenExchanger
var Module = fx.Module("providers",
	fx.Provide(provideExchanger),
)
