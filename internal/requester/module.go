package requester

import (
	"github.com/brizzai/headless-auth/internal/auth/constants"
	"github.com/brizzai/headless-auth/internal/config"
	"go.uber.org/fx"
)

// NewAuthManager picks the request authentication for the configured provider
func NewAuthManager(cfg *config.Config) AuthManager {
	if cfg.OAuth.Provider == config.ProviderWordPress {
		return HeaderAuth{Header: constants.WordPressSecretHeader, Value: cfg.OAuth.ClientSecret}
	}
	return NoAuth{}
}

// NewConfiguredRequester applies the provider timeout to a new requester
func NewConfiguredRequester(cfg *config.Config, authMgr AuthManager) *HTTPRequester {
	r := NewHTTPRequester(authMgr)
	r.SetTimeout(cfg.OAuth.Timeout)
	return r
}

// Module provides the requester module dependencies
var Module = fx.Module("requester",
	fx.Provide(
		NewAuthManager,
		NewConfiguredRequester,
	),
)
