package auth

import (
	"net/http"

	"github.com/brizzai/headless-auth/internal/auth/constants"
	"github.com/brizzai/headless-auth/internal/auth/cookies"
	"github.com/brizzai/headless-auth/internal/auth/handlers"
	"github.com/brizzai/headless-auth/internal/auth/middleware"
	"github.com/brizzai/headless-auth/internal/auth/providers"
	"github.com/brizzai/headless-auth/internal/config"
	"go.uber.org/fx"
)

// Service represents the token service
type Service struct {
	config    *config.Config
	exchanger providers.TokenExchanger
	handler   *handlers.Handler
}

// NewService creates a new token service
func NewService(cfg *config.Config, exchanger providers.TokenExchanger, cookieFactory cookies.Factory) *Service {
	return &Service{
		config:    cfg,
		exchanger: exchanger,
		handler:   handlers.NewHandler(exchanger, cookieFactory),
	}
}

// RegisterRoutes registers the token and health routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(s.config.Server.AuthorizePath, s.handler.HandleAuthorize)
	mux.HandleFunc(constants.HealthPath, s.handler.HandleHealth)
}

// WrapWithMiddleware wraps the mux with recovery, request logging and CORS
func (s *Service) WrapWithMiddleware(handler http.Handler) http.Handler {
	return middleware.Chain(handler,
		middleware.Recover,
		middleware.RequestLogger,
		middleware.CORSWithOrigins(s.config.Server.AllowOrigins),
	)
}

// HTTPHandler returns the fully wired handler tree
func (s *Service) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.WrapWithMiddleware(mux)
}

// GetExchanger returns the configured token exchanger
func (s *Service) GetExchanger() providers.TokenExchanger {
	return s.exchanger
}

// Module provides the auth service dependencies
var Module = fx.Module("auth",
	providers.Module,
	fx.Provide(
		fx.Annotate(
			cookies.NewHTTPFactory,
			fx.As(new(cookies.Factory)),
		),
		NewService,
	),
)
