package providers

import (
	"context"
	"errors"

	"github.com/brizzai/headless-auth/internal/auth/models"
)

var (
	// ErrInvalidOAuthProvider indicates an unsupported OAuth provider was specified
	ErrInvalidOAuthProvider = errors.New("unsupported OAuth provider")

	// ErrNoCredentials is returned when neither a code nor a refresh token was given
	ErrNoCredentials = errors.New("authorization code or refresh token required")
)

// TokenExchanger trades an authorization code, or failing that a refresh
// token, for a fresh token set.
//
// A provider that answers with an error status yields a result carrying an
// ErrorEnvelope and a nil error. The returned error is reserved for failures
// where no usable answer exists, such as network errors or undecodable bodies.
type TokenExchanger interface {
	Exchange(ctx context.Context, code, refreshToken string) (*models.AuthorizeResult, error)
}
