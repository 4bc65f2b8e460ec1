package constants

const (
	// CodeQueryParam is the query parameter carrying the authorization code
	CodeQueryParam = "code"

	// HealthPath is served next to the authorize endpoint
	HealthPath = "/healthz"

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"

	// WordPressAuthorizeRoute is the REST route of the FaustWP authorize endpoint
	WordPressAuthorizeRoute = "/faustwp/v1/authorize"

	// WordPressSecretHeader authenticates this service against the WordPress plugin
	WordPressSecretHeader = "x-faustwp-secret"

	// RefreshTokenExpiresInKey is the non-standard token response field some
	// providers use to announce the refresh token lifetime in seconds
	RefreshTokenExpiresInKey = "refresh_token_expires_in"
)

// Fixed response bodies
const (
	ErrorUnauthorized = "Unauthorized"
	ErrorInternal     = "Internal Server Error"
)

// Default OAuth scopes for the generic providers
var DefaultScopes = []string{"openid", "profile", "email", "offline_access"}
