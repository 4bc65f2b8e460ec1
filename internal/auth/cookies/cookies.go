// Package cookies persists the refresh token in a browser cookie.
package cookies

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/brizzai/headless-auth/internal/config"
)

// Store reads and writes the refresh token for a single request
type Store interface {
	RefreshToken() string
	SetRefreshToken(token string, expiresAt int64)
}

// Factory binds a Store to a request/response pair
type Factory interface {
	ForRequest(w http.ResponseWriter, r *http.Request) Store
}

// HTTPFactory creates cookie backed stores from the cookie configuration
type HTTPFactory struct {
	cfg config.CookieConfig
}

// NewHTTPFactory creates a new HTTPFactory
func NewHTTPFactory(cfg *config.Config) *HTTPFactory {
	c := cfg.Cookie
	if c.Name == "" {
		c.Name = config.DefaultCookieName(cfg.OAuth.BaseURL)
	}
	if c.Path == "" {
		c.Path = "/"
	}
	return &HTTPFactory{cfg: c}
}

// ForRequest implements Factory
func (f *HTTPFactory) ForRequest(w http.ResponseWriter, r *http.Request) Store {
	return &HTTPStore{cfg: f.cfg, w: w, r: r}
}

// HTTPStore keeps the refresh token in an HttpOnly cookie. The value is
// base64url encoded so that arbitrary provider tokens stay cookie-safe.
type HTTPStore struct {
	cfg config.CookieConfig
	w   http.ResponseWriter
	r   *http.Request
}

// RefreshToken returns the stored token or "" when the cookie is missing or unreadable
func (s *HTTPStore) RefreshToken() string {
	c, err := s.r.Cookie(s.cfg.Name)
	if err != nil {
		return ""
	}
	value, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(value)
}

// SetRefreshToken writes the cookie. expiresAt is a unix timestamp in seconds,
// zero or negative leaves the cookie session scoped.
func (s *HTTPStore) SetRefreshToken(token string, expiresAt int64) {
	cookie := &http.Cookie{
		Name:     s.cfg.Name,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(token)),
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if expiresAt > 0 {
		cookie.Expires = time.Unix(expiresAt, 0).UTC()
	}
	http.SetCookie(s.w, cookie)
}
