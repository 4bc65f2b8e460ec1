package requester

import (
	"net/http"
)

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// NoAuth leaves requests untouched
type NoAuth struct{}

// ApplyAuth implements AuthManager
func (NoAuth) ApplyAuth(*http.Request) error {
	return nil
}

// HeaderAuth sets a static secret header, e.g. x-faustwp-secret
type HeaderAuth struct {
	Header string
	Value  string
}

// ApplyAuth implements AuthManager
func (a HeaderAuth) ApplyAuth(req *http.Request) error {
	req.Header.Set(a.Header, a.Value)
	return nil
}

// BasicAuth authenticates with client credentials
type BasicAuth struct {
	Username string
	Password string
}

// ApplyAuth implements AuthManager
func (a BasicAuth) ApplyAuth(req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}
