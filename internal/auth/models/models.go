package models

import "encoding/json"

// TokenSet is the token payload returned to the browser. Expirations are unix
// timestamps in seconds.
type TokenSet struct {
	AccessToken            string `json:"accessToken"`
	AccessTokenExpiration  int64  `json:"accessTokenExpiration"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiration int64  `json:"refreshTokenExpiration"`
}

// Valid reports whether every required field is present
func (t *TokenSet) Valid() bool {
	return t != nil && t.AccessToken != "" && t.RefreshToken != "" &&
		t.AccessTokenExpiration != 0 && t.RefreshTokenExpiration != 0
}

// ErrorEnvelope carries a non-success answer from the identity provider.
// Result is relayed to the caller as is.
type ErrorEnvelope struct {
	Status int             `json:"status"`
	Result json.RawMessage `json:"result"`
}

// AuthorizeResult holds exactly one of Tokens or Error
type AuthorizeResult struct {
	Tokens *TokenSet
	Error  *ErrorEnvelope
}

// NewTokenResult wraps a successful exchange
func NewTokenResult(tokens *TokenSet) *AuthorizeResult {
	return &AuthorizeResult{Tokens: tokens}
}

// NewErrorResult wraps an upstream error answer
func NewErrorResult(status int, result json.RawMessage) *AuthorizeResult {
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	return &AuthorizeResult{Error: &ErrorEnvelope{Status: status, Result: result}}
}

// IsTokens reports whether the exchange produced a token set
func (r *AuthorizeResult) IsTokens() bool {
	return r != nil && r.Tokens != nil
}
