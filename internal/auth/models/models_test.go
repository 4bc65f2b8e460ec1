package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSet_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(TokenSet{
		AccessToken:            "at",
		AccessTokenExpiration:  100,
		RefreshToken:           "rt",
		RefreshTokenExpiration: 200,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"at","accessTokenExpiration":100,"refreshToken":"rt","refreshTokenExpiration":200}`, string(data))
}

func TestTokenSet_Valid(t *testing.T) {
	var nilSet *TokenSet
	assert.False(t, nilSet.Valid())
	assert.False(t, (&TokenSet{AccessToken: "at"}).Valid())
	assert.True(t, (&TokenSet{
		AccessToken:            "at",
		AccessTokenExpiration:  1,
		RefreshToken:           "rt",
		RefreshTokenExpiration: 1,
	}).Valid())
}

func TestAuthorizeResult(t *testing.T) {
	ok := NewTokenResult(&TokenSet{AccessToken: "at"})
	assert.True(t, ok.IsTokens())
	assert.Nil(t, ok.Error)

	failed := NewErrorResult(403, json.RawMessage(`{"error":"forbidden"}`))
	assert.False(t, failed.IsTokens())
	assert.Equal(t, 403, failed.Error.Status)

	empty := NewErrorResult(500, nil)
	assert.Equal(t, json.RawMessage("null"), empty.Error.Result)

	var missing *AuthorizeResult
	assert.False(t, missing.IsTokens())
}
