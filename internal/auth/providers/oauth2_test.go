package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brizzai/headless-auth/internal/config"
	"github.com/brizzai/headless-auth/internal/requester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTokenServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func newTestOAuth2Provider(tokenURL string) *OAuth2Provider {
	p := NewOAuth2Provider(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, nil, time.Hour)
	p.now = func() time.Time { return fixedNow }
	return p
}

func writeTokenJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestOAuth2Provider_ExchangeCode(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "abc", r.PostForm.Get("code"))
		writeTokenJSON(w, http.StatusOK, map[string]interface{}{
			"access_token":             "access",
			"token_type":               "Bearer",
			"expires_in":               3600,
			"refresh_token":            "refresh-2",
			"refresh_token_expires_in": 7200,
		})
	})

	before := time.Now()
	result, err := newTestOAuth2Provider(server.URL).Exchange(context.Background(), "abc", "refresh-1")
	require.NoError(t, err)
	require.True(t, result.IsTokens())

	tokens := result.Tokens
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh-2", tokens.RefreshToken)
	assert.GreaterOrEqual(t, tokens.AccessTokenExpiration, before.Add(3600*time.Second).Unix()-1)
	assert.Equal(t, fixedNow.Add(7200*time.Second).Unix(), tokens.RefreshTokenExpiration)
}

func TestOAuth2Provider_RefreshKeepsToken(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))
		writeTokenJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   60,
		})
	})

	result, err := newTestOAuth2Provider(server.URL).Exchange(context.Background(), "", "refresh-1")
	require.NoError(t, err)
	require.True(t, result.IsTokens())
	assert.Equal(t, "refresh-1", result.Tokens.RefreshToken)
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), result.Tokens.RefreshTokenExpiration)
}

func TestOAuth2Provider_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		jsonBody   bool
		wantStatus int
		wantResult string
	}{
		{
			name:       "JSON error body is relayed",
			status:     http.StatusBadRequest,
			body:       `{"error":"invalid_grant","error_description":"code expired"}`,
			jsonBody:   true,
			wantStatus: http.StatusBadRequest,
			wantResult: `{"error":"invalid_grant","error_description":"code expired"}`,
		},
		{
			name:       "plain text body is wrapped",
			status:     http.StatusServiceUnavailable,
			body:       "maintenance",
			wantStatus: http.StatusServiceUnavailable,
			wantResult: `{"error":"Service Unavailable","error_description":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.jsonBody {
					w.Header().Set("Content-Type", "application/json")
				} else {
					w.Header().Set("Content-Type", "text/plain")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			result, err := newTestOAuth2Provider(server.URL).Exchange(context.Background(), "abc", "")
			require.NoError(t, err)
			require.False(t, result.IsTokens())
			assert.Equal(t, tt.wantStatus, result.Error.Status)
			assert.JSONEq(t, tt.wantResult, string(result.Error.Result))
		})
	}
}

func TestOAuth2Provider_MissingAccessToken(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeTokenJSON(w, http.StatusOK, map[string]string{"token_type": "Bearer"})
	})

	_, err := newTestOAuth2Provider(server.URL).Exchange(context.Background(), "abc", "")
	assert.Error(t, err)
}

func TestOAuth2Provider_NoCredentials(t *testing.T) {
	_, err := newTestOAuth2Provider("http://127.0.0.1:1").Exchange(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestExtraSeconds(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   int64
		wantOK bool
	}{
		{in: float64(30), want: 30, wantOK: true},
		{in: json.Number("45"), want: 45, wantOK: true},
		{in: "60", want: 60, wantOK: true},
		{in: "soon", wantOK: false},
		{in: float64(0), wantOK: false},
		{in: nil, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := extraSeconds(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %v", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestNewProvider(t *testing.T) {
	r := requester.NewHTTPRequester(nil)

	wp, err := NewProvider(context.Background(), &config.Config{OAuth: config.OAuthConfig{
		Provider: config.ProviderWordPress,
		BaseURL:  "https://cms.example.com",
	}}, r)
	require.NoError(t, err)
	assert.IsType(t, &WordPressProvider{}, wp)

	for _, provider := range []config.ProviderType{config.ProviderGitHub, config.ProviderGoogle, config.ProviderOAuth2} {
		p, err := NewProvider(context.Background(), &config.Config{OAuth: config.OAuthConfig{
			Provider: provider,
			ClientID: "client",
			TokenURL: "https://idp.example.com/token",
		}}, r)
		require.NoError(t, err, provider)
		assert.IsType(t, &OAuth2Provider{}, p)
	}

	_, err = NewProvider(context.Background(), &config.Config{OAuth: config.OAuthConfig{Provider: "saml"}}, r)
	assert.ErrorIs(t, err, ErrInvalidOAuthProvider)
}

func TestNewProvider_OIDCDiscovery(t *testing.T) {
	var issuer string
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		writeTokenJSON(w, http.StatusOK, map[string]interface{}{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/authorize",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/jwks",
		})
	})
	issuer = server.URL

	p, err := NewProvider(context.Background(), &config.Config{OAuth: config.OAuthConfig{
		Provider:  config.ProviderOIDC,
		IssuerURL: issuer,
		ClientID:  "client",
	}}, requester.NewHTTPRequester(nil))
	require.NoError(t, err)

	oauthProvider, ok := p.(*OAuth2Provider)
	require.True(t, ok)
	assert.Equal(t, issuer+"/token", oauthProvider.oauth2Config.Endpoint.TokenURL)
	assert.Equal(t, issuer+"/authorize", oauthProvider.oauth2Config.Endpoint.AuthURL)
}
