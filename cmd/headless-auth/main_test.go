package main

import (
	"bytes"
	"testing"

	"github.com/brizzai/headless-auth/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrintConfig_RedactsSecret(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 3000, AuthorizePath: "/api/auth/token"},
		OAuth: config.OAuthConfig{
			Provider:     config.ProviderWordPress,
			BaseURL:      "https://cms.example.com",
			ClientSecret: "s3cret",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, cfg))
	assert.NotContains(t, buf.String(), "s3cret")

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "********", decoded.OAuth.ClientSecret)
	assert.Equal(t, "https://cms.example.com", decoded.OAuth.BaseURL)
	assert.Equal(t, "/api/auth/token", decoded.Server.AuthorizePath)
}

func TestNewApp_Graph(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", AuthorizePath: "/api/auth/token"},
		OAuth: config.OAuthConfig{
			Provider:     config.ProviderWordPress,
			BaseURL:      "https://cms.example.com",
			ClientSecret: "s3cret",
		},
	}
	assert.NoError(t, newApp(cfg).Err())
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["config"])
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("oauth.base_url"))
}
