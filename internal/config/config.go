package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("headless-auth version %s, commit %s, built at %s", version, commit, date)
}

var (
	// ErrMissingBaseURL is returned when no identity provider URL is configured
	ErrMissingBaseURL = errors.New("oauth.base_url is required")
	// ErrMissingClientSecret is returned when the provider secret is not configured
	ErrMissingClientSecret = errors.New("oauth.client_secret is required")
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	OAuth   OAuthConfig   `mapstructure:"oauth" yaml:"oauth"`
	Cookie  CookieConfig  `mapstructure:"cookie" yaml:"cookie"`
}

type ServerConfig struct {
	Port          int      `mapstructure:"port" yaml:"port"`
	Host          string   `mapstructure:"host" yaml:"host"`
	AuthorizePath string   `mapstructure:"authorize_path" yaml:"authorize_path"`
	AllowOrigins  []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level" yaml:"level"`
	Format            string `mapstructure:"format" yaml:"format"`
	Color             bool   `mapstructure:"color" yaml:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace" yaml:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path" yaml:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file" yaml:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console" yaml:"disable_console"`
}

// ProviderType selects the token exchanger implementation
type ProviderType string

const (
	ProviderWordPress ProviderType = "wordpress"
	ProviderOAuth2    ProviderType = "oauth2"
	ProviderOIDC      ProviderType = "oidc"
	ProviderGitHub    ProviderType = "github"
	ProviderGoogle    ProviderType = "google"
)

type OAuthConfig struct {
	Provider        ProviderType  `mapstructure:"provider" yaml:"provider"`
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url"` // WordPress site URL
	IssuerURL       string        `mapstructure:"issuer_url" yaml:"issuer_url"`
	AuthURL         string        `mapstructure:"auth_url" yaml:"auth_url"`
	TokenURL        string        `mapstructure:"token_url" yaml:"token_url"`
	ClientID        string        `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret    string        `mapstructure:"client_secret" yaml:"client_secret"`
	RedirectURL     string        `mapstructure:"redirect_url" yaml:"redirect_url"`
	Scopes          []string      `mapstructure:"scopes" yaml:"scopes"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl" yaml:"refresh_token_ttl"`
}

type CookieConfig struct {
	Name   string `mapstructure:"name" yaml:"name"`
	Path   string `mapstructure:"path" yaml:"path"`
	Domain string `mapstructure:"domain" yaml:"domain"`
	Secure bool   `mapstructure:"secure" yaml:"secure"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the config file")
	fs.String("server.host", "", "Address to bind the HTTP server to")
	fs.Int("server.port", 0, "Port to bind the HTTP server to")
	fs.String("oauth.provider", "", "Token provider (wordpress|oauth2|oidc|github|google)")
	fs.String("oauth.base_url", "", "Base URL of the identity provider")
	fs.String("logging.level", "", "Log level (debug|info|warn|error)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.authorize_path", "/api/auth/token")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("oauth.provider", string(ProviderWordPress))
	v.SetDefault("oauth.timeout", 30*time.Second)
	v.SetDefault("oauth.refresh_token_ttl", 14*24*time.Hour)
	v.SetDefault("cookie.path", "/")

	// Unmarshal only sees env vars for keys viper already knows about
	for _, key := range []string{
		"server.allow_origins",
		"oauth.base_url", "oauth.issuer_url", "oauth.auth_url", "oauth.token_url",
		"oauth.client_id", "oauth.client_secret", "oauth.redirect_url", "oauth.scopes",
		"cookie.name", "cookie.domain", "cookie.secure",
	} {
		if err := v.BindEnv(key); err != nil {
			panic(err) // only fails when called without a key
		}
	}
}

// Load reads configuration from flags, environment and config files.
// Flags that were not changed on the command line do not override other sources.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HEADLESS_AUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if fs != nil {
		if err := bindChangedFlags(v, fs); err != nil {
			return nil, err
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/headless-auth")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env and flags may carry everything
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = DefaultCookieName(cfg.OAuth.BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindChangedFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(f.Name, f)
	})
	return bindErr
}

// Validate checks that the provider specific settings are present
func (c *Config) Validate() error {
	switch c.OAuth.Provider {
	case ProviderWordPress:
		if c.OAuth.BaseURL == "" {
			return fmt.Errorf("%w, pass --oauth.base_url or HEADLESS_AUTH_OAUTH_BASE_URL", ErrMissingBaseURL)
		}
		if c.OAuth.ClientSecret == "" {
			return fmt.Errorf("%w, set HEADLESS_AUTH_OAUTH_CLIENT_SECRET", ErrMissingClientSecret)
		}
	case ProviderOIDC:
		if c.OAuth.IssuerURL == "" {
			return fmt.Errorf("oauth.issuer_url is required for provider %q", c.OAuth.Provider)
		}
	case ProviderOAuth2:
		if c.OAuth.TokenURL == "" {
			return fmt.Errorf("oauth.token_url is required for provider %q", c.OAuth.Provider)
		}
	case ProviderGitHub, ProviderGoogle:
	default:
		return fmt.Errorf("unsupported oauth.provider %q", c.OAuth.Provider)
	}

	if c.OAuth.Provider != ProviderWordPress && c.OAuth.ClientID == "" {
		return fmt.Errorf("oauth.client_id is required for provider %q", c.OAuth.Provider)
	}
	if !strings.HasPrefix(c.Server.AuthorizePath, "/") {
		return fmt.Errorf("server.authorize_path must start with '/': %q", c.Server.AuthorizePath)
	}
	return nil
}

// DefaultCookieName derives the refresh token cookie name from the provider URL,
// e.g. https://cms.example.com -> cms.example.com-rt
func DefaultCookieName(baseURL string) string {
	host := ""
	if u, err := url.Parse(baseURL); err == nil {
		host = u.Host
	}
	if host == "" {
		return "headless-rt"
	}

	var b strings.Builder
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + "-rt"
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.OAuth.ClientSecret != "" {
		c.OAuth.ClientSecret = "********"
	}
	return c
}
