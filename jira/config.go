package jira

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthType selects the credential variant built from configuration.
type AuthType string

// Authentication types supported by the Jira client.
const (
	AuthAnonymous AuthType = "anonymous"
	AuthAPIToken  AuthType = "api_token" // Cloud: email + API token
	AuthBasic     AuthType = "basic"     // Server: username + password
	AuthPAT       AuthType = "pat"       // Server/DC: Personal Access Token
	AuthBearer    AuthType = "bearer"    // OAuth 2.0 access token
	AuthCookie    AuthType = "cookie"    // JSESSIONID
	AuthOAuth1    AuthType = "oauth1"    // Server: RSA-SHA1 signed requests
)

// Config holds the configuration for the Jira client.
type Config struct {
	// URL is the base URL of the Jira instance, context path included.
	// For Cloud: https://your-domain.atlassian.net
	// For Server: https://jira.your-company.com/jira
	URL string `mapstructure:"url" yaml:"url"`

	// APIVersion specifies which search protocol to use.
	// "auto" (default) decides from the host name.
	APIVersion APIVersion `mapstructure:"api_version" yaml:"api_version"`

	// UserAgent overrides DefaultUserAgent.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// CloudDomains replaces DefaultCloudDomains for auto resolution.
	CloudDomains []string `mapstructure:"cloud_domains" yaml:"cloud_domains"`

	// Auth contains authentication configuration.
	Auth AuthConfig `mapstructure:"auth" yaml:"auth"`

	// HTTP contains HTTP client configuration.
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
}

// AuthConfig holds authentication configuration. Which fields are read
// depends on Type.
type AuthConfig struct {
	Type AuthType `mapstructure:"type" yaml:"type"`

	// Email and Token for api_token; Token alone for pat and bearer.
	Email string `mapstructure:"email" yaml:"email"`
	Token string `mapstructure:"token" yaml:"token"`

	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	SessionID string `mapstructure:"session_id" yaml:"session_id"`

	// OAuth 1.0a. PrivateKey holds PEM text and wins over PrivateKeyFile.
	ConsumerKey    string `mapstructure:"consumer_key" yaml:"consumer_key"`
	PrivateKey     string `mapstructure:"private_key" yaml:"private_key"`
	PrivateKeyFile string `mapstructure:"private_key_file" yaml:"private_key_file"`
	Passphrase     string `mapstructure:"passphrase" yaml:"passphrase"`
	AccessToken    string `mapstructure:"access_token" yaml:"access_token"`
	TokenSecret    string `mapstructure:"token_secret" yaml:"token_secret"`
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// Timeout is the request timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// ConnectTimeout bounds dialing a new connection.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`

	// IdleConnTimeout is how long to keep idle connections open.
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
}

func (h HTTPConfig) newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if h.ConnectTimeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: h.ConnectTimeout}).DialContext
	}
	if h.MaxIdleConns > 0 {
		transport.MaxIdleConns = h.MaxIdleConns
		transport.MaxIdleConnsPerHost = h.MaxIdleConns
	}
	if h.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = h.IdleConnTimeout
	}
	return &http.Client{Timeout: h.Timeout, Transport: transport}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIVersion: APIVersionAuto,
		Auth:       AuthConfig{Type: AuthAnonymous},
		HTTP: HTTPConfig{
			Timeout:         30 * time.Second,
			ConnectTimeout:  10 * time.Second,
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
	}
}

// Validate validates the configuration. An empty auth type means anonymous.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrConfigURLRequired
	}

	switch c.Auth.Type {
	case "", AuthAnonymous:
	case AuthAPIToken:
		if c.Auth.Email == "" || c.Auth.Token == "" {
			return ErrConfigAPITokenAuth
		}
	case AuthBasic:
		if c.Auth.Username == "" || c.Auth.Password == "" {
			return ErrConfigBasicAuth
		}
	case AuthPAT, AuthBearer:
		if c.Auth.Token == "" {
			return ErrConfigBearerAuth
		}
	case AuthCookie:
		if c.Auth.SessionID == "" {
			return ErrConfigCookieAuth
		}
	case AuthOAuth1:
		if c.Auth.ConsumerKey == "" || (c.Auth.PrivateKey == "" && c.Auth.PrivateKeyFile == "") {
			return ErrConfigOAuth1Auth
		}
	default:
		return ErrConfigAuthTypeInvalid
	}

	if _, err := ParseAPIVersion(string(c.APIVersion)); err != nil {
		return ErrConfigAPIVersionInvalid
	}

	return nil
}

// Credentials builds the credential variant the auth section describes.
func (c *Config) Credentials() (Credentials, error) {
	switch c.Auth.Type {
	case "", AuthAnonymous:
		return Anonymous{}, nil
	case AuthAPIToken:
		return Basic{Username: c.Auth.Email, Secret: c.Auth.Token}, nil
	case AuthBasic:
		return Basic{Username: c.Auth.Username, Secret: c.Auth.Password}, nil
	case AuthPAT, AuthBearer:
		return BearerToken(c.Auth.Token), nil
	case AuthCookie:
		return Cookie{SessionID: c.Auth.SessionID}, nil
	case AuthOAuth1:
		return oauthCredentials(c.Auth)
	default:
		return nil, ErrConfigAuthTypeInvalid
	}
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.CloudDomains != nil {
		clone.CloudDomains = append([]string(nil), c.CloudDomains...)
	}
	return &clone
}

// LoadConfig reads a YAML config file over DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path expected
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv builds a Config from JIRA_* environment variables.
//
// The host comes from JIRA_HOST, falling back to JIRA_URL. Credentials are
// picked in order: JIRA_TOKEN (bearer), JIRA_USER with JIRA_PASS (basic),
// JIRA_COOKIE (session cookie), otherwise anonymous. JIRA_API_VERSION and
// JIRA_TIMEOUT (a Go duration or whole seconds) are optional.
func ConfigFromEnv() (*Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := DefaultConfig()
	cfg.URL = get("JIRA_HOST")
	if cfg.URL == "" {
		cfg.URL = get("JIRA_URL")
	}

	user, pass := get("JIRA_USER"), get("JIRA_PASS")
	switch {
	case get("JIRA_TOKEN") != "":
		cfg.Auth = AuthConfig{Type: AuthBearer, Token: get("JIRA_TOKEN")}
	case user != "" && pass != "":
		cfg.Auth = AuthConfig{Type: AuthBasic, Username: user, Password: pass}
	case get("JIRA_COOKIE") != "":
		cfg.Auth = AuthConfig{Type: AuthCookie, SessionID: get("JIRA_COOKIE")}
	}

	if v := get("JIRA_API_VERSION"); v != "" {
		version, err := ParseAPIVersion(v)
		if err != nil {
			return nil, err
		}
		cfg.APIVersion = version
	}

	if v := get("JIRA_TIMEOUT"); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return nil, fmt.Errorf("JIRA_TIMEOUT: %w", err)
		}
		cfg.HTTP.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseTimeout(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return time.Duration(secs) * time.Second, nil
}

// NewFromEnv creates a client from JIRA_* environment variables.
func NewFromEnv(opts ...ClientOption) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, opts...)
}
