package jira

import (
	"context"
	"log/slog"
	"net/http"

	jhttp "github.com/randalmurphal/jirakit/http"
)

// Client provides blocking access to the Jira REST API. Every call runs on
// the caller's goroutine. A Client is safe for concurrent use.
type Client struct {
	core      *Core
	transport *jhttp.Client
	logger    *slog.Logger
}

type clientSettings struct {
	httpClient jhttp.Doer
	logger     *slog.Logger
	userAgent  string
	coreOpts   []CoreOption
}

// ClientOption configures the client.
type ClientOption func(*clientSettings)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(httpClient jhttp.Doer) ClientOption {
	return func(s *clientSettings) {
		s.httpClient = httpClient
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(s *clientSettings) {
		s.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(s *clientSettings) {
		s.userAgent = userAgent
	}
}

// WithCloudDomains replaces the host suffixes that make auto resolve to V3.
func WithCloudDomains(domains ...string) ClientOption {
	return func(s *clientSettings) {
		s.coreOpts = append(s.coreOpts, WithCloudDomainList(domains...))
	}
}

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "jirakit"

// New creates a client that picks the search protocol from the host name.
func New(host string, creds Credentials, opts ...ClientOption) (*Client, error) {
	return NewWithAPIVersion(host, creds, APIVersionAuto, opts...)
}

// NewWithAPIVersion creates a client with an explicit search protocol.
// Construction performs no network I/O.
func NewWithAPIVersion(host string, creds Credentials, version APIVersion, opts ...ClientOption) (*Client, error) {
	s := clientSettings{userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&s)
	}

	core, err := NewCore(host, creds, version, s.coreOpts...)
	if err != nil {
		return nil, err
	}

	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "jira")

	transport := jhttp.NewClient(jhttp.ClientConfig{
		Client:      s.httpClient,
		ServiceName: serviceName,
		UserAgent:   s.userAgent,
		Logger:      logger,
		BeforeRequest: func(req *http.Request) error {
			return ApplyCredentials(core.Credentials(), req)
		},
	})

	return &Client{
		core:      core,
		transport: transport,
		logger:    logger,
	}, nil
}

// NewClient creates a client from configuration.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	creds, credErr := cfg.Credentials()
	if credErr != nil {
		return nil, credErr
	}

	base := []ClientOption{WithHTTPClient(cfg.HTTP.newHTTPClient())}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	if len(cfg.CloudDomains) > 0 {
		base = append(base, WithCloudDomains(cfg.CloudDomains...))
	}

	return NewWithAPIVersion(cfg.URL, creds, cfg.APIVersion, append(base, opts...)...)
}

// Core returns the shared immutable client state.
func (c *Client) Core() *Core {
	return c.core
}

// APIVersionInUse returns the resolved search protocol.
func (c *Client) APIVersionInUse() APIVersion {
	return c.core.APIVersion()
}

// IsCloud reports whether the host name is a Jira Cloud domain.
func (c *Client) IsCloud() bool {
	return c.core.Deployment() == DeploymentCloud
}

// Async returns an AsyncClient sharing this client's core and transport.
func (c *Client) Async() *AsyncClient {
	return &AsyncClient{client: c}
}

// Get fetches <host>/rest/<family>/latest<endpoint> and decodes into out.
func (c *Client) Get(ctx context.Context, family, endpoint string, out any) error {
	return c.send(ctx, http.MethodGet, c.core.BuildURL(family, endpoint), nil, out)
}

// GetVersioned is Get against an explicit API version instead of "latest".
func (c *Client) GetVersioned(ctx context.Context, family, version, endpoint string, out any) error {
	return c.send(ctx, http.MethodGet, c.core.BuildVersionedURL(family, version, endpoint), nil, out)
}

// Post sends body as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, family, endpoint string, body, out any) error {
	return c.send(ctx, http.MethodPost, c.core.BuildURL(family, endpoint), body, out)
}

// Put sends body as JSON and decodes the answer into out.
func (c *Client) Put(ctx context.Context, family, endpoint string, body, out any) error {
	return c.send(ctx, http.MethodPut, c.core.BuildURL(family, endpoint), body, out)
}

// Delete issues a DELETE and decodes the answer, if any, into out.
func (c *Client) Delete(ctx context.Context, family, endpoint string, out any) error {
	return c.send(ctx, http.MethodDelete, c.core.BuildURL(family, endpoint), nil, out)
}

func (c *Client) send(ctx context.Context, method, url string, body, out any) error {
	data, encErr := c.transport.EncodeBody(url, body)
	if encErr != nil {
		return encErr
	}

	resp, doErr := c.transport.Do(ctx, method, url, data)
	if doErr != nil {
		return doErr
	}

	return processResponse(resp, url, out)
}

// Session returns the current authentication session.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.Get(ctx, "auth", "/session", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetServerInfo fetches the server's self-description. It does not change
// the resolved search protocol.
func (c *Client) GetServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.Get(ctx, "api", "/serverInfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Context key type for storing Jira client in context.
type jiraClientKey struct{}

// ClientFromContext extracts a Jira Client from a context.
// Returns nil if no Client is present.
func ClientFromContext(ctx context.Context) *Client {
	if c, ok := ctx.Value(jiraClientKey{}).(*Client); ok {
		return c
	}
	return nil
}

// ContextWithClient adds a Jira Client to a context.
func ContextWithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, jiraClientKey{}, c)
}
