package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

const requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client executes single HTTP requests for an integration. It never retries;
// a request either yields a Response or a *TransportError.
type Client struct {
	client      Doer
	serviceName string
	userAgent   string
	logger      *slog.Logger

	// beforeRequest is called before each request (for auth headers, etc.)
	beforeRequest func(req *http.Request) error
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client        Doer
	ServiceName   string
	UserAgent     string
	Logger        *slog.Logger
	BeforeRequest func(req *http.Request) error
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		serviceName:   cfg.ServiceName,
		userAgent:     cfg.UserAgent,
		logger:        cfg.Logger,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	if c.serviceName == "" {
		c.serviceName = "http"
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestID returns the server-assigned request id, if any.
func (r *Response) RequestID() string {
	if id := r.Header.Get("X-Arequestid"); id != "" {
		return id
	}
	return r.Header.Get("X-Request-Id")
}

// EncodeBody marshals a request body. A nil body encodes to nil.
func (c *Client) EncodeBody(endpoint string, body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &SerializationError{Service: c.serviceName, Endpoint: endpoint, Err: err}
	}
	return data, nil
}

// Do executes one request against an absolute URL and reads the whole body.
// Any failure before the body is read is a *TransportError; errors from the
// before-request hook are returned unchanged.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &TransportError{Service: c.serviceName, Method: method, URL: url, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if c.beforeRequest != nil {
		if hookErr := c.beforeRequest(req); hookErr != nil {
			return nil, hookErr
		}
	}

	id := correlationID()
	start := time.Now()
	c.logger.DebugContext(ctx, "request",
		"service", c.serviceName,
		"request_id", id,
		"method", method,
		"url", url,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed",
			"service", c.serviceName,
			"request_id", id,
			"error", err,
		)
		return nil, &TransportError{Service: c.serviceName, Method: method, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Service: c.serviceName,
			Method:  method,
			URL:     url,
			Err:     fmt.Errorf("read body: %w", err),
		}
	}

	c.logger.DebugContext(ctx, "response",
		"service", c.serviceName,
		"request_id", id,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func correlationID() string {
	id, err := gonanoid.Generate(requestIDAlphabet, 12)
	if err != nil {
		return "unknown"
	}
	return id
}
