package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// JSONResponse builds a response with a JSON body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// Recorder collects every request a fake sees. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

// Add records req.
func (r *Recorder) Add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

// Count returns the number of requests seen.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

// At returns the i-th request.
func (r *Recorder) At(i int) *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[i]
}

// FakeHTTPClient returns an http.Client whose requests never leave the
// process: handler answers each one.
func FakeHTTPClient(handler func(*http.Request) *http.Response) (*http.Client, *Recorder) {
	rec := &Recorder{}
	transport := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		rec.Add(req)
		return handler(req), nil
	})
	return &http.Client{Transport: transport}, rec
}

// NewServer starts an httptest server that records requests before
// passing them to handler. The server is closed when the test ends.
func NewServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Add(r)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server, rec
}

// Context returns a context canceled when the test ends, so requests and
// page fetches a test leaves running are abandoned with it.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// ContextWithDeadline is Context with a deadline d from now.
func ContextWithDeadline(t *testing.T, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
