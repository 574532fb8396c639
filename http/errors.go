// Package http provides the transport primitives shared by the Jira client:
// the error taxonomy, a request executor, awaited tasks and the pagination
// engine that drives both blocking and suspending result streams.
package http

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure surfaced by the client is exactly one of these.
var (
	// ErrURLParse indicates the configured host is not a valid absolute URL.
	ErrURLParse = errors.New("invalid url")

	// ErrUnauthorized indicates the server answered 401.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrMethodNotAllowed indicates the server answered 405.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrNotFound indicates the server answered 404.
	ErrNotFound = errors.New("resource not found")

	// ErrClientFault indicates any other 4xx answer.
	ErrClientFault = errors.New("client fault")

	// ErrSerialization indicates a request or response body could not be encoded or decoded.
	ErrSerialization = errors.New("serialization failed")

	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("transport failed")
)

// URLError reports a host that cannot be used as a base URL.
type URLError struct {
	// URL is the rejected input.
	URL string

	// Reason explains the rejection.
	Reason string

	// Err is the parser error, if any.
	Err error
}

// Error implements the error interface.
func (e *URLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid url %q: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}

// Unwrap returns ErrURLParse and the parser error.
func (e *URLError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrURLParse, e.Err}
	}
	return []error{ErrURLParse}
}

// TransportError wraps a network, TLS or body read failure.
type TransportError struct {
	// Service is the name of the integration (e.g., "jira").
	Service string

	// Method is the HTTP method of the failed request.
	Method string

	// URL is the request URL.
	URL string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s %s: transport failed: %v", e.Service, e.Method, e.URL, e.Err)
}

// Unwrap returns ErrTransport and the underlying failure.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// SerializationError wraps a JSON encode or decode failure.
type SerializationError struct {
	// Service is the name of the integration.
	Service string

	// Endpoint is the URL whose body failed to (de)serialize.
	Endpoint string

	// Err is the underlying codec error.
	Err error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%s serialization error at %s: %v", e.Service, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s serialization error: %v", e.Service, e.Err)
}

// Unwrap returns ErrSerialization and the codec error.
func (e *SerializationError) Unwrap() []error {
	return []error{ErrSerialization, e.Err}
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsMethodNotAllowed reports whether the server rejected the HTTP method.
func IsMethodNotAllowed(err error) bool {
	return errors.Is(err, ErrMethodNotAllowed)
}

// IsClientFault reports whether the error is a structured 4xx fault.
func IsClientFault(err error) bool {
	return errors.Is(err, ErrClientFault)
}

// IsSerialization reports whether the error is a codec failure.
func IsSerialization(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// IsTransport reports whether the request failed before a response arrived.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
