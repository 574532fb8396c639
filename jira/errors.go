package jira

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	jhttp "github.com/randalmurphal/jirakit/http"
)

// Taxonomy sentinels, re-exported so callers only import this package.
var (
	ErrURLParse         = jhttp.ErrURLParse
	ErrUnauthorized     = jhttp.ErrUnauthorized
	ErrMethodNotAllowed = jhttp.ErrMethodNotAllowed
	ErrNotFound         = jhttp.ErrNotFound
	ErrClientFault      = jhttp.ErrClientFault
	ErrSerialization    = jhttp.ErrSerialization
	ErrTransport        = jhttp.ErrTransport
)

// Configuration errors.
var (
	ErrConfigURLRequired       = errors.New("jira url is required")
	ErrConfigAuthTypeInvalid   = errors.New("jira auth type must be anonymous, basic, api_token, pat, bearer, cookie, or oauth1")
	ErrConfigAPITokenAuth      = errors.New("api_token auth requires email and token")
	ErrConfigBasicAuth         = errors.New("basic auth requires username and password")
	ErrConfigBearerAuth        = errors.New("pat and bearer auth require token")
	ErrConfigCookieAuth        = errors.New("cookie auth requires session_id")
	ErrConfigOAuth1Auth        = errors.New("oauth1 auth requires consumer_key and private_key or private_key_file")
	ErrConfigAPIVersionInvalid = errors.New("api_version must be auto, v2, or v3")
)

// Credential errors.
var (
	// ErrOAuth indicates an OAuth 1.0a key or signing failure.
	ErrOAuth = errors.New("oauth error")

	// ErrOAuthUnavailable is returned when OAuth 1.0a support was compiled out.
	ErrOAuthUnavailable = errors.New("oauth1 support not compiled in (built with jira_minimal)")
)

// Search errors.
var (
	// ErrInvalidQuery indicates a search request was rejected before it was sent.
	ErrInvalidQuery = errors.New("invalid query")
)

// Issue errors.
var (
	ErrIssueKeyInvalid      = errors.New("invalid issue key format")
	ErrTransitionNotFound   = errors.New("transition not found for issue")
	ErrTransitionIDRequired = errors.New("transition id is required")
)

// ErrorBody is the error payload Jira returns with 4xx answers.
type ErrorBody struct {
	ErrorMessages []string          `json:"errorMessages,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// APIError is a 4xx answer other than 401, 404 and 405, carrying the
// server's structured error body.
type APIError struct {
	StatusCode int
	Body       ErrorBody
	Endpoint   string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var msgs []string
	msgs = append(msgs, e.Body.ErrorMessages...)

	fields := make([]string, 0, len(e.Body.Errors))
	for field := range e.Body.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msgs = append(msgs, field+": "+e.Body.Errors[field])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "jira api error (%d)", e.StatusCode)
	if e.Endpoint != "" {
		fmt.Fprintf(&b, " at %s", e.Endpoint)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " [%s]", e.RequestID)
	}
	if len(msgs) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, "; "))
	}
	return b.String()
}

// Unwrap returns ErrClientFault.
func (e *APIError) Unwrap() error {
	return jhttp.ErrClientFault
}

// NewAPIError creates an APIError from status code and error messages.
func NewAPIError(statusCode int, messages []string, fieldErrors map[string]string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Body: ErrorBody{
			ErrorMessages: messages,
			Errors:        fieldErrors,
		},
	}
}

// QueryError describes why a search request was rejected locally.
type QueryError struct {
	Reason string
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return "invalid query: " + e.Reason
}

// Unwrap returns ErrInvalidQuery.
func (e *QueryError) Unwrap() error {
	return ErrInvalidQuery
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return jhttp.IsNotFound(err)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return jhttp.IsUnauthorized(err)
}

// IsMethodNotAllowed reports whether the server rejected the HTTP method.
func IsMethodNotAllowed(err error) bool {
	return jhttp.IsMethodNotAllowed(err)
}

// IsFault reports whether the error is a structured 4xx fault.
func IsFault(err error) bool {
	return jhttp.IsClientFault(err)
}

// IsSerialization reports whether the error is a codec failure.
func IsSerialization(err error) bool {
	return jhttp.IsSerialization(err)
}

// IsTransport reports whether the request failed before a response arrived.
func IsTransport(err error) bool {
	return jhttp.IsTransport(err)
}

// AsAPIError returns the APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
