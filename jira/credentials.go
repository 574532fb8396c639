package jira

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Credentials is the closed set of ways a request can be authenticated:
// Anonymous, Basic, Bearer, Cookie and OAuth1a.
type Credentials interface {
	apply(req *http.Request) error
	kind() string
}

// ApplyCredentials authenticates req in place. It only adds headers.
func ApplyCredentials(creds Credentials, req *http.Request) error {
	if creds == nil {
		return nil
	}
	return creds.apply(req)
}

// Anonymous sends requests without authentication.
type Anonymous struct{}

func (Anonymous) apply(*http.Request) error { return nil }
func (Anonymous) kind() string              { return "anonymous" }

// Basic authenticates with username and secret (password or API token).
type Basic struct {
	Username string
	Secret   string
}

func (b Basic) apply(req *http.Request) error {
	req.SetBasicAuth(b.Username, b.Secret)
	return nil
}

func (Basic) kind() string { return "basic" }

// String redacts the secret.
func (b Basic) String() string {
	return fmt.Sprintf("Basic(%s, ****)", b.Username)
}

// Bearer authenticates with a bearer token. When TokenSource is set it is
// asked for the token on every request, otherwise Token is sent as is.
type Bearer struct {
	Token       string
	TokenSource oauth2.TokenSource
}

// BearerToken returns Bearer credentials for a static token.
func BearerToken(token string) Bearer {
	return Bearer{Token: token}
}

func (b Bearer) apply(req *http.Request) error {
	tok := &oauth2.Token{AccessToken: b.Token, TokenType: "Bearer"}
	if b.TokenSource != nil {
		var err error
		if tok, err = b.TokenSource.Token(); err != nil {
			return fmt.Errorf("bearer token: %w", err)
		}
	}
	tok.SetAuthHeader(req)
	return nil
}

func (Bearer) kind() string { return "bearer" }

// String redacts the token.
func (Bearer) String() string {
	return "Bearer(****)"
}

// Cookie authenticates with an existing JSESSIONID session.
type Cookie struct {
	SessionID string
}

func (c Cookie) apply(req *http.Request) error {
	req.Header.Set("Cookie", "JSESSIONID="+c.SessionID)
	return nil
}

func (Cookie) kind() string { return "cookie" }

// String redacts the session id.
func (Cookie) String() string {
	return "Cookie(****)"
}
