package jira

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://jira.example.com/rest/api/latest/myself", nil)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestApplyCredentials(t *testing.T) {
	tests := []struct {
		name       string
		creds      Credentials
		wantHeader string
		wantValue  string
	}{
		{
			name:       "basic",
			creds:      Basic{Username: "alice", Secret: "s3cret"},
			wantHeader: "Authorization",
			wantValue:  "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret")),
		},
		{
			name:       "bearer",
			creds:      BearerToken("pat-123"),
			wantHeader: "Authorization",
			wantValue:  "Bearer pat-123",
		},
		{
			name: "bearer token source",
			creds: Bearer{TokenSource: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: "from-source",
			})},
			wantHeader: "Authorization",
			wantValue:  "Bearer from-source",
		},
		{
			name:       "cookie",
			creds:      Cookie{SessionID: "ABC123"},
			wantHeader: "Cookie",
			wantValue:  "JSESSIONID=ABC123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t)
			if err := ApplyCredentials(tt.creds, req); err != nil {
				t.Fatalf("ApplyCredentials() error = %v", err)
			}
			if got := req.Header.Get(tt.wantHeader); got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantHeader, got, tt.wantValue)
			}
		})
	}
}

func TestApplyCredentialsAnonymous(t *testing.T) {
	for _, creds := range []Credentials{Anonymous{}, nil} {
		req := newRequest(t)
		if err := ApplyCredentials(creds, req); err != nil {
			t.Fatalf("ApplyCredentials(%v) error = %v", creds, err)
		}
		if len(req.Header) != 0 {
			t.Errorf("ApplyCredentials(%v) set headers %v", creds, req.Header)
		}
	}
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("refresh denied")
}

func TestBearerTokenSourceError(t *testing.T) {
	err := ApplyCredentials(Bearer{TokenSource: failingSource{}}, newRequest(t))
	if err == nil || !strings.Contains(err.Error(), "refresh denied") {
		t.Errorf("ApplyCredentials() error = %v, want token source error", err)
	}
}

func TestCredentialsRedaction(t *testing.T) {
	tests := []struct {
		creds  interface{ String() string }
		secret string
	}{
		{Basic{Username: "alice", Secret: "s3cret"}, "s3cret"},
		{BearerToken("pat-123"), "pat-123"},
		{Cookie{SessionID: "ABC123"}, "ABC123"},
	}

	for _, tt := range tests {
		if s := tt.creds.String(); strings.Contains(s, tt.secret) {
			t.Errorf("String() = %q leaks secret", s)
		}
	}
}
