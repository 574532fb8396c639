package jira

import (
	"net/url"
	"slices"
	"strings"

	jhttp "github.com/randalmurphal/jirakit/http"
)

// Core is the immutable state shared by Client and AsyncClient: the validated
// host, the credentials and the search version resolved at construction.
// It is safe for concurrent use.
type Core struct {
	host         *url.URL
	base         string
	credentials  Credentials
	requested    APIVersion
	version      APIVersion
	cloudDomains []string
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithCloudDomainList replaces the host suffixes treated as Jira Cloud.
func WithCloudDomainList(domains ...string) CoreOption {
	return func(c *Core) {
		c.cloudDomains = slices.Clone(domains)
	}
}

// NewCore validates host and resolves the search version. It performs no I/O.
func NewCore(host string, creds Credentials, version APIVersion, opts ...CoreOption) (*Core, error) {
	u, err := parseHost(host)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		creds = Anonymous{}
	}
	version, err = ParseAPIVersion(string(version))
	if err != nil {
		return nil, err
	}

	c := &Core{
		host:         u,
		base:         strings.TrimSuffix(u.String(), "/"),
		credentials:  creds,
		requested:    version,
		cloudDomains: DefaultCloudDomains,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.version = ResolveAPIVersion(c.host, version, c.cloudDomains)
	return c, nil
}

func parseHost(host string) (*url.URL, error) {
	if strings.TrimSpace(host) == "" {
		return nil, &jhttp.URLError{URL: host, Reason: "empty host"}
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, &jhttp.URLError{URL: host, Reason: "parse", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &jhttp.URLError{URL: host, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return nil, &jhttp.URLError{URL: host, Reason: "missing host"}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// Host returns a copy of the validated host URL.
func (c *Core) Host() *url.URL {
	u := *c.host
	return &u
}

// Credentials returns the configured credentials.
func (c *Core) Credentials() Credentials {
	return c.credentials
}

// APIVersion returns the resolved search version (never auto).
func (c *Core) APIVersion() APIVersion {
	return c.version
}

// RequestedAPIVersion returns the version given at construction.
func (c *Core) RequestedAPIVersion() APIVersion {
	return c.requested
}

// Deployment returns what the host name says about the installation.
func (c *Core) Deployment() DeploymentType {
	return DetectDeployment(c.host, c.cloudDomains)
}

// BuildURL composes <host>/rest/<family>/latest<endpoint>.
func (c *Core) BuildURL(family, endpoint string) string {
	return c.BuildVersionedURL(family, "", endpoint)
}

// BuildVersionedURL composes <host>/rest/<family>/<version><endpoint>.
// An empty version means "latest".
func (c *Core) BuildVersionedURL(family, version, endpoint string) string {
	if version == "" {
		version = "latest"
	}
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") && !strings.HasPrefix(endpoint, "?") {
		endpoint = "/" + endpoint
	}
	return c.base + "/rest/" + family + "/" + version + endpoint
}
