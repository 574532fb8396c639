package jira

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

// APIVersion selects the search protocol.
type APIVersion string

// Search protocol versions.
const (
	// APIVersionAuto picks V3 for cloud hosts and V2 otherwise.
	APIVersionAuto APIVersion = "auto"

	// APIVersionV2 is the legacy offset-paginated search.
	APIVersionV2 APIVersion = "v2"

	// APIVersionV3 is the current token-paginated search.
	APIVersionV3 APIVersion = "v3"
)

// ParseAPIVersion maps a configuration string to an APIVersion.
// Empty input means auto.
func ParseAPIVersion(s string) (APIVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return APIVersionAuto, nil
	case "v2", "2", "legacy":
		return APIVersionV2, nil
	case "v3", "3", "current":
		return APIVersionV3, nil
	default:
		return "", ErrConfigAPIVersionInvalid
	}
}

// DeploymentType is the kind of Jira installation.
type DeploymentType string

// Deployment types for Jira instances.
const (
	DeploymentCloud      DeploymentType = "Cloud"
	DeploymentServer     DeploymentType = "Server"
	DeploymentDataCenter DeploymentType = "DataCenter"
	DeploymentUnknown    DeploymentType = "Unknown"
)

// DefaultCloudDomains are the host suffixes treated as Jira Cloud.
var DefaultCloudDomains = []string{"atlassian.net", "jira.com"}

// IsCloudHost reports whether host's name is, or is a subdomain of, one of domains.
func IsCloudHost(host *url.URL, domains []string) bool {
	if host == nil {
		return false
	}
	// A Caser keeps state between calls and cannot be shared.
	fold := cases.Fold()
	name := strings.TrimSuffix(fold.String(host.Hostname()), ".")
	for _, d := range domains {
		d = strings.TrimPrefix(fold.String(d), ".")
		if d == "" {
			continue
		}
		if name == d || strings.HasSuffix(name, "."+d) {
			return true
		}
	}
	return false
}

// ResolveAPIVersion turns the requested version into a concrete one.
// Explicit versions are returned unchanged.
func ResolveAPIVersion(host *url.URL, requested APIVersion, cloudDomains []string) APIVersion {
	switch requested {
	case APIVersionV2, APIVersionV3:
		return requested
	}
	if IsCloudHost(host, cloudDomains) {
		return APIVersionV3
	}
	return APIVersionV2
}

// DetectDeployment classifies host by name alone. Only cloud hosts can be
// recognized this way; everything else is DeploymentUnknown.
func DetectDeployment(host *url.URL, cloudDomains []string) DeploymentType {
	if IsCloudHost(host, cloudDomains) {
		return DeploymentCloud
	}
	return DeploymentUnknown
}
