//go:build jira_minimal

package jira

func oauthCredentials(AuthConfig) (Credentials, error) {
	return nil, ErrOAuthUnavailable
}
