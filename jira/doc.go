// Package jira provides a client for the Jira REST API.
//
// A Client is built once from a host URL, a credential and a requested API
// version. Construction resolves everything that can be decided without the
// network: the base URL (context path included), the credential variant and
// the search protocol. The client never sends a request until an operation is
// called.
//
// # Search protocols
//
// Jira Cloud serves JQL search at /rest/api/3/search/jql and pages with an
// opaque nextPageToken. Jira Server and Data Center serve /rest/api/latest/search
// and page by startAt offset. With APIVersionAuto the client picks V3 for hosts
// under DefaultCloudDomains and V2 otherwise; the choice is fixed for the life
// of the client.
//
// V3 returns only issue ids unless fields are requested, so the client adds
// EssentialFieldSet when the caller chose no fields. An explicit choice is
// always sent unchanged.
//
// # Authentication
//
//   - Anonymous: no header
//   - Basic: username + password or email + API token
//   - Bearer: personal access token or OAuth 2.0 access token
//   - Cookie: JSESSIONID
//   - OAuth1a: RSA-SHA1 signed requests (omitted with the jira_minimal build tag)
//
// # Usage
//
//	client, err := jira.New("https://your-domain.atlassian.net",
//		jira.Basic{Username: "you@example.com", Secret: "api-token"})
//	if err != nil {
//		return err
//	}
//
//	it := client.Search().Iter("project = PROJ ORDER BY key", jira.DefaultSearchOptions())
//	for {
//		issue, ok, err := it.Next(ctx)
//		if err != nil {
//			return err
//		}
//		if !ok {
//			break
//		}
//		fmt.Println(issue.Key, issue.Fields.Summary)
//	}
//
// The same search runs without blocking through the async façade:
//
//	for issue, err := range client.Async().Search().Stream(ctx, jql, opts) {
//		...
//	}
//
// # Error Handling
//
// Every failure carries one of the jirakit/http sentinels. Use errors.Is:
//
//	if errors.Is(err, jira.ErrNotFound) {
//		// Issue doesn't exist
//	}
//	if apiErr, ok := jira.AsAPIError(err); ok {
//		fmt.Println(apiErr.Body.ErrorMessages)
//	}
package jira
