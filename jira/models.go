package jira

import (
	"regexp"
	"time"
)

// TimeFormat is the standard Jira timestamp format.
const TimeFormat = "2006-01-02T15:04:05.000-0700"

// ServerInfo is the answer of /rest/api/latest/serverInfo.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	VersionNumbers []int  `json:"versionNumbers"`
	DeploymentType string `json:"deploymentType"`
	BuildNumber    int    `json:"buildNumber"`
	ServerTime     string `json:"serverTime,omitempty"`
	ServerTitle    string `json:"serverTitle"`
}

// Deployment returns the deployment type the server reports.
func (s *ServerInfo) Deployment() DeploymentType {
	switch DeploymentType(s.DeploymentType) {
	case DeploymentCloud, DeploymentServer, DeploymentDataCenter:
		return DeploymentType(s.DeploymentType)
	default:
		return DeploymentUnknown
	}
}

// Session is the answer of /rest/auth/latest/session.
type Session struct {
	Self      string     `json:"self"`
	Name      string     `json:"name"`
	LoginInfo *LoginInfo `json:"loginInfo,omitempty"`
}

// LoginInfo describes the current session's login history.
type LoginInfo struct {
	FailedLoginCount    int    `json:"failedLoginCount"`
	LoginCount          int    `json:"loginCount"`
	LastFailedLoginTime string `json:"lastFailedLoginTime,omitempty"`
	PreviousLoginTime   string `json:"previousLoginTime,omitempty"`
}

// User represents a Jira user.
type User struct {
	AccountID    string `json:"accountId,omitempty"` // Cloud
	Name         string `json:"name,omitempty"`      // Server
	EmailAddress string `json:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName"`
	Active       bool   `json:"active"`
	Self         string `json:"self,omitempty"`
}

// GetID returns the user identifier (accountId for Cloud, name for Server).
func (u *User) GetID() string {
	if u.AccountID != "" {
		return u.AccountID
	}
	return u.Name
}

// Project represents a Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Self string `json:"self"`
}

// NamedEntity is the shape shared by issue types, priorities and resolutions.
type NamedEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Self        string `json:"self,omitempty"`
}

// Status represents an issue status.
type Status struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	StatusCategory *StatusCategory `json:"statusCategory,omitempty"`
	Self           string          `json:"self,omitempty"`
}

// StatusCategory represents a status category.
type StatusCategory struct {
	ID   int    `json:"id"`
	Key  string `json:"key"` // "new", "indeterminate", "done"
	Name string `json:"name"`
}

// Issue is a search or lookup result. ID and Self are always present;
// Fields holds whatever the request asked for.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key,omitempty"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the commonly used fields of an issue.
type IssueFields struct {
	Summary     string       `json:"summary,omitempty"`
	Description any          `json:"description,omitempty"` // ADF (v3) or string (v2)
	Status      *Status      `json:"status,omitempty"`
	Priority    *NamedEntity `json:"priority,omitempty"`
	IssueType   *NamedEntity `json:"issuetype,omitempty"`
	Resolution  *NamedEntity `json:"resolution,omitempty"`
	Project     *Project     `json:"project,omitempty"`
	Assignee    *User        `json:"assignee,omitempty"`
	Reporter    *User        `json:"reporter,omitempty"`
	Labels      []string     `json:"labels,omitempty"`
	Created     string       `json:"created,omitempty"`
	Updated     string       `json:"updated,omitempty"`
	DueDate     string       `json:"duedate,omitempty"`
}

// CreatedTime parses and returns the Created timestamp.
func (f *IssueFields) CreatedTime() (time.Time, error) {
	return ParseTime(f.Created)
}

// UpdatedTime parses and returns the Updated timestamp.
func (f *IssueFields) UpdatedTime() (time.Time, error) {
	return ParseTime(f.Updated)
}

// SearchResults is one page of search results, normalized across protocols.
//
// V2 pages carry StartAt, MaxResults and an exact Total. V3 pages carry
// NextPageToken and IsLast; Total is then an estimate derived from what has
// been seen and TotalIsAccurate is false.
type SearchResults struct {
	StartAt         int     `json:"startAt"`
	MaxResults      int     `json:"maxResults"`
	Total           int     `json:"total"`
	Issues          []Issue `json:"issues"`
	NextPageToken   string  `json:"nextPageToken,omitempty"`
	IsLast          bool    `json:"isLast,omitempty"`
	TotalIsAccurate bool    `json:"-"`
}

// v3SearchResults is the wire shape of /rest/api/3/search/jql.
type v3SearchResults struct {
	Issues        []Issue `json:"issues"`
	IsLast        bool    `json:"isLast"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

func (r *v3SearchResults) normalize(startAt, maxResults int) *SearchResults {
	total := startAt + len(r.Issues)
	if !r.IsLast {
		total += maxResults
	}
	return &SearchResults{
		StartAt:       startAt,
		MaxResults:    maxResults,
		Total:         total,
		Issues:        r.Issues,
		NextPageToken: r.NextPageToken,
		IsLast:        r.IsLast,
	}
}

// Transition represents an available status transition.
type Transition struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	To   *Status `json:"to,omitempty"`
}

type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// Comment represents an issue comment.
type Comment struct {
	ID      string `json:"id"`
	Self    string `json:"self,omitempty"`
	Author  *User  `json:"author,omitempty"`
	Body    any    `json:"body"` // ADF (v3) or string (v2)
	Created string `json:"created"`
	Updated string `json:"updated"`
}

// Text returns the comment body as plain text for either protocol.
func (c *Comment) Text() string {
	return BodyText(c.Body)
}

type commentsResponse struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Comments   []Comment `json:"comments"`
}

// RemoteLink represents a remote link on an issue.
type RemoteLink struct {
	ID           int              `json:"id,omitempty"`
	Self         string           `json:"self,omitempty"`
	GlobalID     string           `json:"globalId,omitempty"`
	Relationship string           `json:"relationship,omitempty"`
	Object       RemoteLinkObject `json:"object"`
}

// RemoteLinkObject represents the linked object details.
type RemoteLinkObject struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// Ref references an entity by key, name or id.
type Ref struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// CreateIssueRequest is the body of an issue creation.
type CreateIssueRequest struct {
	Fields CreateIssueFields `json:"fields"`
}

// CreateIssueFields are the fields accepted on creation.
type CreateIssueFields struct {
	Project     Ref      `json:"project"`
	IssueType   Ref      `json:"issuetype"`
	Summary     string   `json:"summary"`
	Description any      `json:"description,omitempty"` // ADF or string
	Priority    *Ref     `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Parent      *Ref     `json:"parent,omitempty"`
}

// CreateIssueResponse is the answer to an issue creation.
type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

type transitionRequest struct {
	Transition Ref            `json:"transition"`
	Fields     map[string]any `json:"fields,omitempty"`
}

type updateIssueRequest struct {
	Fields map[string]any `json:"fields,omitempty"`
}

type addCommentRequest struct {
	Body any `json:"body"`
}

// Board is an agile board.
type Board struct {
	ID   int    `json:"id"`
	Self string `json:"self"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// BoardsPage is one page of /rest/agile/latest/board.
type BoardsPage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	IsLast     bool    `json:"isLast"`
	Values     []Board `json:"values"`
}

var issueKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// ValidateIssueKey validates a Jira issue key format (e.g., PROJ-123).
func ValidateIssueKey(key string) bool {
	return issueKeyRegex.MatchString(key)
}

var timeFormats = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
}

// ParseTime parses a Jira timestamp. Empty input yields the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Value: s}
}

// FormatTime formats a time.Time as a Jira timestamp string.
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}
