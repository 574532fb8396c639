package jira

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

func issuePath(key string, parts ...string) string {
	return "/issue/" + url.PathEscape(key) + strings.Join(parts, "")
}

// GetIssue retrieves an issue by key. With no fields given the server's
// default field set is returned.
func (c *Client) GetIssue(ctx context.Context, key string, fields ...string) (*Issue, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	endpoint := issuePath(key)
	if len(fields) > 0 {
		endpoint += "?" + url.Values{"fields": {strings.Join(fields, ",")}}.Encode()
	}

	var issue Issue
	if err := c.Get(ctx, "api", endpoint, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, req *CreateIssueRequest) (*CreateIssueResponse, error) {
	var created CreateIssueResponse
	if err := c.Post(ctx, "api", "/issue", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIssue sets fields on an issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}
	return c.Put(ctx, "api", issuePath(key), &updateIssueRequest{Fields: fields}, nil)
}

// DeleteIssue deletes an issue.
func (c *Client) DeleteIssue(ctx context.Context, key string) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}
	return c.Delete(ctx, "api", issuePath(key), nil)
}

// GetTransitions lists the transitions available on an issue.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var res transitionsResponse
	if err := c.Get(ctx, "api", issuePath(key, "/transitions"), &res); err != nil {
		return nil, err
	}
	return res.Transitions, nil
}

// TransitionIssue moves an issue through the given transition.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID string) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}
	if transitionID == "" {
		return ErrTransitionIDRequired
	}

	body := &transitionRequest{Transition: Ref{ID: transitionID}}
	return c.Post(ctx, "api", issuePath(key, "/transitions"), body, nil)
}

// TransitionIssueByName finds a transition by name (case-insensitive) and runs it.
func (c *Client) TransitionIssueByName(ctx context.Context, key, name string) error {
	transitions, err := c.GetTransitions(ctx, key)
	if err != nil {
		return err
	}

	for _, t := range transitions {
		if strings.EqualFold(t.Name, name) {
			return c.TransitionIssue(ctx, key, t.ID)
		}
	}
	return ErrTransitionNotFound
}

// GetComments lists the comments of an issue.
func (c *Client) GetComments(ctx context.Context, key string) ([]Comment, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var res commentsResponse
	if err := c.Get(ctx, "api", issuePath(key, "/comment"), &res); err != nil {
		return nil, err
	}
	return res.Comments, nil
}

// AddComment adds a plain-text comment. On V3 the text is sent as an ADF
// document, on V2 as a string.
func (c *Client) AddComment(ctx context.Context, key, text string) (*Comment, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var body any = text
	family, version := "api", ""
	if c.core.APIVersion() == APIVersionV3 {
		body = TextToADF(text)
		version = "3"
	}

	var comment Comment
	target := c.core.BuildVersionedURL(family, version, issuePath(key, "/comment"))
	if err := c.send(ctx, http.MethodPost, target, &addCommentRequest{Body: body}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetRemoteLinks lists the remote links of an issue.
func (c *Client) GetRemoteLinks(ctx context.Context, key string) ([]RemoteLink, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var links []RemoteLink
	if err := c.Get(ctx, "api", issuePath(key, "/remotelink"), &links); err != nil {
		return nil, err
	}
	return links, nil
}

// AddRemoteLink adds a remote link to an issue.
func (c *Client) AddRemoteLink(ctx context.Context, key string, link *RemoteLink) (*RemoteLink, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	var created RemoteLink
	if err := c.Post(ctx, "api", issuePath(key, "/remotelink"), link, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
