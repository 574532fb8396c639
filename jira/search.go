package jira

import (
	"context"
	"strings"

	jhttp "github.com/randalmurphal/jirakit/http"
)

// Search protocol limits.
const (
	DefaultMaxResults = 50
	MaxResultsLimit   = 5000
)

// boundingClauses are JQL terms that keep a V3 search from scanning every issue.
var boundingClauses = []string{
	"project", "assignee", "reporter", "created", "updated",
	"key", "id", "sprint", "fixversion", "component",
}

// SearchService runs JQL searches with the client's resolved protocol.
type SearchService struct {
	c *Client
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{c: c}
}

// Endpoint returns the API family, version and path the search uses.
func (s *SearchService) Endpoint() (family, version, path string) {
	if s.c.core.APIVersion() == APIVersionV3 {
		return "api", "3", "/search/jql"
	}
	return "api", "latest", "/search"
}

// List returns a single page of results.
func (s *SearchService) List(ctx context.Context, jql string, opts SearchOptions) (*SearchResults, error) {
	if s.c.core.APIVersion() == APIVersionV3 {
		return s.listV3(ctx, jql, opts)
	}
	return s.listV2(ctx, jql, opts)
}

// Iter returns a blocking iterator over every matching issue. Pages are
// requested one at a time as the iterator is drained.
func (s *SearchService) Iter(jql string, opts SearchOptions) *jhttp.PageIterator[Issue] {
	fetch, initial := s.pages(jql, opts)
	return jhttp.NewPageIterator(fetch, initial)
}

// pages returns the page fetcher and starting position for a search. Both
// façades drive the same fetcher.
func (s *SearchService) pages(jql string, opts SearchOptions) (jhttp.PageFetcher[Issue], jhttp.PageState) {
	startAt, _ := opts.StartAt()
	pageSize, ok := opts.MaxResults()
	if !ok {
		pageSize = DefaultMaxResults
	}

	if s.c.core.APIVersion() == APIVersionV3 {
		initial := jhttp.TokenState(opts.NextPageToken())
		initial.StartAt = startAt
		fetch := func(ctx context.Context, state jhttp.PageState) (*jhttp.Page[Issue], error) {
			pageOpts := opts.AsBuilder().NextPageToken(state.Cursor).StartAt(state.StartAt).Build()
			res, err := s.listV3(ctx, jql, pageOpts)
			if err != nil {
				return nil, err
			}
			return &jhttp.Page[Issue]{
				Items: res.Issues,
				Info: jhttp.PageInfo{
					StartAt:       state.StartAt,
					Returned:      len(res.Issues),
					NextPageToken: res.NextPageToken,
					IsLast:        res.IsLast,
				},
			}, nil
		}
		return fetch, initial
	}

	fetch := func(ctx context.Context, state jhttp.PageState) (*jhttp.Page[Issue], error) {
		pageOpts := opts.AsBuilder().StartAt(state.StartAt).MaxResults(state.PageSize).Build()
		res, err := s.listV2(ctx, jql, pageOpts)
		if err != nil {
			return nil, err
		}
		return &jhttp.Page[Issue]{
			Items: res.Issues,
			Info: jhttp.PageInfo{
				StartAt:  res.StartAt,
				Returned: len(res.Issues),
				Total:    res.Total,
			},
		}, nil
	}
	return fetch, jhttp.OffsetState(startAt, pageSize)
}

func (s *SearchService) listV2(ctx context.Context, jql string, opts SearchOptions) (*SearchResults, error) {
	opts = ApplyFieldPolicy(opts, APIVersionV2)

	params := opts.Encode()
	params.Set("jql", jql)
	family, version, path := s.Endpoint()

	var res SearchResults
	if err := s.c.GetVersioned(ctx, family, version, path+"?"+params.Encode(), &res); err != nil {
		return nil, err
	}
	if requested, ok := opts.StartAt(); ok && res.StartAt == 0 && requested > 0 {
		res.StartAt = requested
	}
	res.TotalIsAccurate = true
	res.IsLast = res.StartAt+len(res.Issues) >= res.Total
	return &res, nil
}

func (s *SearchService) listV3(ctx context.Context, jql string, opts SearchOptions) (*SearchResults, error) {
	opts, err := s.prepareV3(ctx, jql, opts)
	if err != nil {
		return nil, err
	}

	params := opts.Encode()
	// V3 pages by token only.
	params.Del("startAt")
	params.Set("jql", jql)
	family, version, path := s.Endpoint()

	var raw v3SearchResults
	if err := s.c.GetVersioned(ctx, family, version, path+"?"+params.Encode(), &raw); err != nil {
		return nil, err
	}

	startAt, _ := opts.StartAt()
	maxResults, _ := opts.MaxResults()
	return raw.normalize(startAt, maxResults), nil
}

// prepareV3 enforces the V3 query rules: a bounded page size, non-empty
// JQL and the essential fields when none were chosen.
func (s *SearchService) prepareV3(ctx context.Context, jql string, opts SearchOptions) (SearchOptions, error) {
	if strings.TrimSpace(jql) == "" {
		return opts, &QueryError{Reason: "the v3 search endpoint does not accept empty JQL"}
	}

	switch n, ok := opts.MaxResults(); {
	case !ok:
		opts = opts.AsBuilder().MaxResults(DefaultMaxResults).Build()
	case n > MaxResultsLimit:
		s.c.logger.WarnContext(ctx, "maxResults exceeds v3 limit, capping",
			"max_results", n,
			"limit", MaxResultsLimit,
		)
		opts = opts.AsBuilder().MaxResults(MaxResultsLimit).Build()
	case n <= 0:
		return opts, &QueryError{Reason: "maxResults must be positive"}
	}

	if !isBounded(jql) {
		s.c.logger.WarnContext(ctx, "jql has no limiting clause and may be expensive", "jql", jql)
	}

	return ApplyFieldPolicy(opts, APIVersionV3), nil
}

func isBounded(jql string) bool {
	lower := strings.ToLower(jql)
	for _, clause := range boundingClauses {
		if strings.Contains(lower, clause) {
			return true
		}
	}
	return false
}
