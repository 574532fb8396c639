package jira

import (
	"context"
	"iter"

	jhttp "github.com/randalmurphal/jirakit/http"
)

// AsyncClient exposes the same operations as Client as awaitable tasks and
// suspending streams. It shares the Client's Core and transport, so both
// façades resolve URLs, credentials and protocol identically.
type AsyncClient struct {
	client *Client
}

// NewAsync creates an AsyncClient that picks the search protocol from the host name.
func NewAsync(host string, creds Credentials, opts ...ClientOption) (*AsyncClient, error) {
	c, err := New(host, creds, opts...)
	if err != nil {
		return nil, err
	}
	return c.Async(), nil
}

// Sync returns the blocking Client sharing this client's core.
func (a *AsyncClient) Sync() *Client {
	return a.client
}

// Core returns the shared immutable client state.
func (a *AsyncClient) Core() *Core {
	return a.client.core
}

// GetAsync starts a GET and returns a task yielding the decoded answer.
func GetAsync[T any](ctx context.Context, a *AsyncClient, family, endpoint string) *jhttp.Task[T] {
	return jhttp.Go(ctx, func(ctx context.Context) (T, error) {
		var out T
		err := a.client.Get(ctx, family, endpoint, &out)
		return out, err
	})
}

// GetVersionedAsync is GetAsync against an explicit API version.
func GetVersionedAsync[T any](ctx context.Context, a *AsyncClient, family, version, endpoint string) *jhttp.Task[T] {
	return jhttp.Go(ctx, func(ctx context.Context) (T, error) {
		var out T
		err := a.client.GetVersioned(ctx, family, version, endpoint, &out)
		return out, err
	})
}

// PostAsync starts a POST and returns a task yielding the decoded answer.
func PostAsync[T any](ctx context.Context, a *AsyncClient, family, endpoint string, body any) *jhttp.Task[T] {
	return jhttp.Go(ctx, func(ctx context.Context) (T, error) {
		var out T
		err := a.client.Post(ctx, family, endpoint, body, &out)
		return out, err
	})
}

// PutAsync starts a PUT and returns a task yielding the decoded answer.
func PutAsync[T any](ctx context.Context, a *AsyncClient, family, endpoint string, body any) *jhttp.Task[T] {
	return jhttp.Go(ctx, func(ctx context.Context) (T, error) {
		var out T
		err := a.client.Put(ctx, family, endpoint, body, &out)
		return out, err
	})
}

// DeleteAsync starts a DELETE and returns a task yielding the decoded answer, if any.
func DeleteAsync[T any](ctx context.Context, a *AsyncClient, family, endpoint string) *jhttp.Task[T] {
	return jhttp.Go(ctx, func(ctx context.Context) (T, error) {
		var out T
		err := a.client.Delete(ctx, family, endpoint, &out)
		return out, err
	})
}

// AsyncSearch runs JQL searches as tasks and streams.
type AsyncSearch struct {
	s *SearchService
}

// Search returns the async search service.
func (a *AsyncClient) Search() *AsyncSearch {
	return &AsyncSearch{s: a.client.Search()}
}

// List starts a single-page search.
func (s *AsyncSearch) List(ctx context.Context, jql string, opts SearchOptions) *jhttp.Task[*SearchResults] {
	return jhttp.Go(ctx, func(ctx context.Context) (*SearchResults, error) {
		return s.s.List(ctx, jql, opts)
	})
}

// Stream returns a single-use sequence over every matching issue. The loop
// waits only when a new page must be fetched; a failure is yielded once and
// ends the sequence.
func (s *AsyncSearch) Stream(ctx context.Context, jql string, opts SearchOptions) iter.Seq2[Issue, error] {
	fetch, initial := s.s.pages(jql, opts)
	return jhttp.NewStream(fetch, initial).All(ctx)
}
