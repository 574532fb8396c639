package jira

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/randalmurphal/jirakit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncStreamMatchesBlockingIterator(t *testing.T) {
	client, _ := fakeHostClient(t, "https://acme.atlassian.net", tokenPages(t, ""))
	ctx := testutil.Context(t)
	opts := NewSearchOptions().MaxResults(2).Build()

	blocking, err := client.Search().Iter("project = PROJ", opts).All(ctx)
	require.NoError(t, err)

	var streamed []Issue
	for issue, err := range client.Async().Search().Stream(ctx, "project = PROJ", opts) {
		require.NoError(t, err)
		streamed = append(streamed, issue)
	}

	assert.Equal(t, keys(blocking), keys(streamed))
}

func TestAsyncStreamFailure(t *testing.T) {
	client, rec := fakeHostClient(t, "https://acme.atlassian.net", tokenPages(t, "t1"))

	var got []string
	var errs []error
	for issue, err := range client.Async().Search().Stream(context.Background(), "project = PROJ", DefaultSearchOptions()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		got = append(got, issue.Key)
	}

	assert.Equal(t, []string{"PROJ-1", "PROJ-2"}, got)
	require.Len(t, errs, 1, "the failure is yielded exactly once")
	assert.True(t, IsFault(errs[0]))
	assert.Equal(t, 2, rec.Count())
}

func TestAsyncStreamEarlyBreak(t *testing.T) {
	client, rec := fakeHostClient(t, "https://acme.atlassian.net", tokenPages(t, ""))

	for issue, err := range client.Async().Search().Stream(context.Background(), "project = PROJ", DefaultSearchOptions()) {
		require.NoError(t, err)
		if issue.Key == "PROJ-1" {
			break
		}
	}
	assert.Equal(t, 1, rec.Count(), "no page is fetched ahead of demand")
}

func TestAsyncStreamCancellation(t *testing.T) {
	transport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})
	client, err := New("https://acme.atlassian.net", nil, WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, err)

	ctx := testutil.ContextWithDeadline(t, 50*time.Millisecond)

	var errs []error
	for _, err := range client.Async().Search().Stream(ctx, "project = PROJ", DefaultSearchOptions()) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.DeadlineExceeded)
}

func TestAsyncSearchList(t *testing.T) {
	client, _ := fakeHostClient(t, "https://acme.atlassian.net", tokenPages(t, ""))
	ctx := testutil.Context(t)

	task := client.Async().Search().List(ctx, "project = PROJ", NewSearchOptions().MaxResults(2).Build())
	res, err := task.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PROJ-1", "PROJ-2"}, keys(res.Issues))
	assert.Equal(t, "t1", res.NextPageToken)

	select {
	case <-task.Done():
	default:
		t.Fatal("Done should be closed after Await returns")
	}
}

func TestAsyncGenericCalls(t *testing.T) {
	client, rec := serverClient(t, APIVersionV2, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"baseUrl":"https://jira.example.com","version":"9.4.0","deploymentType":"Server"}`))
		case http.MethodPost, http.MethodPut:
			_, _ = w.Write([]byte(`{"id":"10001","key":"PROJ-9"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	async := client.Async()
	ctx := testutil.Context(t)

	info, err := GetAsync[ServerInfo](ctx, async, "api", "/serverInfo").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, DeploymentServer, info.Deployment())

	created, err := PostAsync[CreateIssueResponse](ctx, async, "api", "/issue", map[string]any{"fields": map[string]any{}}).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PROJ-9", created.Key)

	_, err = PutAsync[CreateIssueResponse](ctx, async, "api", "/issue/PROJ-9", map[string]any{}).Await(ctx)
	require.NoError(t, err)

	_, err = DeleteAsync[struct{}](ctx, async, "api", "/issue/PROJ-9").Await(ctx)
	require.NoError(t, err)

	_, err = GetVersionedAsync[ServerInfo](ctx, async, "api", "2", "/serverInfo").Await(ctx)
	require.NoError(t, err)

	require.Equal(t, 5, rec.Count())
	assert.Equal(t, "/rest/api/latest/serverInfo", rec.At(0).URL.Path)
	assert.Equal(t, "/rest/api/2/serverInfo", rec.At(4).URL.Path)
	assert.Same(t, client, async.Sync())
	assert.Same(t, client.Core(), async.Core())
}

func TestNewAsync(t *testing.T) {
	async, err := NewAsync("https://acme.atlassian.net", nil)
	require.NoError(t, err)
	assert.Equal(t, APIVersionV3, async.Core().APIVersion())

	_, err = NewAsync("not a url", nil)
	assert.ErrorIs(t, err, ErrURLParse)
}
