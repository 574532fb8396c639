package jira

import (
	"context"
	"iter"

	jhttp "github.com/randalmurphal/jirakit/http"
)

// BoardService lists agile boards. Boards always page by offset, whatever
// protocol search uses.
type BoardService struct {
	c *Client
}

// Boards returns the board service.
func (c *Client) Boards() *BoardService {
	return &BoardService{c: c}
}

// List returns one page of boards. Filters such as type, name or
// projectKeyOrId are passed with SearchOptionsBuilder.Param.
func (b *BoardService) List(ctx context.Context, opts SearchOptions) (*BoardsPage, error) {
	endpoint := "/board"
	if params := opts.Encode(); len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var page BoardsPage
	if err := b.c.Get(ctx, "agile", endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Iter returns a blocking iterator over every board.
func (b *BoardService) Iter(opts SearchOptions) *jhttp.PageIterator[Board] {
	fetch, initial := b.pages(opts)
	return jhttp.NewPageIterator(fetch, initial)
}

// Stream returns a suspending sequence over every board.
func (b *BoardService) Stream(ctx context.Context, opts SearchOptions) iter.Seq2[Board, error] {
	fetch, initial := b.pages(opts)
	return jhttp.NewStream(fetch, initial).All(ctx)
}

func (b *BoardService) pages(opts SearchOptions) (jhttp.PageFetcher[Board], jhttp.PageState) {
	startAt, _ := opts.StartAt()
	pageSize, ok := opts.MaxResults()
	if !ok {
		pageSize = DefaultMaxResults
	}

	fetch := func(ctx context.Context, state jhttp.PageState) (*jhttp.Page[Board], error) {
		page, err := b.List(ctx, opts.AsBuilder().StartAt(state.StartAt).MaxResults(state.PageSize).Build())
		if err != nil {
			return nil, err
		}
		total := page.Total
		// Some servers omit total; isLast is then the only signal.
		if total == 0 && !page.IsLast {
			total = page.StartAt + len(page.Values) + 1
		}
		return &jhttp.Page[Board]{
			Items: page.Values,
			Info: jhttp.PageInfo{
				StartAt:  page.StartAt,
				Returned: len(page.Values),
				Total:    total,
			},
		}, nil
	}
	return fetch, jhttp.OffsetState(startAt, pageSize)
}
