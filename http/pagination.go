package http

import (
	"context"
	"iter"
)

// PageStrategy selects how a paginated sequence decides whether more pages
// exist and how it moves to the next one. It is fixed for the life of a sequence.
type PageStrategy int

const (
	// OffsetPaging advances by item offset and stops once start+returned reaches the total.
	OffsetPaging PageStrategy = iota

	// TokenPaging follows an opaque continuation cursor until it is absent or the page is last.
	TokenPaging
)

// String returns the strategy name.
func (s PageStrategy) String() string {
	switch s {
	case OffsetPaging:
		return "offset"
	case TokenPaging:
		return "token"
	default:
		return "unknown"
	}
}

// PageInfo holds the continuation signals reported by one page.
// Only the signals belonging to the active strategy are consulted.
type PageInfo struct {
	// StartAt is the offset of the first item of the page.
	StartAt int

	// Returned is the number of items in the page.
	Returned int

	// Total is the server's total count (offset paging).
	Total int

	// NextPageToken is the continuation cursor, empty when absent (token paging).
	NextPageToken string

	// IsLast marks the final page (token paging).
	IsLast bool
}

// PageState is the position of a sequence: an offset window or a cursor.
type PageState struct {
	Strategy PageStrategy

	// StartAt and PageSize are used by OffsetPaging.
	StartAt  int
	PageSize int

	// Cursor is used by TokenPaging. Empty means "first page".
	Cursor string
}

// OffsetState returns the initial state of an offset sequence.
func OffsetState(startAt, pageSize int) PageState {
	return PageState{Strategy: OffsetPaging, StartAt: startAt, PageSize: pageSize}
}

// TokenState returns the initial state of a token sequence.
func TokenState(cursor string) PageState {
	return PageState{Strategy: TokenPaging, Cursor: cursor}
}

// MoreOffset reports whether an offset sequence has items beyond the page.
func MoreOffset(start, returned, total int) bool {
	return start+returned < total
}

// MoreToken reports whether a token sequence has another page.
func MoreToken(next string, isLast bool) bool {
	return next != "" && !isLast
}

// More reports whether another page follows the given one.
func (s PageState) More(page PageInfo) bool {
	if s.Strategy == TokenPaging {
		return MoreToken(page.NextPageToken, page.IsLast)
	}
	return MoreOffset(page.StartAt, page.Returned, page.Total)
}

// Advance returns the state for the page after the given one.
func (s PageState) Advance(page PageInfo) PageState {
	next := s
	if s.Strategy == TokenPaging {
		next.Cursor = page.NextPageToken
		// Offset is bookkeeping only for tokens.
		next.StartAt = s.StartAt + page.Returned
		return next
	}
	next.StartAt = page.StartAt + page.Returned
	return next
}

// advancesFrom reports whether s is strictly ahead of prev. An offset that
// does not grow or a cursor that repeats would refetch the same page forever.
func (s PageState) advancesFrom(prev PageState) bool {
	if s.Strategy == TokenPaging {
		return s.Cursor != "" && s.Cursor != prev.Cursor
	}
	return s.StartAt > prev.StartAt
}

// Page is one fetched page of items with its continuation signals.
type Page[T any] struct {
	Items []T
	Info  PageInfo
}

// PageFetcher fetches the page at the given position.
type PageFetcher[T any] func(ctx context.Context, state PageState) (*Page[T], error)

// PagerState is the lifecycle state of a paginated sequence.
type PagerState int

const (
	StateNotStarted PagerState = iota
	StateFetchingPage
	StateHasBufferedItems
	StateExhausted
	StateFailed
)

// String returns the state name.
func (s PagerState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateFetchingPage:
		return "fetching_page"
	case StateHasBufferedItems:
		return "has_buffered_items"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// pager is the state machine shared by PageIterator and Stream. The drivers
// differ only in how they obtain a page.
type pager[T any] struct {
	fetch    PageFetcher[T]
	initial  PageState
	position PageState
	state    PagerState
	buffer   []T
	more     bool
	err      error
	total    int
	fetched  int
	pages    int
}

func newPager[T any](fetch PageFetcher[T], initial PageState) pager[T] {
	return pager[T]{
		fetch:    fetch,
		initial:  initial,
		position: initial,
		total:    -1,
	}
}

// pull yields the next item, fetching a page through get when the buffer is
// drained and more pages exist. Failure is terminal and sticky.
func (p *pager[T]) pull(ctx context.Context, get PageFetcher[T]) (T, bool, error) {
	var zero T
	for {
		switch p.state {
		case StateFailed:
			return zero, false, p.err

		case StateExhausted:
			return zero, false, nil

		case StateNotStarted:
			p.state = StateFetchingPage

		case StateHasBufferedItems:
			if len(p.buffer) > 0 {
				item := p.buffer[0]
				p.buffer[0] = zero
				p.buffer = p.buffer[1:]
				p.fetched++
				return item, true, nil
			}
			if !p.more {
				p.state = StateExhausted
				continue
			}
			p.state = StateFetchingPage

		case StateFetchingPage:
			page, err := get(ctx, p.position)
			if err != nil {
				p.fail(err)
				return zero, false, err
			}
			p.accept(page)
		}
	}
}

func (p *pager[T]) accept(page *Page[T]) {
	p.pages++
	if page == nil {
		page = &Page[T]{}
	}
	if p.position.Strategy == OffsetPaging {
		p.total = page.Info.Total
	}
	next := p.position.Advance(page.Info)
	p.more = p.position.More(page.Info) && next.advancesFrom(p.position)
	p.position = next
	p.buffer = page.Items
	p.state = StateHasBufferedItems
}

func (p *pager[T]) fail(err error) {
	p.state = StateFailed
	p.err = err
	p.buffer = nil
}

// PageIterator is the blocking driver: every page is fetched on the calling
// goroutine when Next needs it.
type PageIterator[T any] struct {
	p pager[T]
}

// NewPageIterator creates an iterator starting at initial.
func NewPageIterator[T any](fetch PageFetcher[T], initial PageState) *PageIterator[T] {
	return &PageIterator[T]{p: newPager(fetch, initial)}
}

// Next returns the next item from the iterator.
// Returns the item, true if an item was returned, and any error.
// When iteration is complete, returns (zero, false, nil).
// After a failure every call returns the same error.
func (it *PageIterator[T]) Next(ctx context.Context) (T, bool, error) {
	return it.p.pull(ctx, it.p.fetch)
}

// All collects all remaining items into a slice.
func (it *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return all, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, item)
	}
}

// Err returns the error that ended iteration, if any.
func (it *PageIterator[T]) Err() error {
	return it.p.err
}

// State returns the current lifecycle state.
func (it *PageIterator[T]) State() PagerState {
	return it.p.state
}

// Total returns the server-reported total for offset sequences, -1 otherwise.
// It is an estimate and only set after the first page.
func (it *PageIterator[T]) Total() int {
	return it.p.total
}

// Fetched returns the number of items yielded so far.
func (it *PageIterator[T]) Fetched() int {
	return it.p.fetched
}

// Pages returns the number of pages fetched so far.
func (it *PageIterator[T]) Pages() int {
	return it.p.pages
}

// Reset rewinds the iterator to its initial position.
// Any buffered items are discarded.
func (it *PageIterator[T]) Reset() {
	it.p = newPager(it.p.fetch, it.p.initial)
}

// Take returns up to n items from the iterator.
func (it *PageIterator[T]) Take(ctx context.Context, n int) ([]T, error) {
	var items []T
	for len(items) < n {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return items, err
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// Skip advances the iterator by n items.
func (it *PageIterator[T]) Skip(ctx context.Context, n int) error {
	for range n {
		_, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

// ForEach calls fn for each item in the iterator.
// If fn returns an error, iteration stops and that error is returned.
func (it *PageIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}

// Stream is the suspending driver: each page fetch runs as a Task that the
// consumer awaits, so a range loop over All parks only at page boundaries.
// Buffered items are yielded without any wait.
type Stream[T any] struct {
	p pager[T]
}

// NewStream creates a stream starting at initial.
func NewStream[T any](fetch PageFetcher[T], initial PageState) *Stream[T] {
	return &Stream[T]{p: newPager(fetch, initial)}
}

// All returns a single-use sequence over the remaining items. A failure is
// yielded once as (zero, err) and ends the sequence. Breaking out of the
// loop stops further fetching; no page is requested ahead of demand.
func (s *Stream[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, ok, err := s.p.pull(ctx, s.awaitPage)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (s *Stream[T]) awaitPage(ctx context.Context, state PageState) (*Page[T], error) {
	task := Go(ctx, func(ctx context.Context) (*Page[T], error) {
		return s.p.fetch(ctx, state)
	})
	return task.Await(ctx)
}

// Err returns the error that ended the stream, if any.
func (s *Stream[T]) Err() error {
	return s.p.err
}

// State returns the current lifecycle state.
func (s *Stream[T]) State() PagerState {
	return s.p.state
}

// Fetched returns the number of items yielded so far.
func (s *Stream[T]) Fetched() int {
	return s.p.fetched
}

// Pages returns the number of pages fetched so far.
func (s *Stream[T]) Pages() int {
	return s.p.pages
}
