package http

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestMoreOffset(t *testing.T) {
	tests := []struct {
		start, returned, total int
		want                   bool
	}{
		{0, 50, 120, true},
		{50, 50, 120, true},
		{100, 20, 120, false},
		{0, 0, 0, false},
		{0, 10, 10, false},
		{10, 0, 5, false},
	}

	for _, tt := range tests {
		if got := MoreOffset(tt.start, tt.returned, tt.total); got != tt.want {
			t.Errorf("MoreOffset(%d, %d, %d) = %v, want %v",
				tt.start, tt.returned, tt.total, got, tt.want)
		}
	}
}

func TestMoreToken(t *testing.T) {
	tests := []struct {
		name   string
		next   string
		isLast bool
		want   bool
	}{
		{"cursor present", "abc", false, true},
		{"cursor absent", "", false, false},
		{"last page with cursor", "abc", true, false},
		{"last page without cursor", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoreToken(tt.next, tt.isLast); got != tt.want {
				t.Errorf("MoreToken(%q, %v) = %v, want %v", tt.next, tt.isLast, got, tt.want)
			}
		})
	}
}

func TestPageStateIgnoresOtherSignal(t *testing.T) {
	// Offset sequence: a stray cursor must not keep it going.
	offset := OffsetState(0, 10)
	if offset.More(PageInfo{StartAt: 0, Returned: 10, Total: 10, NextPageToken: "abc"}) {
		t.Error("offset More() consulted the token signal")
	}

	// Token sequence: a total larger than what was seen must not keep it going.
	token := TokenState("")
	if token.More(PageInfo{Returned: 10, Total: 1000, IsLast: true}) {
		t.Error("token More() consulted the offset signal")
	}
}

func TestPageStateAdvance(t *testing.T) {
	s := OffsetState(0, 50).Advance(PageInfo{StartAt: 0, Returned: 50, Total: 120})
	if s.StartAt != 50 || s.PageSize != 50 {
		t.Errorf("offset Advance() = %+v, want StartAt 50 PageSize 50", s)
	}

	// Short page: advance by what was returned, not by page size.
	s = OffsetState(50, 50).Advance(PageInfo{StartAt: 50, Returned: 30, Total: 200})
	if s.StartAt != 80 {
		t.Errorf("offset Advance() StartAt = %d, want 80", s.StartAt)
	}

	tok := TokenState("").Advance(PageInfo{NextPageToken: "c2"})
	if tok.Cursor != "c2" {
		t.Errorf("token Advance() Cursor = %q, want c2", tok.Cursor)
	}
}

// offsetSource serves items [0, total) in pages of size, recording requested offsets.
type offsetSource struct {
	total    int
	size     int
	failAt   int // request index that fails, -1 for never
	requests []int
}

func (s *offsetSource) fetch(_ context.Context, state PageState) (*Page[int], error) {
	idx := len(s.requests)
	s.requests = append(s.requests, state.StartAt)
	if idx == s.failAt {
		return nil, errors.New("boom")
	}
	var items []int
	for i := state.StartAt; i < state.StartAt+s.size && i < s.total; i++ {
		items = append(items, i)
	}
	return &Page[int]{
		Items: items,
		Info:  PageInfo{StartAt: state.StartAt, Returned: len(items), Total: s.total},
	}, nil
}

// tokenSource serves pages keyed by cursor.
type tokenSource struct {
	pages    map[string][]string
	next     map[string]string
	failAt   int
	requests []string
}

func (s *tokenSource) fetch(_ context.Context, state PageState) (*Page[string], error) {
	idx := len(s.requests)
	s.requests = append(s.requests, state.Cursor)
	if idx == s.failAt {
		return nil, errors.New("boom")
	}
	next := s.next[state.Cursor]
	return &Page[string]{
		Items: s.pages[state.Cursor],
		Info:  PageInfo{Returned: len(s.pages[state.Cursor]), NextPageToken: next, IsLast: next == ""},
	}, nil
}

func threeTokenPages(failAt int) *tokenSource {
	return &tokenSource{
		pages: map[string][]string{
			"":   {"a", "b"},
			"c2": {"c", "d"},
			"c3": {"e"},
		},
		next:   map[string]string{"": "c2", "c2": "c3"},
		failAt: failAt,
	}
}

func TestPageIterator(t *testing.T) {
	t.Run("offset iterates through pages", func(t *testing.T) {
		src := &offsetSource{total: 7, size: 3, failAt: -1}

		it := NewPageIterator(src.fetch, OffsetState(0, 3))
		got, err := it.All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}

		want := []int{0, 1, 2, 3, 4, 5, 6}
		if len(got) != len(want) {
			t.Fatalf("got %d items, want %d", len(got), len(want))
		}
		for i, v := range got {
			if v != want[i] {
				t.Errorf("item %d = %d, want %d", i, v, want[i])
			}
		}
		if len(src.requests) != 3 {
			t.Errorf("requests = %v, want 3 requests", src.requests)
		}
		if it.Total() != 7 {
			t.Errorf("Total() = %d, want 7", it.Total())
		}
		if it.State() != StateExhausted {
			t.Errorf("State() = %v, want exhausted", it.State())
		}
	})

	t.Run("token iterates through pages", func(t *testing.T) {
		src := threeTokenPages(-1)

		it := NewPageIterator(src.fetch, TokenState(""))
		got, err := it.All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 5 {
			t.Errorf("got %v, want 5 items", got)
		}
		wantReq := []string{"", "c2", "c3"}
		for i, c := range wantReq {
			if src.requests[i] != c {
				t.Errorf("request %d cursor = %q, want %q", i, src.requests[i], c)
			}
		}
		if it.Pages() != 3 {
			t.Errorf("Pages() = %d, want 3", it.Pages())
		}
	})

	t.Run("empty result", func(t *testing.T) {
		src := &offsetSource{total: 0, size: 10, failAt: -1}

		it := NewPageIterator(src.fetch, OffsetState(0, 10))
		got, err := it.All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d items, want 0", len(got))
		}
		if len(src.requests) != 1 {
			t.Errorf("requests = %d, want 1", len(src.requests))
		}
	})

	t.Run("failure mid-sequence is terminal and sticky", func(t *testing.T) {
		src := threeTokenPages(1)
		ctx := context.Background()

		it := NewPageIterator(src.fetch, TokenState(""))
		var items []string
		var errs int
		for range 10 {
			item, ok, err := it.Next(ctx)
			if err != nil {
				errs++
				continue
			}
			if !ok {
				break
			}
			items = append(items, item)
		}

		if len(items) != 2 {
			t.Errorf("items = %v, want page one only", items)
		}
		if len(src.requests) != 2 {
			t.Errorf("requests = %d, want 2 (no third fetch)", len(src.requests))
		}
		if errs == 0 || it.Err() == nil {
			t.Error("expected the failure to be reported")
		}
		if it.State() != StateFailed {
			t.Errorf("State() = %v, want failed", it.State())
		}
	})

	t.Run("non-advancing offset terminates", func(t *testing.T) {
		calls := 0
		fetch := func(_ context.Context, state PageState) (*Page[int], error) {
			calls++
			// Claims more items exist but returns none.
			return &Page[int]{Info: PageInfo{StartAt: state.StartAt, Total: 100}}, nil
		}

		it := NewPageIterator(fetch, OffsetState(0, 10))
		got, err := it.All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 0 || calls != 1 {
			t.Errorf("got %d items after %d calls, want 0 after 1", len(got), calls)
		}
	})

	t.Run("repeated cursor terminates", func(t *testing.T) {
		calls := 0
		fetch := func(_ context.Context, _ PageState) (*Page[int], error) {
			calls++
			return &Page[int]{
				Items: []int{calls},
				Info:  PageInfo{Returned: 1, NextPageToken: "same"},
			}, nil
		}

		it := NewPageIterator(fetch, TokenState(""))
		got, err := it.All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 2 || calls != 2 {
			t.Errorf("got %v after %d calls, want 2 items after 2 calls", got, calls)
		}
	})

	t.Run("Take limits results and fetches lazily", func(t *testing.T) {
		src := &offsetSource{total: 100, size: 5, failAt: -1}

		it := NewPageIterator(src.fetch, OffsetState(0, 5))
		got, err := it.Take(context.Background(), 3)
		if err != nil {
			t.Fatalf("Take() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d items, want 3", len(got))
		}
		if len(src.requests) != 1 {
			t.Errorf("requests = %d, want 1", len(src.requests))
		}
	})

	t.Run("Skip then Reset", func(t *testing.T) {
		src := &offsetSource{total: 4, size: 2, failAt: -1}
		ctx := context.Background()

		it := NewPageIterator(src.fetch, OffsetState(0, 2))
		if err := it.Skip(ctx, 3); err != nil {
			t.Fatalf("Skip() error = %v", err)
		}
		item, ok, _ := it.Next(ctx)
		if !ok || item != 3 {
			t.Errorf("Next() = %d, %v, want 3, true", item, ok)
		}

		it.Reset()
		item, ok, _ = it.Next(ctx)
		if !ok || item != 0 {
			t.Errorf("after Reset Next() = %d, %v, want 0, true", item, ok)
		}
	})

	t.Run("ForEach processes all items", func(t *testing.T) {
		src := &offsetSource{total: 4, size: 10, failAt: -1}

		it := NewPageIterator(src.fetch, OffsetState(0, 10))
		var sum int
		err := it.ForEach(context.Background(), func(i int) error {
			sum += i
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error = %v", err)
		}
		if sum != 6 {
			t.Errorf("sum = %d, want 6", sum)
		}
	})
}

func TestStream(t *testing.T) {
	t.Run("matches blocking driver", func(t *testing.T) {
		src := threeTokenPages(-1)
		blocking, err := NewPageIterator(src.fetch, TokenState("")).All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}

		src = threeTokenPages(-1)
		var streamed []string
		for item, err := range NewStream(src.fetch, TokenState("")).All(context.Background()) {
			if err != nil {
				t.Fatalf("stream error = %v", err)
			}
			streamed = append(streamed, item)
		}

		if len(streamed) != len(blocking) {
			t.Fatalf("stream yielded %v, blocking yielded %v", streamed, blocking)
		}
		for i := range blocking {
			if streamed[i] != blocking[i] {
				t.Errorf("item %d = %q, want %q", i, streamed[i], blocking[i])
			}
		}
	})

	t.Run("failure yields one error then ends", func(t *testing.T) {
		src := threeTokenPages(1)

		s := NewStream(src.fetch, TokenState(""))
		var items []string
		var errs []error
		for item, err := range s.All(context.Background()) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			items = append(items, item)
		}

		if len(items) != 2 {
			t.Errorf("items = %v, want page one", items)
		}
		if len(errs) != 1 {
			t.Errorf("errors = %v, want exactly one", errs)
		}
		if len(src.requests) != 2 {
			t.Errorf("requests = %d, want 2", len(src.requests))
		}
		if s.State() != StateFailed {
			t.Errorf("State() = %v, want failed", s.State())
		}
	})

	t.Run("breaking stops fetching", func(t *testing.T) {
		src := &offsetSource{total: 1000, size: 10, failAt: -1}

		s := NewStream(src.fetch, OffsetState(0, 10))
		n := 0
		for _, err := range s.All(context.Background()) {
			if err != nil {
				t.Fatalf("stream error = %v", err)
			}
			n++
			if n == 15 {
				break
			}
		}
		if len(src.requests) != 2 {
			t.Errorf("requests = %d, want 2", len(src.requests))
		}
	})

	t.Run("cancellation while awaiting a page", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		fetch := func(ctx context.Context, _ PageState) (*Page[int], error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return &Page[int]{}, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		var gotErr error
		for _, err := range NewStream(fetch, OffsetState(0, 10)).All(ctx) {
			gotErr = err
		}
		if !errors.Is(gotErr, context.DeadlineExceeded) {
			t.Errorf("error = %v, want deadline exceeded", gotErr)
		}
	})
}

func TestTask(t *testing.T) {
	t.Run("await result", func(t *testing.T) {
		task := Go(context.Background(), func(context.Context) (string, error) {
			return strconv.Itoa(42), nil
		})
		got, err := task.Await(context.Background())
		if err != nil || got != "42" {
			t.Errorf("Await() = %q, %v, want 42, nil", got, err)
		}
		<-task.Done()
	})

	t.Run("await error", func(t *testing.T) {
		wantErr := errors.New("failed")
		task := Go(context.Background(), func(context.Context) (int, error) {
			return 0, wantErr
		})
		if _, err := task.Await(context.Background()); !errors.Is(err, wantErr) {
			t.Errorf("Await() error = %v, want %v", err, wantErr)
		}
	})

	t.Run("await honours context", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		task := Go(context.Background(), func(context.Context) (int, error) {
			<-block
			return 1, nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := task.Await(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Await() error = %v, want context.Canceled", err)
		}
	})

	t.Run("completed", func(t *testing.T) {
		got, err := Completed(7, nil).Await(context.Background())
		if got != 7 || err != nil {
			t.Errorf("Await() = %d, %v, want 7, nil", got, err)
		}
	})
}
