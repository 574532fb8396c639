package http

import (
	"context"
	"sync"
)

// Task is a unit of work running on its own goroutine whose result is
// obtained by awaiting it.
type Task[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Go starts fn and returns a Task that completes when fn returns.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		val, err := fn(ctx)
		t.complete(val, err)
	}()
	return t
}

// Completed returns a Task that has already finished with the given result.
func Completed[T any](val T, err error) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	t.complete(val, err)
	return t
}

func (t *Task[T]) complete(val T, err error) {
	t.once.Do(func() {
		t.val = val
		t.err = err
		close(t.done)
	})
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the task finishes or ctx is done.
// When ctx ends first, ctx.Err() is returned and the task's result is dropped.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
