package executor

import (
	"context"
	"fmt"
	"runtime"
)

// Future is a deferred field value. Resolvers may return one instead of a
// plain value; the executor awaits it before completing the field, so the
// response is indistinguishable from returning the value directly.
type Future interface {
	Await(ctx context.Context) (any, error)
}

// FutureFunc adapts a function to the Future interface. It is called once
// per Await.
type FutureFunc func(ctx context.Context) (any, error)

func (f FutureFunc) Await(ctx context.Context) (any, error) { return f(ctx) }

type thunk struct {
	value any
	err   error
	done  chan struct{}
}

// Go runs fn on its own goroutine and returns a Future for its result. A
// panic in fn becomes the future's error.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) Future {
	t := &thunk{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.value, t.err = nil, panicError(r)
			}
		}()
		t.value, t.err = fn(ctx)
	}()
	return t
}

// Await blocks until the value is available or ctx is done.
func (t *thunk) Await(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type ready struct {
	value any
	err   error
}

func (r ready) Await(context.Context) (any, error) { return r.value, r.err }

// Ready returns an already resolved Future.
func Ready(v any) Future { return ready{value: v} }

// Failed returns a Future that fails with err.
func Failed(err error) Future { return ready{err: err} }

func await(ctx context.Context, value any) (any, error) {
	if f, ok := value.(Future); ok {
		return f.Await(ctx)
	}
	return value, nil
}

func panicError(r any) error {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return &PanicError{Value: r, Stack: string(buf)}
}

// PanicError is recorded when a resolver or future panics.
type PanicError struct {
	Value any
	Stack string
}

func (p *PanicError) Error() string { return fmt.Sprintf("graphql: panic: %v", p.Value) }
