package async

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Result while the promise is not settled yet
var ErrPending = errors.New("promise is not settled")

// errNilRejection replaces a nil rejection reason so a rejected promise never reports success
var errNilRejection = errors.New("promise rejected without a reason")

// Promise is a single-shot result channel. It is settled at most once, either
// with a value or with an error; later settle attempts are ignored.
type Promise[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewPromise returns a pending promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise already settled with value.
func Resolved[T any](value T) *Promise[T] {
	p := NewPromise[T]()
	p.Resolve(value)
	return p
}

// Rejected returns a promise already settled with err.
func Rejected[T any](err error) *Promise[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p
}

// Resolve settles the promise with value. It reports whether this call settled it.
func (p *Promise[T]) Resolve(value T) bool {
	return p.settle(value, nil)
}

// Reject settles the promise with err. It reports whether this call settled it.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = errNilRejection
	}
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(value T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value = value
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// Done is closed once the promise is settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the promise has an outcome.
func (p *Promise[T]) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the promise settles or ctx is done, whichever happens first.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	default:
	}

	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking, or ErrPending.
func (p *Promise[T]) Result() (T, error) {
	if !p.Settled() {
		var zero T
		return zero, ErrPending
	}
	return p.value, p.err
}
