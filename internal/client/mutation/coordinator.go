// Package mutation implements optimistic updates: local state is changed
// immediately, the remote call runs, and the local change is undone if the
// call fails.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/study-upc/studyclient/internal/client/notify"
)

// DefaultErrorMessage is shown when a mutation fails and Options.ErrorMessage
// is empty.
const DefaultErrorMessage = "Operation failed, changes were rolled back"

var ErrMissingCall = errors.New("mutation: Call is required")

// ErrPanic wraps a panic raised inside Call.
var ErrPanic = errors.New("mutation: call panicked")

// Options describes one kind of optimistic mutation.
//
// V is the input, T the remote result and S the snapshot token that Apply
// hands to Rollback. Apply and Rollback run synchronously and must only touch
// already-loaded local state. Rollback(v, Apply(v)) has to leave every field
// Apply touched exactly as it was.
type Options[V, T, S any] struct {
	Apply    func(v V) S
	Rollback func(v V, snapshot S)
	Call     func(ctx context.Context, v V) (T, error)

	OnSuccess func(result T, v V)
	OnError   func(err error, v V)

	// SuccessMessage is published right after Apply, before the call settles.
	SuccessMessage string
	ErrorMessage   string

	HideSuccess bool
	HideError   bool
}

// Coordinator runs mutations described by Options and exposes busy/error
// flags. One coordinator may be shared by concurrent calls; the flags then
// reflect whichever call settled last.
type Coordinator[V, T, S any] struct {
	opts     Options[V, T, S]
	notifier notify.Notifier

	mu   sync.Mutex
	busy bool
	err  error
}

func New[V, T, S any](opts Options[V, T, S], notifier notify.Notifier) *Coordinator[V, T, S] {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Coordinator[V, T, S]{opts: opts, notifier: notifier}
}

// Mutate applies the local change, calls the backend and settles. On failure
// the local change is rolled back and the error returned by Call is returned
// unchanged. ctx is only passed on to Call; there is no other cancellation.
func (c *Coordinator[V, T, S]) Mutate(ctx context.Context, v V) (T, error) {
	var zero T
	if c.opts.Call == nil {
		return zero, ErrMissingCall
	}

	c.mu.Lock()
	c.busy = true
	c.err = nil
	c.mu.Unlock()

	var snapshot S
	if c.opts.Apply != nil {
		snapshot = c.opts.Apply(v)
	}

	if !c.opts.HideSuccess && c.opts.SuccessMessage != "" {
		c.notifier.Success(c.opts.SuccessMessage)
	}

	result, err := c.call(ctx, v)
	if err == nil {
		if c.opts.OnSuccess != nil {
			c.opts.OnSuccess(result, v)
		}
		c.settle(nil)
		return result, nil
	}

	if c.opts.Rollback != nil {
		c.opts.Rollback(v, snapshot)
	}

	c.mu.Lock()
	c.err = err
	c.mu.Unlock()

	if c.opts.OnError != nil {
		c.opts.OnError(err, v)
	}
	if !c.opts.HideError {
		msg := c.opts.ErrorMessage
		if msg == "" {
			msg = DefaultErrorMessage
		}
		c.notifier.Error(msg)
	}

	c.settle(err)
	return zero, err
}

func (c *Coordinator[V, T, S]) call(ctx context.Context, v V) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return c.opts.Call(ctx, v)
}

func (c *Coordinator[V, T, S]) settle(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.err = err
}

// Busy reports whether a mutation is in flight.
func (c *Coordinator[V, T, S]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Err returns the error of the last settled mutation, or nil.
func (c *Coordinator[V, T, S]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Mutate is a one-off helper for callers that do not need to observe flags.
func Mutate[V, T, S any](ctx context.Context, opts Options[V, T, S], notifier notify.Notifier, v V) (T, error) {
	return New(opts, notifier).Mutate(ctx, v)
}
