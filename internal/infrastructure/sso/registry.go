package sso

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownState is returned for callbacks nobody is waiting for.
var ErrUnknownState = errors.New("sso: unknown or expired state")

// Callback is what the identity provider sent back to the redirect URL.
type Callback struct {
	State            string
	Code             string
	Error            string
	ErrorDescription string
}

// Cancelled reports whether the provider returned an error (user denied or closed the page).
func (c Callback) Cancelled() bool { return c.Error != "" || c.Code == "" }

// CallbackRegistry hands redirect callbacks to the flow waiting on their state.
type CallbackRegistry struct {
	mu      sync.Mutex
	waiting map[string]*waiter
}

type waiter struct {
	ch       chan Callback
	resolved bool
}

func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{waiting: map[string]*waiter{}}
}

// Register reserves state. It must be called before the browser is opened.
func (r *CallbackRegistry) Register(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waiting[state] = &waiter{ch: make(chan Callback, 1)}
}

// Await blocks until the callback for state arrives or ctx is done. The state is released either way.
func (r *CallbackRegistry) Await(ctx context.Context, state string) (Callback, error) {
	r.mu.Lock()
	w, ok := r.waiting[state]
	r.mu.Unlock()
	if !ok {
		return Callback{}, ErrUnknownState
	}
	defer r.forget(state)

	select {
	case cb := <-w.ch:
		return cb, nil
	case <-ctx.Done():
		return Callback{}, ctx.Err()
	}
}

// Resolve delivers cb to its waiter; it may run before Await. Unknown or already resolved
// states return ErrUnknownState.
func (r *CallbackRegistry) Resolve(cb Callback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.waiting[cb.State]
	if !ok || w.resolved {
		return ErrUnknownState
	}
	w.resolved = true
	w.ch <- cb
	return nil
}

// Pending returns the number of flows waiting for a callback.
func (r *CallbackRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiting)
}

func (r *CallbackRegistry) forget(state string) {
	r.mu.Lock()
	delete(r.waiting, state)
	r.mu.Unlock()
}
