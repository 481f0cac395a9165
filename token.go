// token.go: Single-use change tokens for Proteus
//
// A ChangeToken is a one-shot change signal: it transitions from unfired to
// fired at most once and never resets. A new change requires a new token.
// Producers that need to signal repeatedly rotate tokens, installing a fresh
// generation before firing the previous one (see ChangeNotifier).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import "sync"

// ChangeToken represents "has the underlying source changed since this token
// was issued". Once HasChanged reports true it stays true for the lifetime of
// the token instance.
type ChangeToken interface {
	// HasChanged reports whether the token has fired. No side effects.
	HasChanged() bool

	// Register appends a callback to run when the token fires. If the token
	// has already fired, the callback is scheduled asynchronously and still
	// runs exactly once. The returned registration removes the callback on
	// Dispose (best-effort: a callback may still run once if firing is
	// concurrently in flight).
	Register(callback func()) Registration
}

// Registration is a disposable subscription handle. Dispose is idempotent.
type Registration interface {
	Dispose()
}

// noopRegistration is returned where there is nothing to release.
type noopRegistration struct{}

func (noopRegistration) Dispose() {}

// tokenCallback is a pending callback entry. The removed flag lets Dispose
// splice the entry out without invalidating indices held by other handles.
type tokenCallback struct {
	fn      func()
	removed bool
}

// ManualChangeToken is a fire-able ChangeToken. The owner calls Notify to
// fire it; a second Notify is a silent no-op.
type ManualChangeToken struct {
	mu        sync.Mutex
	fired     bool
	callbacks []*tokenCallback
}

// NewManualChangeToken creates an unfired token.
func NewManualChangeToken() *ManualChangeToken {
	return &ManualChangeToken{}
}

// HasChanged reports whether Notify has been called.
func (t *ManualChangeToken) HasChanged() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Register implements ChangeToken. Callbacks registered before the fire run
// synchronously inside Notify, in registration order. Callbacks registered
// after the fire are scheduled on a new goroutine, so callers cannot rely on
// synchronous-vs-deferred timing; the only contract is at-least-once,
// eventually, never twice.
func (t *ManualChangeToken) Register(callback func()) Registration {
	t.mu.Lock()
	if t.fired {
		t.mu.Unlock()
		go callback()
		return noopRegistration{}
	}

	entry := &tokenCallback{fn: callback}
	t.callbacks = append(t.callbacks, entry)
	t.mu.Unlock()

	return &tokenRegistration{token: t, entry: entry}
}

// Notify fires the token. The first call flips the fired state, snapshots and
// clears the pending callback list, then invokes each callback once in
// registration order. Subsequent calls are no-ops. The removed flag is only
// read while holding the mutex; a Dispose racing with the fire either wins
// the lock and is excluded from the snapshot, or loses and runs once.
func (t *ManualChangeToken) Notify() {
	t.mu.Lock()
	if t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true

	pending := make([]func(), 0, len(t.callbacks))
	for _, entry := range t.callbacks {
		if !entry.removed {
			pending = append(pending, entry.fn)
		}
	}
	t.callbacks = nil
	t.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// tokenRegistration removes a pending callback from its token on Dispose.
type tokenRegistration struct {
	token *ManualChangeToken
	entry *tokenCallback
}

func (r *tokenRegistration) Dispose() {
	r.token.mu.Lock()
	r.entry.removed = true
	for i, entry := range r.token.callbacks {
		if entry == r.entry {
			r.token.callbacks = append(r.token.callbacks[:i], r.token.callbacks[i+1:]...)
			break
		}
	}
	r.token.mu.Unlock()
}

// NeverChangeToken is the sentinel token for sources with no change
// capability. It never fires and never invokes registered callbacks.
type NeverChangeToken struct{}

// NewNeverChangeToken returns the sentinel "never fires" token.
func NewNeverChangeToken() *NeverChangeToken {
	return &NeverChangeToken{}
}

// HasChanged always reports false.
func (*NeverChangeToken) HasChanged() bool { return false }

// Register returns a no-op registration; the callback is never invoked.
func (*NeverChangeToken) Register(func()) Registration { return noopRegistration{} }

// OnChange subscribes fn to a producer of token generations. Tokens are
// single-use, so after each fire the subscription obtains the next token from
// produce and re-attaches, keeping fn armed indefinitely until the returned
// registration is disposed.
func OnChange(produce func() ChangeToken, fn func()) Registration {
	sub := &changeSubscription{produce: produce, fn: fn}
	sub.arm()
	return sub
}

type changeSubscription struct {
	mu       sync.Mutex
	produce  func() ChangeToken
	fn       func()
	current  Registration
	disposed bool
}

func (s *changeSubscription) arm() {
	token := s.produce()

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.current = token.Register(s.onFire)
	s.mu.Unlock()
}

func (s *changeSubscription) onFire() {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return
	}

	s.fn()
	s.arm()
}

func (s *changeSubscription) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}
