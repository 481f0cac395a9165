// monitor.go: Live-reloading options monitor
//
// Monitor is the top-level component: a per-name instance cache wired to
// change tokens. When a token for a name fires, the monitor evicts the
// cached instance, rebuilds it through the pipeline, dispatches the new
// instance to every registered listener, and re-attaches to the next token
// generation so subsequent changes are still observed.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"sync"

	"github.com/agilira/go-errors"
)

// Listener observes post-reload options instances. It receives the rebuilt
// instance and the name that reloaded.
type Listener[T any] func(value *T, name string)

// ErrorHandler is called when a reload fails or a listener panics.
// It receives the error and the instance name being reloaded.
type ErrorHandler func(err error, name string)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	// Notifier is the in-process change scope the monitor observes. The
	// monitor lazily subscribes to the notifier token for every name
	// requested through Get. Optional.
	Notifier *ChangeNotifier

	// Sources are external change-token sources (file watchers, remote
	// pollers). The monitor subscribes to each at construction and
	// re-attaches to a fresh token from the same source after every fire.
	Sources []TokenSource

	// ErrorHandler receives reload failures and listener panics.
	// If nil, failures are only recorded in the audit trail (if any).
	ErrorHandler ErrorHandler

	// Audit receives reload, validation-failure, and disposal events.
	// Optional; a nil logger records nothing.
	Audit *AuditLogger
}

// listenerEntry wraps a listener so removal is identity-based even when the
// same function value is registered twice.
type listenerEntry[T any] struct {
	fn Listener[T]
}

// Monitor caches one instance per name and rebuilds it whenever the change
// token for that name fires. Terminal state is disposed: all subscriptions
// released, cache cleared, further Get/OnChange calls rejected so
// use-after-dispose bugs surface immediately.
type Monitor[T any] struct {
	pipeline *Pipeline[T]
	cache    *Cache[T]
	notifier *ChangeNotifier
	onError  ErrorHandler
	audit    *AuditLogger

	mu         sync.Mutex
	disposed   bool
	listeners  []*listenerEntry[T]
	watches    map[string]Registration // per-name notifier subscription, continuously re-armed
	sourceRegs []Registration
}

// NewMonitor creates a monitor over the pipeline and subscribes to every
// configured token source.
func NewMonitor[T any](pipeline *Pipeline[T], config MonitorConfig) *Monitor[T] {
	m := &Monitor[T]{
		pipeline: pipeline,
		cache:    NewCache[T](),
		notifier: config.Notifier,
		onError:  config.ErrorHandler,
		audit:    config.Audit,
		watches:  make(map[string]Registration),
	}

	for _, source := range config.Sources {
		name := source.Name()
		reg := OnChange(source.Token, func() { m.reload(name) })
		m.sourceRegs = append(m.sourceRegs, reg)
		m.audit.LogWatch("watch_start", name)
	}

	return m
}

// Get returns the options instance for name, building and caching it on
// first access. It also ensures a live token subscription exists for name,
// so every name ever requested stays observed until disposal.
func (m *Monitor[T]) Get(name string) (*T, error) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return nil, errors.New(ErrCodeMonitorDisposed, "monitor has been disposed")
	}
	if m.notifier != nil {
		if _, ok := m.watches[name]; !ok {
			m.watches[name] = OnChange(
				func() ChangeToken { return m.notifier.GetToken(name) },
				func() { m.reload(name) },
			)
			m.audit.LogWatch("watch_start", name)
		}
	}
	m.mu.Unlock()

	return m.cache.GetOrAdd(name, m.pipeline.Create)
}

// Current returns the default (unnamed) options instance.
func (m *Monitor[T]) Current() (*T, error) {
	return m.Get(DefaultName)
}

// OnChange registers a listener for post-reload instances. Disposal of the
// returned registration removes exactly that listener. Listeners registered
// during a dispatch round are not invoked in that round.
func (m *Monitor[T]) OnChange(listener Listener[T]) (Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return nil, errors.New(ErrCodeMonitorDisposed, "monitor has been disposed")
	}

	entry := &listenerEntry[T]{fn: listener}
	m.listeners = append(m.listeners, entry)
	return &listenerRegistration[T]{monitor: m, entry: entry}, nil
}

// reload handles a token fire for name: evict, rebuild, dispatch, with the
// re-arm performed by the OnChange subscription that invoked us.
//
// A failed rebuild leaves the cache empty for name: the stale instance is
// already evicted and no fallback is re-inserted, so the next Get attempts
// a fresh build. This is deliberate fail-loud behavior; serving a
// last-known-good instance would mask persistent validation failures.
func (m *Monitor[T]) reload(name string) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.cache.TryRemove(name)

	value, err := m.pipeline.Create(name)
	if err != nil {
		if verr, ok := err.(*ValidationError); ok {
			m.audit.LogValidationFailure(name, verr.Failures)
		}
		if m.onError != nil {
			m.onError(err, name)
		}
		return
	}
	// Re-check disposal before the insert: a Dispose that won the race has
	// already cleared the cache, and inserting now would leave a stray value
	// behind it. Snapshot-then-iterate under the same lock: listeners added
	// or removed during this round do not affect the round.
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.cache.TryAdd(name, value)
	snapshot := make([]*listenerEntry[T], len(m.listeners))
	copy(snapshot, m.listeners)
	m.mu.Unlock()

	m.audit.LogReload(name)

	for _, entry := range snapshot {
		m.dispatch(entry, value, name)
	}
}

// dispatch invokes one listener with panic isolation, so one failing
// listener cannot prevent the rest of the snapshot from running.
func (m *Monitor[T]) dispatch(entry *listenerEntry[T], value *T, name string) {
	defer func() {
		if r := recover(); r != nil {
			m.audit.LogWatch("listener_panic", name)
			if m.onError != nil {
				m.onError(errors.New(ErrCodeInvalidConfig,
					fmt.Sprintf("listener panic during reload dispatch: %v", r)), name)
			}
		}
	}()
	entry.fn(value, name)
}

// Dispose releases every token subscription, clears the listener list and
// the cache, and transitions the monitor to its terminal state. Idempotent.
// Subsequent Get and OnChange calls fail with ErrCodeMonitorDisposed.
func (m *Monitor[T]) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true

	regs := make([]Registration, 0, len(m.watches)+len(m.sourceRegs))
	for _, reg := range m.watches {
		regs = append(regs, reg)
	}
	regs = append(regs, m.sourceRegs...)
	m.watches = nil
	m.sourceRegs = nil
	m.listeners = nil
	m.mu.Unlock()

	for _, reg := range regs {
		reg.Dispose()
	}
	m.cache.Clear()
	m.audit.LogWatch("monitor_disposed", "")
}

type listenerRegistration[T any] struct {
	monitor *Monitor[T]
	entry   *listenerEntry[T]
}

func (r *listenerRegistration[T]) Dispose() {
	m := r.monitor
	m.mu.Lock()
	for i, entry := range m.listeners {
		if entry == r.entry {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
}
