// manager.go: Cached access patterns over the options pipeline
//
// Manager covers the two non-reloading access patterns: the permanently
// cached singleton (one Manager for the process lifetime) and the
// scope-stable snapshot (one Manager per scope via Scope). Values are built
// once per name and never invalidated; live reload belongs to Monitor.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

// Manager resolves named options instances, caching each one permanently
// after the first access.
type Manager[T any] struct {
	pipeline *Pipeline[T]
	cache    *Cache[T]
}

// NewManager creates a manager over the given pipeline with a fresh cache.
func NewManager[T any](pipeline *Pipeline[T]) *Manager[T] {
	return &Manager[T]{pipeline: pipeline, cache: NewCache[T]()}
}

// Get returns the options instance for name, building it through the
// pipeline on first access and caching the result for the manager lifetime.
func (m *Manager[T]) Get(name string) (*T, error) {
	return m.cache.GetOrAdd(name, m.pipeline.Create)
}

// Current returns the default (unnamed) options instance.
func (m *Manager[T]) Current() (*T, error) {
	return m.Get(DefaultName)
}

// Scope returns a new manager sharing the pipeline but owning a fresh cache.
// Within the returned scope every name resolves to one stable snapshot,
// independent of instances other scopes have built.
func (m *Manager[T]) Scope() *Manager[T] {
	return NewManager(m.pipeline)
}
