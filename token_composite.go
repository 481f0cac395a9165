// token_composite.go: Fan-in aggregation of change tokens
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"sync"

	"github.com/agilira/go-errors"
)

// CompositeChangeToken exposes the logical OR of a fixed, non-empty set of
// child tokens. Once any child fires, the composite fires exactly once,
// detaches from all children, and never re-attaches.
//
// Child registrations are attached lazily on the first Register call, so
// composites nobody observes carry no wiring cost. HasChanged queries the
// children directly, so the observable fired-state is correct regardless of
// subscription status.
type CompositeChangeToken struct {
	mu        sync.Mutex
	children  []ChangeToken
	attached  bool
	fired     bool
	childRegs []Registration
	callbacks []*tokenCallback
}

// NewCompositeChangeToken aggregates the given tokens. Zero tokens is a
// programming error and is rejected immediately.
func NewCompositeChangeToken(tokens ...ChangeToken) (*CompositeChangeToken, error) {
	if len(tokens) == 0 {
		return nil, errors.New(ErrCodeEmptyComposite, "composite change token requires at least one child token")
	}

	children := make([]ChangeToken, len(tokens))
	copy(children, tokens)
	return &CompositeChangeToken{children: children}, nil
}

// HasChanged reports true once the composite has fired, or eagerly when any
// child reports fired even before the composite attaches to it.
func (c *CompositeChangeToken) HasChanged() bool {
	c.mu.Lock()
	fired := c.fired
	children := c.children
	c.mu.Unlock()

	if fired {
		return true
	}
	for _, child := range children {
		if child.HasChanged() {
			return true
		}
	}
	return false
}

// Register implements ChangeToken. The first registration attaches one
// subscription per child; a child that has already fired delivers its
// callback asynchronously, which fires the composite.
func (c *CompositeChangeToken) Register(callback func()) Registration {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		go callback()
		return noopRegistration{}
	}

	if !c.attached {
		c.attached = true
		children := c.children
		c.mu.Unlock()

		// Attach outside the lock: a fired child invokes onChildFire from
		// inside Register, which needs the lock.
		regs := make([]Registration, 0, len(children))
		for _, child := range children {
			regs = append(regs, child.Register(c.onChildFire))
		}

		c.mu.Lock()
		if c.fired {
			// A child fired while attaching; the registrations were already
			// released by onChildFire or are moot now.
			c.mu.Unlock()
			for _, reg := range regs {
				reg.Dispose()
			}
			go callback()
			return noopRegistration{}
		}
		c.childRegs = regs
	}

	entry := &tokenCallback{fn: callback}
	c.callbacks = append(c.callbacks, entry)
	c.mu.Unlock()

	return &compositeRegistration{composite: c, entry: entry}
}

// onChildFire handles the first child fire: detach everything, mark fired,
// flush composite callbacks exactly once.
func (c *CompositeChangeToken) onChildFire() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true

	regs := c.childRegs
	c.childRegs = nil
	// Filter under the lock; removed is never read outside it.
	pending := make([]func(), 0, len(c.callbacks))
	for _, entry := range c.callbacks {
		if !entry.removed {
			pending = append(pending, entry.fn)
		}
	}
	c.callbacks = nil
	c.mu.Unlock()

	for _, reg := range regs {
		reg.Dispose()
	}
	for _, fn := range pending {
		fn()
	}
}

type compositeRegistration struct {
	composite *CompositeChangeToken
	entry     *tokenCallback
}

func (r *compositeRegistration) Dispose() {
	c := r.composite
	c.mu.Lock()
	r.entry.removed = true
	for i, entry := range c.callbacks {
		if entry == r.entry {
			c.callbacks = append(c.callbacks[:i], c.callbacks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}
