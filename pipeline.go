// pipeline.go: Ordered configure/post-configure/validate pipeline
//
// The pipeline turns a freshly constructed instance into a finished, checked
// options object. Every Create call is independent: no internal state is
// mutated, so repeated calls with fixed registrations and a fixed name
// produce instances with identical content (never identical identity).
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

// ConfigureFunc mutates an options instance during the configure or
// post-configure phase.
type ConfigureFunc[T any] func(options *T)

// ValidateFunc checks a fully configured instance. It receives the instance
// name so cross-name validators can decide applicability themselves.
type ValidateFunc[T any] func(name string, options *T) ValidateResult

// configureEntry is one registered mutation, optionally scoped to a name.
// all==true means the entry applies to every name.
type configureEntry[T any] struct {
	name string
	all  bool
	fn   ConfigureFunc[T]
}

type validateEntry[T any] struct {
	name string
	all  bool
	fn   ValidateFunc[T]
}

// Pipeline builds named instances of T through the ordered
// configure -> post-configure -> validate sequence. Registration order is
// preserved within each phase; name matching is exact-string equality with
// an "applies to all names" sentinel for unscoped registrations.
type Pipeline[T any] struct {
	mu             sync.RWMutex
	construct      func() *T
	configures     []configureEntry[T]
	postConfigures []configureEntry[T]
	validators     []validateEntry[T]
}

// NewPipeline creates a pipeline around the given construction function.
// construct must return a fresh mutable instance on every call; nil selects
// the zero value of T.
func NewPipeline[T any](construct func() *T) *Pipeline[T] {
	if construct == nil {
		construct = func() *T { return new(T) }
	}
	return &Pipeline[T]{construct: construct}
}

// Configure registers a configure-phase mutation scoped to name.
func (p *Pipeline[T]) Configure(name string, fn ConfigureFunc[T]) *Pipeline[T] {
	p.mu.Lock()
	p.configures = append(p.configures, configureEntry[T]{name: name, fn: fn})
	p.mu.Unlock()
	return p
}

// ConfigureAll registers a configure-phase mutation applying to every name.
func (p *Pipeline[T]) ConfigureAll(fn ConfigureFunc[T]) *Pipeline[T] {
	p.mu.Lock()
	p.configures = append(p.configures, configureEntry[T]{all: true, fn: fn})
	p.mu.Unlock()
	return p
}

// PostConfigure registers a post-configure mutation scoped to name.
// Post-configure runs strictly after every configure registration and can
// override any configure-time value, including cross-cutting caps.
func (p *Pipeline[T]) PostConfigure(name string, fn ConfigureFunc[T]) *Pipeline[T] {
	p.mu.Lock()
	p.postConfigures = append(p.postConfigures, configureEntry[T]{name: name, fn: fn})
	p.mu.Unlock()
	return p
}

// PostConfigureAll registers a post-configure mutation for every name.
func (p *Pipeline[T]) PostConfigureAll(fn ConfigureFunc[T]) *Pipeline[T] {
	p.mu.Lock()
	p.postConfigures = append(p.postConfigures, configureEntry[T]{all: true, fn: fn})
	p.mu.Unlock()
	return p
}

// Validate registers a validator scoped to name.
func (p *Pipeline[T]) Validate(name string, fn ValidateFunc[T]) *Pipeline[T] {
	p.mu.Lock()
	p.validators = append(p.validators, validateEntry[T]{name: name, fn: fn})
	p.mu.Unlock()
	return p
}

// ValidateAll registers a validator applying to every name.
func (p *Pipeline[T]) ValidateAll(fn ValidateFunc[T]) *Pipeline[T] {
	p.mu.Lock()
	p.validators = append(p.validators, validateEntry[T]{all: true, fn: fn})
	p.mu.Unlock()
	return p
}

// Create builds the instance for name: construct, apply matching configure
// registrations in order, apply matching post-configure registrations in
// order, then run every matching validator. Validators do not short-circuit;
// all failure messages are collected and surfaced together.
func (p *Pipeline[T]) Create(name string) (*T, error) {
	p.mu.RLock()
	construct := p.construct
	configures := p.configures
	postConfigures := p.postConfigures
	validators := p.validators
	p.mu.RUnlock()

	options := construct()

	for _, entry := range configures {
		if entry.all || entry.name == name {
			entry.fn(options)
		}
	}
	for _, entry := range postConfigures {
		if entry.all || entry.name == name {
			entry.fn(options)
		}
	}

	var failures []string
	for _, entry := range validators {
		if !entry.all && entry.name != name {
			continue
		}
		result := entry.fn(name, options)
		if !result.Failed() {
			continue
		}
		if result.empty {
			return nil, errors.New(ErrCodeEmptyFailure,
				fmt.Sprintf("validator for %s (name %q) reported failure with zero messages", typeName[T](), name))
		}
		failures = append(failures, result.Messages()...)
	}

	if len(failures) > 0 {
		return nil, &ValidationError{
			TypeName: typeName[T](),
			Name:     name,
			Failures: failures,
		}
	}

	return options, nil
}

// typeName resolves the human-readable identity of T for error reporting.
func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
