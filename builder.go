// builder.go: Fluent registration builder for one named options instance
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

// Builder collects configure, post-configure, and validate registrations for
// a single instance name and forwards them to the pipeline. It is pure data
// plumbing: registration order on the builder is registration order on the
// pipeline.
type Builder[T any] struct {
	pipeline *Pipeline[T]
	name     string
}

// Options starts a builder for name on the given pipeline.
func Options[T any](pipeline *Pipeline[T], name string) *Builder[T] {
	return &Builder[T]{pipeline: pipeline, name: name}
}

// Configure registers a configure-phase mutation for the builder's name.
func (b *Builder[T]) Configure(fn ConfigureFunc[T]) *Builder[T] {
	b.pipeline.Configure(b.name, fn)
	return b
}

// PostConfigure registers a post-configure mutation for the builder's name.
func (b *Builder[T]) PostConfigure(fn ConfigureFunc[T]) *Builder[T] {
	b.pipeline.PostConfigure(b.name, fn)
	return b
}

// Validate registers a validator for the builder's name.
func (b *Builder[T]) Validate(fn ValidateFunc[T]) *Builder[T] {
	b.pipeline.Validate(b.name, fn)
	return b
}

// Name returns the instance name this builder targets.
func (b *Builder[T]) Name() string {
	return b.name
}
