// bind.go: Typed value binding from parsed configuration documents
//
// The binder bridges file-backed documents and options structs: configure
// functions pull typed values out of a FileSource snapshot with explicit
// defaults, using dot notation for nested keys. Errors accumulate across
// bindings and surface together from Apply.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

// Binder applies typed bindings from a generic document map to caller
// variables. Missing keys bind the provided default; present keys with an
// incompatible type record an error.
type Binder struct {
	document map[string]interface{}
	errs     []string
}

// BindFrom starts a binding chain over the given document.
func BindFrom(document map[string]interface{}) *Binder {
	return &Binder{document: document}
}

// BindString binds the value at key into target, or defaultValue if absent.
func (b *Binder) BindString(target *string, key, defaultValue string) *Binder {
	value, ok := b.lookup(key)
	if !ok {
		*target = defaultValue
		return b
	}
	if s, ok := value.(string); ok {
		*target = s
	} else {
		b.fail(key, "string", value)
	}
	return b
}

// BindInt binds an integer value at key into target, or defaultValue if
// absent. JSON numbers arrive as float64 and are accepted when integral.
func (b *Binder) BindInt(target *int, key string, defaultValue int) *Binder {
	value, ok := b.lookup(key)
	if !ok {
		*target = defaultValue
		return b
	}
	switch v := value.(type) {
	case int:
		*target = v
	case int64:
		*target = int(v)
	case float64:
		if v == float64(int(v)) {
			*target = int(v)
		} else {
			b.fail(key, "int", value)
		}
	default:
		b.fail(key, "int", value)
	}
	return b
}

// BindBool binds a boolean value at key into target, or defaultValue if absent.
func (b *Binder) BindBool(target *bool, key string, defaultValue bool) *Binder {
	value, ok := b.lookup(key)
	if !ok {
		*target = defaultValue
		return b
	}
	if v, ok := value.(bool); ok {
		*target = v
	} else {
		b.fail(key, "bool", value)
	}
	return b
}

// BindFloat64 binds a float value at key into target, or defaultValue if absent.
func (b *Binder) BindFloat64(target *float64, key string, defaultValue float64) *Binder {
	value, ok := b.lookup(key)
	if !ok {
		*target = defaultValue
		return b
	}
	switch v := value.(type) {
	case float64:
		*target = v
	case int:
		*target = float64(v)
	default:
		b.fail(key, "float64", value)
	}
	return b
}

// BindDuration binds a duration at key into target, or defaultValue if
// absent. Accepts duration strings ("5s", "100ms") and integer nanoseconds.
func (b *Binder) BindDuration(target *time.Duration, key string, defaultValue time.Duration) *Binder {
	value, ok := b.lookup(key)
	if !ok {
		*target = defaultValue
		return b
	}
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			b.fail(key, "duration", value)
			return b
		}
		*target = d
	case int:
		*target = time.Duration(v)
	case int64:
		*target = time.Duration(v)
	case float64:
		*target = time.Duration(int64(v))
	default:
		b.fail(key, "duration", value)
	}
	return b
}

// Apply finishes the chain, returning one coded error aggregating every
// binding failure, or nil when all bindings succeeded.
func (b *Binder) Apply() error {
	if len(b.errs) == 0 {
		return nil
	}
	return errors.New(ErrCodeBindError,
		"configuration binding failed: "+strings.Join(b.errs, "; "))
}

// lookup resolves key in the document, descending nested maps on dots.
func (b *Binder) lookup(key string) (interface{}, bool) {
	if b.document == nil {
		return nil, false
	}

	current := b.document
	parts := strings.Split(key, ".")
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return value, true
		}
		switch nested := value.(type) {
		case map[string]interface{}:
			current = nested
		case map[interface{}]interface{}:
			// YAML decodes nested maps with interface{} keys.
			converted := make(map[string]interface{}, len(nested))
			for k, v := range nested {
				converted[fmt.Sprintf("%v", k)] = v
			}
			current = converted
		default:
			return nil, false
		}
	}
	return nil, false
}

func (b *Binder) fail(key, wantType string, got interface{}) {
	b.errs = append(b.errs,
		fmt.Sprintf("key %q: expected %s, got %T (%v)", key, wantType, got, got))
}

// ParseScalar converts a raw string into bool, int, float, or string, in
// that order of preference. Used by flag and CLI layers that receive
// untyped text values.
func ParseScalar(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if intVal, err := strconv.Atoi(value); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		return floatVal
	}
	return value
}
