// errors.go: Error taxonomy for Proteus typed options
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"strings"
)

// Error codes for Proteus operations
const (
	ErrCodeInvalidConfig    = "PROTEUS_INVALID_CONFIG"
	ErrCodeValidationFailed = "PROTEUS_VALIDATION_FAILED"
	ErrCodeMonitorDisposed  = "PROTEUS_MONITOR_DISPOSED"
	ErrCodeEmptyComposite   = "PROTEUS_EMPTY_COMPOSITE"
	ErrCodeEmptyFailure     = "PROTEUS_EMPTY_FAILURE"
	ErrCodeSourceStopped    = "PROTEUS_SOURCE_STOPPED"
	ErrCodeSourceBusy       = "PROTEUS_SOURCE_BUSY"
	ErrCodeFileNotFound     = "PROTEUS_FILE_NOT_FOUND"
	ErrCodeParseError       = "PROTEUS_PARSE_ERROR"
	ErrCodeBindError        = "PROTEUS_BIND_ERROR"
	ErrCodeInvalidAudit     = "PROTEUS_INVALID_AUDIT_CONFIG"
)

// ValidationError is returned by Pipeline.Create when one or more validators
// reject the configured instance. It aggregates every failure message from
// every failing validator, in registration order; the list is never empty.
type ValidationError struct {
	// TypeName identifies the options type that failed validation
	TypeName string

	// Name is the instance name the pipeline was building
	Name string

	// Failures holds every collected failure message, in validator order
	Failures []string
}

// Error formats the aggregated failure in the coded-error style used
// throughout Proteus, so GetErrorCode works on it too.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s]: validation failed for %s (name %q): %s",
		ErrCodeValidationFailed, e.TypeName, e.Name, strings.Join(e.Failures, "; "))
}

// IsValidationError reports whether err is a Proteus validation failure.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ValidationError)
	if ok {
		return true
	}
	return GetErrorCode(err) == ErrCodeValidationFailed
}

// GetErrorCode extracts the error code from a Proteus error.
// Handles the go-errors format ([CODE]: Message) and returns the empty
// string for nil or foreign errors.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if len(errStr) > 3 && errStr[0] == '[' {
		for idx := 1; idx < len(errStr); idx++ {
			if errStr[idx] == ']' {
				return errStr[1:idx]
			}
		}
	}

	if strings.HasPrefix(errStr, "PROTEUS_") {
		if idx := strings.IndexByte(errStr, ':'); idx > 0 {
			return errStr[:idx]
		}
	}

	return ""
}
