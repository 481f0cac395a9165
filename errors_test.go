// errors_test.go: Tests for the error taxonomy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"strings"
	"testing"

	"github.com/agilira/go-errors"
)

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{
		TypeName: "proteus.serverOptions",
		Name:     "db",
		Failures: []string{"port must be positive", "host is required"},
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "["+ErrCodeValidationFailed+"]") {
		t.Errorf("Message should open with the error code: %s", msg)
	}
	if !strings.Contains(msg, `(name "db")`) {
		t.Errorf("Message should carry the instance name: %s", msg)
	}
	if !strings.Contains(msg, "port must be positive; host is required") {
		t.Errorf("Message should join every failure: %s", msg)
	}
}

func TestIsValidationError(t *testing.T) {
	verr := &ValidationError{TypeName: "T", Name: "", Failures: []string{"x"}}
	if !IsValidationError(verr) {
		t.Error("Should recognize *ValidationError")
	}
	if IsValidationError(nil) {
		t.Error("nil is not a validation error")
	}
	if IsValidationError(fmt.Errorf("plain error")) {
		t.Error("Plain errors are not validation errors")
	}
	if IsValidationError(errors.New(ErrCodeMonitorDisposed, "disposed")) {
		t.Error("Other coded errors are not validation errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New(ErrCodeInvalidConfig, "bad config"), ErrCodeInvalidConfig},
		{errors.New(ErrCodeParseError, "bad document"), ErrCodeParseError},
		{&ValidationError{TypeName: "T", Failures: []string{"x"}}, ErrCodeValidationFailed},
		{fmt.Errorf("uncoded error"), ""},
	}

	for _, tc := range cases {
		if got := GetErrorCode(tc.err); got != tc.want {
			t.Errorf("GetErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestGetErrorCode_WrappedError(t *testing.T) {
	inner := fmt.Errorf("read failed")
	wrapped := errors.Wrap(inner, ErrCodeFileNotFound, "cannot read watched file")

	if got := GetErrorCode(wrapped); got != ErrCodeFileNotFound {
		t.Errorf("GetErrorCode on wrapped error = %q, want %q", got, ErrCodeFileNotFound)
	}
}
