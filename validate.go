// validate.go: Validator outcomes for the options pipeline
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

// ValidateResult is the outcome of a single validator: success (no effect),
// skip (validator not applicable to this name, no effect), or failure with
// one or more messages.
type ValidateResult struct {
	failed   bool
	skipped  bool
	empty    bool
	messages []string
}

// ValidateSuccess reports that the instance passed this validator.
func ValidateSuccess() ValidateResult {
	return ValidateResult{}
}

// ValidateSkip reports that this validator does not apply to the instance.
func ValidateSkip() ValidateResult {
	return ValidateResult{skipped: true}
}

// ValidateFail reports a failure with exactly one message.
func ValidateFail(message string) ValidateResult {
	return ValidateResult{failed: true, messages: []string{message}}
}

// ValidateFailMany reports a failure with one or more messages. Constructing
// a failure with zero messages is a programming error; Pipeline.Create
// rejects it with ErrCodeEmptyFailure instead of silently passing.
func ValidateFailMany(messages ...string) ValidateResult {
	if len(messages) == 0 {
		return ValidateResult{failed: true, empty: true}
	}
	msgs := make([]string, len(messages))
	copy(msgs, messages)
	return ValidateResult{failed: true, messages: msgs}
}

// Failed reports whether the result is a failure.
func (r ValidateResult) Failed() bool { return r.failed }

// Skipped reports whether the validator declared itself not applicable.
func (r ValidateResult) Skipped() bool { return r.skipped }

// Messages returns the failure messages, nil for success and skip.
func (r ValidateResult) Messages() []string { return r.messages }
