// source.go: External change-token source contract
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

// TokenSource is the contract a change source exposes to the monitor: the
// instance name it covers and the current token generation. The monitor
// treats a source-provided token exactly like a notifier-provided one,
// re-attaching to a fresh token from the same source after every fire.
//
// Concrete sources (file watchers, remote config pollers, admin signals)
// live outside the core; FileSource ships as the reference implementation.
type TokenSource interface {
	// Name returns the instance name this source signals changes for.
	Name() string

	// Token returns the current change token for the source. Tokens are
	// single-use: after a fire the source must hand out a fresh generation.
	Token() ChangeToken
}

// NotifierSource adapts one name of a ChangeNotifier to the TokenSource
// contract.
type NotifierSource struct {
	notifier *ChangeNotifier
	name     string
}

// NewNotifierSource wraps the notifier's token stream for name.
func NewNotifierSource(notifier *ChangeNotifier, name string) *NotifierSource {
	return &NotifierSource{notifier: notifier, name: name}
}

// Name implements TokenSource.
func (s *NotifierSource) Name() string { return s.name }

// Token implements TokenSource.
func (s *NotifierSource) Token() ChangeToken { return s.notifier.GetToken(s.name) }
