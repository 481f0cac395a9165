// notifier.go: Per-name change-token registry for in-process reloads
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import "sync"

// DefaultName is the name of the default (unnamed) options instance.
// Other components key off this published constant.
const DefaultName = ""

// ChangeNotifier owns the mapping from instance name to its current token,
// driving in-process reloads. Each notifier instance is an independent scope:
// construct one and pass it to every monitor that should observe it rather
// than sharing process-wide state.
//
// Invariant: exactly one current token per known name at any time. Firing
// installs a replacement before notifying, so callbacks that immediately
// re-register see the new generation, never the one that just fired.
type ChangeNotifier struct {
	mu     sync.Mutex
	tokens map[string]*ManualChangeToken
}

// NewChangeNotifier creates an empty notifier scope.
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{tokens: make(map[string]*ManualChangeToken)}
}

// GetToken returns the current token for name, lazily creating an initial
// unfired token on first request. Repeated calls between fires return the
// identical token.
func (n *ChangeNotifier) GetToken(name string) ChangeToken {
	n.mu.Lock()
	defer n.mu.Unlock()

	token, ok := n.tokens[name]
	if !ok {
		token = NewManualChangeToken()
		n.tokens[name] = token
	}
	return token
}

// NotifyChange signals that the configuration behind name changed. Unknown
// names (no prior GetToken call) are a no-op: there is nothing to signal and
// nothing to create. Otherwise a brand-new unfired token is swapped in first
// and the previously current token is fired after, so re-registration during
// a callback observes the new generation.
func (n *ChangeNotifier) NotifyChange(name string) {
	n.mu.Lock()
	old, ok := n.tokens[name]
	if !ok {
		n.mu.Unlock()
		return
	}
	n.tokens[name] = NewManualChangeToken()
	n.mu.Unlock()

	old.Notify()
}

// NotifyAll applies NotifyChange to every name that currently has a token,
// in a single pass. No ordering across distinct names is guaranteed.
func (n *ChangeNotifier) NotifyAll() {
	n.mu.Lock()
	fired := make([]*ManualChangeToken, 0, len(n.tokens))
	for name, old := range n.tokens {
		n.tokens[name] = NewManualChangeToken()
		fired = append(fired, old)
	}
	n.mu.Unlock()

	for _, token := range fired {
		token.Notify()
	}
}
