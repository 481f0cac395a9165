// Package cli provides the command-line interface for Proteus options
// management.
//
// The CLI is built on the Orpheus framework and operates on file-backed
// options documents: inspecting values, validating documents, and watching
// files for live changes through the same polling source the library ships.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/proteus"
)

// Manager provides CLI operations for Proteus options documents.
type Manager struct {
	app         *orpheus.App
	auditLogger *proteus.AuditLogger // Optional audit integration
}

// NewManager creates the CLI manager with the full command structure.
func NewManager() *Manager {
	app := orpheus.New("proteus").
		SetDescription("Typed options management with change tokens and live reload").
		SetVersion("1.0.0")

	manager := &Manager{app: app}

	manager.setupOptionsCommands()
	manager.setupWatchCommand()
	manager.setupUtilityCommands()

	return manager
}

// WithAudit enables audit logging for CLI operations.
func (m *Manager) WithAudit(auditLogger *proteus.AuditLogger) *Manager {
	m.auditLogger = auditLogger
	return m
}

// Run executes the CLI application with the provided arguments.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

// setupOptionsCommands configures the 'options' command group for document
// operations: get and validate.
func (m *Manager) setupOptionsCommands() {
	optionsCmd := orpheus.NewCommand("options", "Options document operations")

	// options get <file> <key>
	getCmd := optionsCmd.Subcommand("get", "Get a document value by dot-notation key", m.handleGet)
	getCmd.AddFlag("format", "f", "auto", "Document format (auto|json|yaml)")

	// options validate <file> [--require key,key...]
	validateCmd := optionsCmd.Subcommand("validate", "Validate an options document", m.handleValidate)
	validateCmd.AddFlag("format", "f", "auto", "Document format (auto|json|yaml)")
	validateCmd.AddFlag("require", "r", "", "Comma-separated keys that must be present")

	m.app.AddCommand(optionsCmd)
}

// setupWatchCommand configures the 'watch' command for real-time monitoring.
func (m *Manager) setupWatchCommand() {
	watchCmd := orpheus.NewCommand("watch", "Watch an options document for changes")
	watchCmd.SetHandler(m.handleWatch)
	watchCmd.AddFlag("interval", "i", "2s", "Polling interval")
	watchCmd.AddBoolFlag("verbose", "v", false, "Print full document on each change")

	m.app.AddCommand(watchCmd)
}

// setupUtilityCommands configures diagnostics commands.
func (m *Manager) setupUtilityCommands() {
	infoCmd := orpheus.NewCommand("info", "System information and diagnostics")
	infoCmd.SetHandler(m.handleInfo)
	m.app.AddCommand(infoCmd)
}
