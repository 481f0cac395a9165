// Command handlers for the Proteus CLI
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/proteus"
)

// handleGet retrieves a document value using dot notation.
func (m *Manager) handleGet(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	key := ctx.GetArg(1)
	if filePath == "" || key == "" {
		return errors.New(proteus.ErrCodeInvalidConfig, "usage: options get <file> <key>")
	}

	if m.auditLogger != nil {
		m.auditLogger.LogWatch("cli_options_get", filePath)
	}

	document, err := loadDocument(filePath, ctx.GetFlagString("format"))
	if err != nil {
		return err
	}

	value, ok := lookupKey(document, key)
	if !ok {
		return errors.New(proteus.ErrCodeInvalidConfig, fmt.Sprintf("key %q not found", key))
	}

	fmt.Printf("%v\n", value)
	return nil
}

// handleValidate parses a document and optionally checks required keys.
func (m *Manager) handleValidate(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if filePath == "" {
		return errors.New(proteus.ErrCodeInvalidConfig, "usage: options validate <file>")
	}

	if m.auditLogger != nil {
		m.auditLogger.LogWatch("cli_options_validate", filePath)
	}

	document, err := loadDocument(filePath, ctx.GetFlagString("format"))
	if err != nil {
		return err
	}

	// Required-key checks run through the same pipeline the library uses,
	// so failures aggregate instead of stopping at the first missing key.
	pipeline := proteus.NewPipeline[documentOptions](nil)
	pipeline.ConfigureAll(func(o *documentOptions) {
		o.document = document
	})

	if required := ctx.GetFlagString("require"); required != "" {
		for _, key := range strings.Split(required, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			requiredKey := key
			pipeline.ValidateAll(func(name string, o *documentOptions) proteus.ValidateResult {
				if _, ok := lookupKey(o.document, requiredKey); !ok {
					return proteus.ValidateFail(fmt.Sprintf("required key %q is missing", requiredKey))
				}
				return proteus.ValidateSuccess()
			})
		}
	}

	if _, err := pipeline.Create(proteus.DefaultName); err != nil {
		return err
	}

	fmt.Printf("%s is valid (%d top-level keys)\n", filePath, len(document))
	return nil
}

// handleWatch monitors a document for changes until interrupted.
func (m *Manager) handleWatch(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if filePath == "" {
		return errors.New(proteus.ErrCodeInvalidConfig, "usage: watch <file>")
	}
	verbose := ctx.GetFlagBool("verbose")

	interval, err := time.ParseDuration(ctx.GetFlagString("interval"))
	if err != nil {
		return errors.New(proteus.ErrCodeInvalidConfig, fmt.Sprintf("invalid interval: %v", err))
	}

	source, err := proteus.NewFileSource(filePath, proteus.FileSourceConfig{
		PollInterval: interval,
		Audit:        m.auditLogger,
		ErrorHandler: func(err error, name string) {
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		},
	})
	if err != nil {
		return err
	}

	if err := source.Start(); err != nil {
		return err
	}
	defer func() { _ = source.Stop() }()

	fmt.Printf("Watching %s (interval: %v)\n", source.Path(), interval)
	fmt.Println("Press Ctrl+C to stop...")

	// Re-arm across token generations for the lifetime of the command.
	reg := proteus.OnChange(source.Token, func() {
		fmt.Printf("Document changed: %s\n", source.Path())
		if verbose {
			for key, value := range source.Snapshot() {
				fmt.Printf("  %s = %v\n", key, value)
			}
		}
	})
	defer reg.Dispose()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	return nil
}

// handleInfo prints system diagnostics.
func (m *Manager) handleInfo(ctx *orpheus.Context) error {
	fmt.Println("Proteus Options Management")
	fmt.Printf("  Version:   1.0.0\n")
	fmt.Printf("  Go:        %s\n", runtime.Version())
	fmt.Printf("  Platform:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Formats:   JSON, YAML\n")
	fmt.Printf("  Audit:     %v\n", m.auditLogger != nil)
	return nil
}

// documentOptions carries a parsed document through the validation pipeline.
type documentOptions struct {
	document map[string]interface{}
}
