// flags.go: Command-line flag layer for options pipelines
//
// FlagLayer binds flash-flags values into options instances as a pipeline
// stage. Registered as a post-configure step, explicitly set flags override
// any configure-time value (file, defaults), matching the usual
// defaults < file < environment < flags precedence.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"strings"
	"time"

	flashflags "github.com/agilira/flash-flags"
)

// FlagLayer wraps a flash-flags FlagSet with set-tracking, so pipeline
// stages can distinguish "flag present on the command line" from "flag at
// its default".
type FlagLayer struct {
	flags   *flashflags.FlagSet
	appName string
	set     map[string]bool
	parsed  bool
}

// NewFlagLayer creates a flag layer for the given application name.
func NewFlagLayer(appName string) *FlagLayer {
	return &FlagLayer{
		flags:   flashflags.New(appName),
		appName: appName,
		set:     make(map[string]bool),
	}
}

// Flag registration - fluent interface

// String registers a string flag.
func (fl *FlagLayer) String(name, defaultValue, usage string) *FlagLayer {
	fl.flags.String(name, defaultValue, usage)
	return fl
}

// Int registers an integer flag.
func (fl *FlagLayer) Int(name string, defaultValue int, usage string) *FlagLayer {
	fl.flags.Int(name, defaultValue, usage)
	return fl
}

// Bool registers a boolean flag.
func (fl *FlagLayer) Bool(name string, defaultValue bool, usage string) *FlagLayer {
	fl.flags.Bool(name, defaultValue, usage)
	return fl
}

// Duration registers a duration flag.
func (fl *FlagLayer) Duration(name string, defaultValue time.Duration, usage string) *FlagLayer {
	fl.flags.Duration(name, defaultValue, usage)
	return fl
}

// Parse parses command-line arguments and records which flags were
// explicitly set.
func (fl *FlagLayer) Parse(args []string) error {
	if err := fl.flags.Parse(args); err != nil {
		return fmt.Errorf("failed to parse command-line flags: %w", err)
	}

	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if idx := strings.IndexByte(name, '='); idx >= 0 {
			name = name[:idx]
		}
		fl.set[name] = true
	}
	fl.parsed = true
	return nil
}

// Changed reports whether the named flag was explicitly set on the
// command line in the last Parse.
func (fl *FlagLayer) Changed(name string) bool {
	return fl.set[name]
}

// Parsed reports whether Parse has run.
func (fl *FlagLayer) Parsed() bool {
	return fl.parsed
}

// Value accessors - delegate to flash-flags

// GetString returns the string value of the named flag.
func (fl *FlagLayer) GetString(name string) string { return fl.flags.GetString(name) }

// GetInt returns the integer value of the named flag.
func (fl *FlagLayer) GetInt(name string) int { return fl.flags.GetInt(name) }

// GetBool returns the boolean value of the named flag.
func (fl *FlagLayer) GetBool(name string) bool { return fl.flags.GetBool(name) }

// GetDuration returns the duration value of the named flag.
func (fl *FlagLayer) GetDuration(name string) time.Duration { return fl.flags.GetDuration(name) }

// PrintUsage prints flag help via the flash-flags help system.
func (fl *FlagLayer) PrintUsage() {
	fl.flags.PrintHelp()
}

// ConfigureFromFlags registers a post-configure stage for name that applies
// bind whenever flags have been parsed. bind typically copies explicitly
// set flags into the options instance:
//
//	proteus.ConfigureFromFlags(pipeline, proteus.DefaultName, fl,
//		func(o *ServerOptions, fl *proteus.FlagLayer) {
//			if fl.Changed("port") {
//				o.Port = fl.GetInt("port")
//			}
//		})
func ConfigureFromFlags[T any](pipeline *Pipeline[T], name string, fl *FlagLayer, bind func(*T, *FlagLayer)) {
	pipeline.PostConfigure(name, func(options *T) {
		if fl.Parsed() {
			bind(options, fl)
		}
	})
}
