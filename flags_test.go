// flags_test.go: Tests for the command-line flag layer
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"testing"
	"time"
)

func TestFlagLayer_ParseAndAccess(t *testing.T) {
	fl := NewFlagLayer("testapp").
		String("host", "localhost", "Server host").
		Int("port", 8080, "Server port").
		Bool("debug", false, "Debug mode").
		Duration("timeout", 30*time.Second, "Request timeout")

	if fl.Parsed() {
		t.Error("Parsed should be false before Parse")
	}

	err := fl.Parse([]string{"--host", "api.internal", "--port=9090", "--debug"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !fl.Parsed() {
		t.Error("Parsed should be true after Parse")
	}
	if fl.GetString("host") != "api.internal" {
		t.Errorf("host = %q", fl.GetString("host"))
	}
	if fl.GetInt("port") != 9090 {
		t.Errorf("port = %d", fl.GetInt("port"))
	}
	if !fl.GetBool("debug") {
		t.Error("debug should be true")
	}
	if fl.GetDuration("timeout") != 30*time.Second {
		t.Errorf("timeout default lost: %v", fl.GetDuration("timeout"))
	}
}

func TestFlagLayer_ChangedTracksExplicitFlags(t *testing.T) {
	fl := NewFlagLayer("testapp").
		String("host", "localhost", "Server host").
		Int("port", 8080, "Server port")

	if err := fl.Parse([]string{"--port=9090"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !fl.Changed("port") {
		t.Error("Explicitly set flag should report changed")
	}
	if fl.Changed("host") {
		t.Error("Defaulted flag should not report changed")
	}
}

func TestConfigureFromFlags_OverridesConfigureValues(t *testing.T) {
	fl := NewFlagLayer("testapp").
		String("host", "localhost", "Server host").
		Int("port", 8080, "Server port")
	if err := fl.Parse([]string{"--port=9090"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	pipeline := NewPipeline[serverOptions](nil)
	pipeline.Configure(DefaultName, func(o *serverOptions) {
		o.Host = "from-file.internal"
		o.Port = 1234
	})
	ConfigureFromFlags(pipeline, DefaultName, fl, func(o *serverOptions, fl *FlagLayer) {
		if fl.Changed("host") {
			o.Host = fl.GetString("host")
		}
		if fl.Changed("port") {
			o.Port = fl.GetInt("port")
		}
	})

	options, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if options.Port != 9090 {
		t.Errorf("Explicit flag should override configure value: Port = %d", options.Port)
	}
	if options.Host != "from-file.internal" {
		t.Errorf("Unset flag must not override configure value: Host = %s", options.Host)
	}
}

func TestConfigureFromFlags_NoOpBeforeParse(t *testing.T) {
	fl := NewFlagLayer("testapp").Int("port", 8080, "Server port")

	pipeline := NewPipeline[serverOptions](nil)
	pipeline.Configure(DefaultName, func(o *serverOptions) { o.Port = 1234 })
	ConfigureFromFlags(pipeline, DefaultName, fl, func(o *serverOptions, fl *FlagLayer) {
		o.Port = fl.GetInt("port")
	})

	options, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if options.Port != 1234 {
		t.Errorf("Flag binding must not run before Parse: Port = %d", options.Port)
	}
}
