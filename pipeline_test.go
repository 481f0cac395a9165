// pipeline_test.go: Tests for the configure/post-configure/validate pipeline
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"strings"
	"testing"
)

// serverOptions is the options type used across the pipeline tests.
type serverOptions struct {
	Host    string
	Port    int
	Workers int
	Trace   []string
}

func TestPipeline_PhaseOrdering(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)

	pipeline.PostConfigureAll(func(o *serverOptions) { o.Trace = append(o.Trace, "post-1") })
	pipeline.ConfigureAll(func(o *serverOptions) { o.Trace = append(o.Trace, "cfg-1") })
	pipeline.ConfigureAll(func(o *serverOptions) { o.Trace = append(o.Trace, "cfg-2") })
	pipeline.PostConfigureAll(func(o *serverOptions) { o.Trace = append(o.Trace, "post-2") })

	options, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := []string{"cfg-1", "cfg-2", "post-1", "post-2"}
	if len(options.Trace) != len(want) {
		t.Fatalf("Expected %d stages, got %v", len(want), options.Trace)
	}
	for i, stage := range want {
		if options.Trace[i] != stage {
			t.Errorf("Stage %d: expected %s, got %s", i, stage, options.Trace[i])
		}
	}
}

func TestPipeline_PostConfigureOverridesConfigure(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ConfigureAll(func(o *serverOptions) { o.Workers = 256 })
	pipeline.PostConfigureAll(func(o *serverOptions) {
		if o.Workers > 64 {
			o.Workers = 64
		}
	})

	options, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if options.Workers != 64 {
		t.Errorf("Post-configure cap not applied: Workers = %d", options.Workers)
	}
}

func TestPipeline_NameScoping(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.Configure("primary", func(o *serverOptions) { o.Port = 5432 })
	pipeline.Configure("replica", func(o *serverOptions) { o.Port = 5433 })
	pipeline.ConfigureAll(func(o *serverOptions) { o.Host = "localhost" })

	primary, err := pipeline.Create("primary")
	if err != nil {
		t.Fatalf("Create primary failed: %v", err)
	}
	replica, err := pipeline.Create("replica")
	if err != nil {
		t.Fatalf("Create replica failed: %v", err)
	}

	if primary.Port != 5432 || replica.Port != 5433 {
		t.Errorf("Name scoping broken: primary=%d replica=%d", primary.Port, replica.Port)
	}
	if primary.Host != "localhost" || replica.Host != "localhost" {
		t.Error("Unscoped registration should apply to every name")
	}
	if primary == replica {
		t.Error("Distinct names must never share object identity")
	}
}

func TestPipeline_ScopedValidatorNotRunForOtherNames(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)

	var ran bool
	pipeline.Validate("x", func(name string, o *serverOptions) ValidateResult {
		ran = true
		return ValidateFail("never valid")
	})

	if _, err := pipeline.Create("y"); err != nil {
		t.Errorf("Validator scoped to another name must not fail the build: %v", err)
	}
	if ran {
		t.Error("Validator scoped to \"x\" must not execute for \"y\"")
	}
}

func TestPipeline_DefaultNameIsOrdinaryName(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.Configure(DefaultName, func(o *serverOptions) { o.Port = 8080 })
	pipeline.Configure("other", func(o *serverOptions) { o.Port = 9090 })

	def, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if def.Port != 8080 {
		t.Errorf("Default-name registration not applied: Port = %d", def.Port)
	}
}

func TestPipeline_CustomConstructor(t *testing.T) {
	pipeline := NewPipeline(func() *serverOptions {
		return &serverOptions{Host: "0.0.0.0", Port: 80}
	})

	options, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if options.Host != "0.0.0.0" || options.Port != 80 {
		t.Errorf("Constructor values lost: %+v", options)
	}
}

func TestPipeline_ValidationAggregatesFailures(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		return ValidateFail("port must be positive")
	})
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		return ValidateSuccess()
	})
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		return ValidateFailMany("host is required", "workers must be positive")
	})

	_, err := pipeline.Create(DefaultName)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if len(verr.Failures) != 3 {
		t.Fatalf("Expected 3 aggregated failures, got %d: %v", len(verr.Failures), verr.Failures)
	}
	if verr.Failures[0] != "port must be positive" {
		t.Errorf("Failure order not preserved: %v", verr.Failures)
	}
	if !IsValidationError(err) {
		t.Error("IsValidationError should recognize the aggregate error")
	}
	if code := GetErrorCode(err); code != ErrCodeValidationFailed {
		t.Errorf("Expected code %s, got %s", ErrCodeValidationFailed, code)
	}
	if !strings.Contains(err.Error(), "host is required") {
		t.Errorf("Error message should carry every failure: %s", err.Error())
	}
}

func TestPipeline_SkippedValidatorHasNoEffect(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		return ValidateSkip()
	})

	if _, err := pipeline.Create(DefaultName); err != nil {
		t.Errorf("Skip should not fail the build: %v", err)
	}
}

func TestPipeline_EmptyFailureRejected(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		return ValidateFailMany()
	})

	_, err := pipeline.Create(DefaultName)
	if err == nil {
		t.Fatal("Expected error for zero-message failure")
	}
	if code := GetErrorCode(err); code != ErrCodeEmptyFailure {
		t.Errorf("Expected code %s, got %s", ErrCodeEmptyFailure, code)
	}
	if IsValidationError(err) {
		t.Error("Zero-message failure is a programming error, not a validation failure")
	}
}

func TestPipeline_ValidatorReceivesName(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)

	var seen string
	pipeline.ValidateAll(func(name string, o *serverOptions) ValidateResult {
		seen = name
		return ValidateSuccess()
	})

	if _, err := pipeline.Create("replica"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if seen != "replica" {
		t.Errorf("Validator received name %q, want %q", seen, "replica")
	}
}

func TestPipeline_RepeatedCreateIsDeterministic(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)
	pipeline.ConfigureAll(func(o *serverOptions) { o.Port = 8080 })

	first, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := pipeline.Create(DefaultName)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if first == second {
		t.Error("Each Create must return a fresh instance")
	}
	if first.Port != second.Port {
		t.Error("Repeated Create with fixed registrations must produce identical content")
	}
}

func TestBuilder_ForwardsToNamedPipeline(t *testing.T) {
	pipeline := NewPipeline[serverOptions](nil)

	Options(pipeline, "edge").
		Configure(func(o *serverOptions) { o.Port = 443 }).
		PostConfigure(func(o *serverOptions) { o.Host = "edge.internal" }).
		Validate(func(name string, o *serverOptions) ValidateResult {
			if o.Port <= 0 {
				return ValidateFail("port must be positive")
			}
			return ValidateSuccess()
		})

	edge, err := pipeline.Create("edge")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if edge.Port != 443 || edge.Host != "edge.internal" {
		t.Errorf("Builder registrations not applied: %+v", edge)
	}

	other, err := pipeline.Create("other")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if other.Port != 0 {
		t.Error("Builder registrations must stay scoped to the builder's name")
	}
}
