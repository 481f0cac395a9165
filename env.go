// env.go: Environment-variable layer for options pipelines
//
// EnvLayer resolves typed values from environment variables, mapping
// dot-notation option keys onto prefixed, upper-cased variable names
// ("server.port" under prefix PROTEUS reads PROTEUS_SERVER_PORT). Registered
// as a configure stage after the file stage, set variables override file
// values while explicitly set flags still win, completing the
// defaults < file < environment < flags precedence chain.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvLayer resolves configuration values from environment variables under a
// fixed prefix. Lookups are live: each getter reads the current process
// environment, so tests can stage variables per call.
type EnvLayer struct {
	prefix string
}

// NewEnvLayer creates an environment layer for the given prefix. The prefix
// is upper-cased; an empty prefix reads unprefixed variable names.
func NewEnvLayer(prefix string) *EnvLayer {
	return &EnvLayer{prefix: strings.ToUpper(prefix)}
}

// Key translates a dot-notation option key into its environment variable
// name: upper-cased, dots and dashes to underscores, prefix prepended.
func (e *EnvLayer) Key(key string) string {
	name := strings.ToUpper(key)
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "-", "_")
	if e.prefix == "" {
		return name
	}
	return e.prefix + "_" + name
}

// Has reports whether the variable for key is set and non-empty.
func (e *EnvLayer) Has(key string) bool {
	return os.Getenv(e.Key(key)) != ""
}

// GetString returns the variable for key, or defaultValue if unset.
func (e *EnvLayer) GetString(key, defaultValue string) string {
	if value := os.Getenv(e.Key(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetInt returns the variable for key as an integer. Unset or malformed
// values fall back to defaultValue.
func (e *EnvLayer) GetInt(key string, defaultValue int) int {
	if value := os.Getenv(e.Key(key)); value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetBool returns the variable for key as a boolean. Accepts the usual
// operator spellings (true/1/yes/on/enabled and their negations); unset or
// unrecognized values fall back to defaultValue.
func (e *EnvLayer) GetBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(e.Key(key)))) {
	case "true", "1", "yes", "on", "enabled":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		return defaultValue
	}
}

// GetFloat64 returns the variable for key as a float. Unset or malformed
// values fall back to defaultValue.
func (e *EnvLayer) GetFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(e.Key(key)); value != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDuration returns the variable for key as a duration ("5s", "100ms").
// Unset or malformed values fall back to defaultValue.
func (e *EnvLayer) GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(e.Key(key)); value != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// ConfigureFromEnv registers a configure stage for name that applies bind,
// pulling set variables into the options instance. Register it after the
// file stage so environment values override file values; flag layers sit in
// post-configure and still override both:
//
//	env := proteus.NewEnvLayer("myapp")
//	proteus.ConfigureFromEnv(pipeline, proteus.DefaultName, env,
//		func(o *ServerOptions, env *proteus.EnvLayer) {
//			o.Host = env.GetString("server.host", o.Host)
//			o.Port = env.GetInt("server.port", o.Port)
//		})
func ConfigureFromEnv[T any](pipeline *Pipeline[T], name string, env *EnvLayer, bind func(*T, *EnvLayer)) {
	pipeline.Configure(name, func(options *T) {
		bind(options, env)
	})
}

// AuditConfigFromEnv builds an AuditConfig from PROTEUS_AUDIT_* variables
// layered over the defaults, for container deployments that cannot ship a
// configuration file:
//
//	PROTEUS_AUDIT_ENABLED, PROTEUS_AUDIT_OUTPUT_FILE,
//	PROTEUS_AUDIT_MIN_LEVEL (info|warn|critical),
//	PROTEUS_AUDIT_BUFFER_SIZE, PROTEUS_AUDIT_FLUSH_INTERVAL
func AuditConfigFromEnv() AuditConfig {
	env := NewEnvLayer("proteus")
	config := DefaultAuditConfig()

	config.Enabled = env.GetBool("audit.enabled", config.Enabled)
	config.OutputFile = env.GetString("audit.output-file", config.OutputFile)
	config.BufferSize = env.GetInt("audit.buffer-size", config.BufferSize)
	config.FlushInterval = env.GetDuration("audit.flush-interval", config.FlushInterval)

	switch strings.ToLower(env.GetString("audit.min-level", "")) {
	case "info":
		config.MinLevel = AuditInfo
	case "warn":
		config.MinLevel = AuditWarn
	case "critical":
		config.MinLevel = AuditCritical
	}

	return config
}
