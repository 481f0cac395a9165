// Tests for CLI helpers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadDocument_FormatDetection(t *testing.T) {
	jsonPath := writeTempFile(t, "config.json", `{"server": {"port": 8080}}`)
	yamlPath := writeTempFile(t, "config.yaml", "server:\n  port: 9090\n")

	jsonDoc, err := loadDocument(jsonPath, "auto")
	if err != nil {
		t.Fatalf("loadDocument JSON failed: %v", err)
	}
	if _, ok := lookupKey(jsonDoc, "server.port"); !ok {
		t.Error("JSON document lookup failed")
	}

	yamlDoc, err := loadDocument(yamlPath, "")
	if err != nil {
		t.Fatalf("loadDocument YAML failed: %v", err)
	}
	if _, ok := lookupKey(yamlDoc, "server.port"); !ok {
		t.Error("YAML document lookup failed")
	}
}

func TestLoadDocument_FormatOverride(t *testing.T) {
	// YAML content behind a .json name still loads with an explicit override.
	path := writeTempFile(t, "config.json", "server:\n  port: 7070\n")

	doc, err := loadDocument(path, "yaml")
	if err != nil {
		t.Fatalf("loadDocument with override failed: %v", err)
	}
	if _, ok := lookupKey(doc, "server.port"); !ok {
		t.Error("Override-parsed document lookup failed")
	}

	if _, err := loadDocument(path, "xml"); err == nil {
		t.Error("Unsupported override should fail")
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	if _, err := loadDocument(filepath.Join(t.TempDir(), "absent.json"), "auto"); err == nil {
		t.Error("Missing file should fail")
	}
}

func TestLookupKey(t *testing.T) {
	doc := map[string]interface{}{
		"top": "value",
		"server": map[string]interface{}{
			"port": 8080,
		},
		"yamlish": map[interface{}]interface{}{
			"nested": true,
		},
	}

	if v, ok := lookupKey(doc, "top"); !ok || v != "value" {
		t.Errorf("top lookup: %v %v", v, ok)
	}
	if v, ok := lookupKey(doc, "server.port"); !ok || v != 8080 {
		t.Errorf("nested lookup: %v %v", v, ok)
	}
	if v, ok := lookupKey(doc, "yamlish.nested"); !ok || v != true {
		t.Errorf("interface-key lookup: %v %v", v, ok)
	}
	if _, ok := lookupKey(doc, "server.missing"); ok {
		t.Error("missing key should not resolve")
	}
	if _, ok := lookupKey(doc, "top.deeper"); ok {
		t.Error("descending through a scalar should not resolve")
	}
}
