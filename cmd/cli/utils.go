// Shared helpers for the Proteus CLI
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/agilira/go-errors"
	"github.com/agilira/proteus"
)

// loadDocument reads and parses a document, honoring an explicit format
// override ("json" or "yaml") when extension detection is not enough.
func loadDocument(filePath, formatOverride string) (map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, proteus.ErrCodeFileNotFound,
			fmt.Sprintf("cannot read %s", filePath))
	}

	format := proteus.DetectFormat(filePath)
	switch strings.ToLower(formatOverride) {
	case "json":
		format = proteus.FormatJSON
	case "yaml", "yml":
		format = proteus.FormatYAML
	case "", "auto":
	default:
		return nil, errors.New(proteus.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported format override %q", formatOverride))
	}

	return proteus.ParseDocument(data, format)
}

// lookupKey descends a nested document using dot notation ("server.port").
func lookupKey(document map[string]interface{}, key string) (interface{}, bool) {
	parts := strings.Split(key, ".")
	var current interface{} = document

	for _, part := range parts {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[part]
			if !ok {
				return nil, false
			}
			current = value
		case map[interface{}]interface{}:
			value, ok := node[part]
			if !ok {
				return nil, false
			}
			current = value
		default:
			return nil, false
		}
	}

	return current, true
}
