// parsers.go: Configuration document parsing for file-backed sources
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"encoding/json"
	"strings"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// DocumentFormat identifies the on-disk format of a configuration document.
type DocumentFormat int

const (
	FormatJSON DocumentFormat = iota
	FormatYAML
	FormatUnknown
)

// String returns the format name for diagnostics.
func (f DocumentFormat) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatYAML:
		return "YAML"
	default:
		return "Unknown"
	}
}

// DetectFormat detects the document format from the file extension.
func DetectFormat(path string) DocumentFormat {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return FormatUnknown
	}
	switch strings.ToLower(path[idx:]) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// ParseDocument parses raw configuration bytes into a generic document map.
func ParseDocument(data []byte, format DocumentFormat) (map[string]interface{}, error) {
	document := make(map[string]interface{})

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &document); err != nil {
			return nil, errors.Wrap(err, ErrCodeParseError, "invalid JSON document")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, errors.Wrap(err, ErrCodeParseError, "invalid YAML document")
		}
	default:
		return nil, errors.New(ErrCodeParseError, "unsupported document format")
	}

	return document, nil
}
