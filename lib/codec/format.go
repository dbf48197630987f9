// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a listing encoding.
type Format string

const (
	JSON  Format = "json"
	JSONC Format = "jsonc"
	YAML  Format = "yaml"
	CBOR  Format = "cbor"
)

// Formats lists every supported format, for help text.
var Formats = []Format{JSON, JSONC, YAML, CBOR}

// ParseFormat validates a format name as given on the command line
// or in a config file. "yml" is accepted as an alias for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "jsonc":
		return JSONC, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: json, jsonc, yaml, cbor)", name)
	}
}

// FormatForPath infers the format from a file extension. A compression
// extension is skipped, so "policies.yaml.zst" is YAML.
func FormatForPath(path string) (Format, error) {
	_, inner := CompressionForPath(path)
	extension := strings.TrimPrefix(filepath.Ext(inner), ".")
	if extension == "" {
		return "", fmt.Errorf("cannot infer format of %s: no file extension", path)
	}
	format, err := ParseFormat(extension)
	if err != nil {
		return "", fmt.Errorf("cannot infer format of %s: %w", path, err)
	}
	return format, nil
}

// Decode unmarshals data in the given format into v.
func Decode(format Format, data []byte, v any) error {
	switch format {
	case JSON:
		return json.Unmarshal(data, v)
	case JSONC:
		return json.Unmarshal(jsonc.ToJSON(data), v)
	case YAML:
		return yaml.Unmarshal(data, v)
	case CBOR:
		return Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
