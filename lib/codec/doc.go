// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec decodes policy listings from the formats the viewer
// accepts and provides the canonical CBOR encoding used to fingerprint
// listing entries.
//
// Four input formats are supported, selected by [FormatForPath] or
// [ParseFormat]:
//
//   - JSON: the listing exactly as the server returns it.
//   - JSONC: JSON with // and /* */ comments and trailing commas,
//     for hand-maintained fixtures. Comments are stripped with
//     tidwall/jsonc before standard JSON decoding.
//   - YAML: decoded with gopkg.in/yaml.v3.
//   - CBOR: decoded with fxamacker/cbor.
//
// The CBOR encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Same logical data always produces identical bytes, which is
// what makes [Marshal] output usable as a change fingerprint.
//
// # Struct Tag Rules
//
// Listing types carry `json` and `yaml` tags with identical names.
// fxamacker/cbor reads `json` tags when `cbor` tags are absent, so the
// `json` tag names fields for both JSON and CBOR. yaml.v3 ignores
// `json` tags, hence the second tag. Never add a `cbor` tag to a
// listing type.
package codec
