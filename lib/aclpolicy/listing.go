// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/policyview/lib/codec"
)

// Listing is the policy listing as returned by the server.
type Listing struct {
	Policies []DocumentData `json:"policies" yaml:"policies"`
}

// DecodeListing parses a listing in the given format and checks that
// every entry is named.
func DecodeListing(format codec.Format, data []byte) (Listing, error) {
	var listing Listing
	if err := codec.Decode(format, data, &listing); err != nil {
		return Listing{}, fmt.Errorf("decode %s listing: %w", format, err)
	}
	for index, entry := range listing.Policies {
		if entry.Name == "" {
			return Listing{}, fmt.Errorf("policy %d: missing name field", index)
		}
	}
	return listing, nil
}

// ReadListing reads and decodes a listing file. An empty format is
// inferred from the file extension. Files ending in ".zst" or ".lz4"
// are decompressed first.
func ReadListing(path string, format codec.Format) (Listing, error) {
	if format == "" {
		inferred, err := codec.FormatForPath(path)
		if err != nil {
			return Listing{}, err
		}
		format = inferred
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Listing{}, fmt.Errorf("read listing: %w", err)
	}
	compression, _ := codec.CompressionForPath(path)
	if data, err = codec.Decompress(compression, data); err != nil {
		return Listing{}, fmt.Errorf("%s: %w", path, err)
	}

	listing, err := DecodeListing(format, data)
	if err != nil {
		return Listing{}, fmt.Errorf("%s: %w", path, err)
	}
	return listing, nil
}
