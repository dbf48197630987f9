// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/policyview/lib/codec"
	"github.com/bureau-foundation/policyview/lib/testutil"
)

func TestDecodeListingFormats(t *testing.T) {
	tests := []struct {
		format codec.Format
		data   string
	}{
		{codec.JSON, `{"policies":[{"name":"a.policy","valid":true,"wasSaved":true,"savedSize":42,"meta":{"count":1,"policies":[{"by":"group:ops"}]}}]}`},
		{codec.JSONC, `{
			// exported from the policy server
			"policies": [
				{"name": "a.policy", "valid": true, "wasSaved": true, "savedSize": 42,
				 "meta": {"count": 1, "policies": [{"by": "group:ops"}]}},
			],
		}`},
		{codec.YAML, `
policies:
  - name: a.policy
    valid: true
    wasSaved: true
    savedSize: 42
    meta:
      count: 1
      policies:
        - by: group:ops
`},
	}
	for _, test := range tests {
		t.Run(string(test.format), func(t *testing.T) {
			listing, err := DecodeListing(test.format, []byte(test.data))
			if err != nil {
				t.Fatalf("DecodeListing: %v", err)
			}
			if len(listing.Policies) != 1 {
				t.Fatalf("got %d policies, want 1", len(listing.Policies))
			}
			policy := listing.Policies[0]
			if policy.Name != "a.policy" || !policy.Valid || !policy.WasSaved || policy.SavedSize != 42 {
				t.Errorf("policy = %+v", policy)
			}
			if policy.Meta == nil || policy.Meta.Count != 1 || policy.Meta.Policies[0].By != "group:ops" {
				t.Errorf("meta = %+v", policy.Meta)
			}
		})
	}
}

func TestDecodeListingCBOR(t *testing.T) {
	want := Listing{Policies: []DocumentData{{Name: "a.policy", Valid: true, Meta: &Meta{Count: 3}}}}
	encoded, err := codec.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	listing, err := DecodeListing(codec.CBOR, encoded)
	if err != nil {
		t.Fatalf("DecodeListing: %v", err)
	}
	if len(listing.Policies) != 1 || listing.Policies[0].Name != "a.policy" || listing.Policies[0].Meta.Count != 3 {
		t.Errorf("listing = %+v", listing)
	}
}

func TestDecodeListingMissingName(t *testing.T) {
	_, err := DecodeListing(codec.JSON, []byte(`{"policies":[{"name":"a"},{"valid":true}]}`))
	if err == nil || !strings.Contains(err.Error(), "policy 1: missing name") {
		t.Errorf("error = %v, want missing name for policy 1", err)
	}
}

func TestDecodeListingMalformed(t *testing.T) {
	if _, err := DecodeListing(codec.JSON, []byte(`{"policies":`)); err == nil {
		t.Error("truncated JSON decoded")
	}
}

func TestReadListingInfersFormat(t *testing.T) {
	path := testutil.WriteFixture(t, "policies.yml", "policies:\n  - name: a\n  - name: b\n")
	listing, err := ReadListing(path, "")
	if err != nil {
		t.Fatalf("ReadListing: %v", err)
	}
	if len(listing.Policies) != 2 {
		t.Errorf("got %d policies, want 2", len(listing.Policies))
	}

	unknown := testutil.WriteFixture(t, "policies.txt", "")
	if _, err := ReadListing(unknown, ""); err == nil {
		t.Error("ReadListing inferred a format for .txt")
	}
}

func TestReadListingZstd(t *testing.T) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := encoder.EncodeAll([]byte(`{"policies":[{"name":"a","valid":true}]}`), nil)
	encoder.Close()

	path := testutil.WriteFixture(t, "policies.json.zst", string(compressed))
	listing, err := ReadListing(path, "")
	if err != nil {
		t.Fatalf("ReadListing: %v", err)
	}
	if len(listing.Policies) != 1 || listing.Policies[0].Name != "a" {
		t.Errorf("listing = %+v", listing)
	}
}
