// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleEntry struct {
	Name  string         `json:"name" yaml:"name"`
	Count int            `json:"count,omitempty" yaml:"count,omitempty"`
	Tags  map[string]int `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"policies.json", JSON, false},
		{"/tmp/fixtures/policies.jsonc", JSONC, false},
		{"policies.yaml", YAML, false},
		{"policies.YML", YAML, false},
		{"dump.cbor", CBOR, false},
		{"policies.aclpolicy", "", true},
		{"policies", "", true},
		{"policies.json.zst", JSON, false},
		{"policies.yaml.lz4", YAML, false},
		{"policies.zst", "", true},
	}
	for _, test := range tests {
		got, err := FormatForPath(test.path)
		if test.wantErr {
			if err == nil {
				t.Errorf("FormatForPath(%q) = %q, expected error", test.path, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("FormatForPath(%q): %v", test.path, err)
			continue
		}
		if got != test.want {
			t.Errorf("FormatForPath(%q) = %q, want %q", test.path, got, test.want)
		}
	}
}

func TestDecodeEachFormat(t *testing.T) {
	cborData, err := Marshal(sampleEntry{Name: "admin", Count: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	inputs := map[Format][]byte{
		JSON:  []byte(`{"name": "admin", "count": 2}`),
		JSONC: []byte("{\n  // the admin policy\n  \"name\": \"admin\",\n  \"count\": 2, /* trailing comma */\n}"),
		YAML:  []byte("name: admin\ncount: 2\n"),
		CBOR:  cborData,
	}
	for format, data := range inputs {
		var entry sampleEntry
		if err := Decode(format, data, &entry); err != nil {
			t.Errorf("Decode(%s): %v", format, err)
			continue
		}
		if entry.Name != "admin" || entry.Count != 2 {
			t.Errorf("Decode(%s) = %+v", format, entry)
		}
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	var entry sampleEntry
	if err := Decode("xml", []byte("<x/>"), &entry); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	entry := sampleEntry{Name: "ops", Tags: map[string]int{"zeta": 1, "alpha": 2, "mid": 3}}

	first, err := Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(entry)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal produced different bytes for the same value")
		}
	}
}
