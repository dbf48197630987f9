// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const compressSample = `{"policies": [{"name": "base.policy", "valid": true}]}`

func TestCompressionForPath(t *testing.T) {
	tests := []struct {
		path      string
		want      Compression
		wantInner string
	}{
		{"policies.json", CompressionNone, "policies.json"},
		{"/srv/policies.json.zst", CompressionZstd, "/srv/policies.json"},
		{"policies.cbor.LZ4", CompressionLZ4, "policies.cbor"},
	}
	for _, test := range tests {
		got, inner := CompressionForPath(test.path)
		if got != test.want || inner != test.wantInner {
			t.Errorf("CompressionForPath(%q) = (%q, %q), want (%q, %q)",
				test.path, got, inner, test.want, test.wantInner)
		}
	}
}

func TestDecompressZstd(t *testing.T) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := encoder.EncodeAll([]byte(compressSample), nil)
	encoder.Close()

	got, err := Decompress(CompressionZstd, compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(got) != compressSample {
		t.Errorf("Decompress = %q, want %q", got, compressSample)
	}
}

func TestDecompressLZ4Frame(t *testing.T) {
	var compressed bytes.Buffer
	writer := lz4.NewWriter(&compressed)
	if _, err := writer.Write([]byte(compressSample)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := Decompress(CompressionLZ4, compressed.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(got) != compressSample {
		t.Errorf("Decompress = %q, want %q", got, compressSample)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	for _, compression := range []Compression{CompressionZstd, CompressionLZ4} {
		if _, err := Decompress(compression, []byte("not compressed")); err == nil {
			t.Errorf("Decompress(%s) of plain text succeeded", compression)
		}
	}
}
