// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names the outer compression of a listing file, inferred
// from a trailing ".zst" or ".lz4" after the format extension
// ("policies.json.zst").
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// zstdDecoder is shared; zstd.Decoder is safe for concurrent DecodeAll.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// CompressionForPath returns the compression implied by the last
// extension of path, and path with that extension removed.
func CompressionForPath(path string) (Compression, string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return CompressionZstd, strings.TrimSuffix(path, filepath.Ext(path))
	case ".lz4":
		return CompressionLZ4, strings.TrimSuffix(path, filepath.Ext(path))
	default:
		return CompressionNone, path
	}
}

// Decompress undoes compression. LZ4 input is in the frame format
// written by the lz4 command-line tool.
func Decompress(compression Compression, data []byte) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		decoded, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return decoded, nil
	case CompressionLZ4:
		decoded, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
}
