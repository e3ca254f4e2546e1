// Package metadatasrc adapts the raw sources metadata blobs actually
// arrive in — hex-encoded RPC responses, zstd- or gzip-compressed
// archives — into the plain bytes metadata.Load expects.
package metadatasrc

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/substrate-tools/scale-decode/metadata"
)

// FromHex strips an optional "0x" prefix, hex-decodes the remainder,
// and loads it as metadata. This is the shape the `state_getMetadata`
// RPC method returns.
func FromHex(s string) (*metadata.Metadata, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return metadata.Load(raw)
}

// FromZstd decompresses a zstd-compressed metadata blob and loads it.
func FromZstd(compressed []byte) (*metadata.Metadata, error) {
	dec, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	return metadata.Load(raw)
}

// FromGzip decompresses a gzip-compressed metadata blob and loads it.
func FromGzip(compressed []byte) (*metadata.Metadata, error) {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return metadata.Load(raw)
}

// magicGzip and magicZstd are the first bytes of each format's
// container header, used by Detect to tell a compressed blob from a
// raw one without the caller having to know which it is.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect loads raw as metadata, auto-detecting gzip or zstd framing
// and falling back to treating it as an already-decompressed blob.
func Detect(raw []byte) (*metadata.Metadata, error) {
	switch {
	case bytes.HasPrefix(raw, magicGzip):
		return FromGzip(raw)
	case bytes.HasPrefix(raw, magicZstd):
		return FromZstd(raw)
	default:
		return metadata.Load(raw)
	}
}
