// Package cursor provides a bounded, forward-only view over a byte slice:
// fixed-width little-endian integer reads, raw byte runs, and (in
// compact.go) the SCALE-style compact integer codec. It is the single
// place in this module that touches raw offsets; every other package
// reads through it.
package cursor

import "encoding/binary"

// Cursor is a mutable read position over an input slice. It is built
// fresh for each top-level decode call and never shared across calls.
type Cursor struct {
	buf []byte
	pos int
}

// New wraps buf in a Cursor starting at offset 0.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the number of bytes already consumed.
func (c *Cursor) Offset() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) need(n int) error {
	if c.Remaining() < n {
		return UnexpectedEOF{Need: n, Have: c.Remaining(), Offset: c.pos}
	}
	return nil
}

// ReadByte consumes and returns the next byte.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadFixed consumes and returns the next n bytes verbatim. The returned
// slice aliases the cursor's backing array; callers that need to retain
// it beyond the decode call should copy it.
func (c *Cursor) ReadFixed(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUint16LE reads a fixed 2-byte little-endian unsigned integer.
func (c *Cursor) ReadUint16LE() (uint16, error) {
	b, err := c.ReadFixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32LE reads a fixed 4-byte little-endian unsigned integer.
func (c *Cursor) ReadUint32LE() (uint32, error) {
	b, err := c.ReadFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64LE reads a fixed 8-byte little-endian unsigned integer.
func (c *Cursor) ReadUint64LE() (uint64, error) {
	b, err := c.ReadFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadUint128LE reads a fixed 16-byte little-endian block, returned
// verbatim for the caller to interpret (typically via big.Int.SetBytes
// on the byte-reversed form).
func (c *Cursor) ReadUint128LE() ([]byte, error) {
	return c.ReadFixed(16)
}
