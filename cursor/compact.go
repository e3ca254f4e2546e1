package cursor

import "math/big"

// compact mode tags, packed in the low two bits of the first byte.
const (
	modeSingleByte = 0b00
	modeTwoByte    = 0b01
	modeFourByte   = 0b10
	modeBigInt     = 0b11
)

// ReadCompactBigUint decodes one SCALE-style compact unsigned integer and
// returns its value. The big-integer mode (minimum 4 trailing bytes) is accepted
// without an upper bound; overflow checks against a declared width are
// the caller's responsibility (see ReadCompactU32).
//
// Both minimal and non-minimal (longer than necessary) encodings are
// accepted for every mode, per the non-canonical-encoding open question:
// on-chain data has historically included non-minimal compacts and this
// decoder does not reject them.
func (c *Cursor) ReadCompactBigUint() (*big.Int, error) {
	b0, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	switch b0 & 0x03 {
	case modeSingleByte:
		return big.NewInt(int64(b0 >> 2)), nil

	case modeTwoByte:
		b1, err := c.ReadByte()
		if err != nil {
			return nil, err
		}
		v := uint16(b0) | uint16(b1)<<8
		return big.NewInt(int64(v >> 2)), nil

	case modeFourByte:
		rest, err := c.ReadFixed(3)
		if err != nil {
			return nil, err
		}
		v := uint32(b0) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
		return new(big.Int).SetUint64(uint64(v >> 2)), nil

	default: // modeBigInt
		numBytes := int(b0>>2) + 4
		raw, err := c.ReadFixed(numBytes)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetBytes(reverseBytes(raw)), nil
	}
}

// ReadCompactU32 decodes a compact integer and requires it to fit in 32
// bits, failing CompactOverflow otherwise. This is the width used for
// sequence/array-length prefixes and for type ids.
func (c *Cursor) ReadCompactU32() (uint32, error) {
	before := c.pos
	v, err := c.ReadCompactBigUint()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > math32Max {
		return 0, CompactOverflow{DeclaredWidth: 32, ValueBytes: c.buf[before:c.pos]}
	}
	return uint32(v.Uint64()), nil
}

const math32Max = 1<<32 - 1

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
