// Package extrinsic decodes the outer extrinsic envelope — the signed
// or unsigned wrapper around one pallet call — dispatching through a
// loaded metadata.Metadata down into the shared decoder for every
// field it contains.
package extrinsic

import (
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/cursor"
	"github.com/substrate-tools/scale-decode/decoder"
	"github.com/substrate-tools/scale-decode/metadata"
	"github.com/substrate-tools/scale-decode/scalevalue"
)

const signedBit = 0x80

// Extrinsic is one fully decoded extrinsic: the envelope fields
// (present only when Signed) plus the dispatched call itself.
type Extrinsic struct {
	Version uint8
	Signed  bool

	Address   *scalevalue.Value
	Signature *scalevalue.Value
	Extra     []ExtraField

	PalletName string
	PalletIdx  uint8
	CallName   string
	CallIdx    uint8
	Call       scalevalue.Value
}

// ExtraField is one signed extension's Included value, in the order
// the chain's metadata declares its extension pipeline.
type ExtraField struct {
	Name  string
	Value scalevalue.Value
}

// DecodeUnwrappedExtrinsic decodes body as a bare extrinsic with no
// outer compact length prefix: the shape one gets from, e.g., an RPC
// call that already strips the length. Every byte of body must be
// consumed or TrailingBytes is returned.
func DecodeUnwrappedExtrinsic(body []byte, m *metadata.Metadata) (*Extrinsic, error) {
	c := cursor.New(body)
	ext, err := decodeEnvelope(c, m)
	if err != nil {
		return nil, err
	}
	if c.Remaining() != 0 {
		return nil, TrailingBytes{Remaining: c.Remaining()}
	}
	return ext, nil
}

// DecodeExtrinsic decodes one length-prefixed extrinsic starting at
// raw[0] and returns it along with the bytes left over in raw after
// it, so callers can chain this across a buffer holding several
// extrinsics back to back (see DecodeBlockExtrinsics).
func DecodeExtrinsic(raw []byte, m *metadata.Metadata) (*Extrinsic, []byte, error) {
	outer := cursor.New(raw)
	length, err := outer.ReadCompactU32()
	if err != nil {
		return nil, nil, err
	}
	if outer.Remaining() < int(length) {
		return nil, nil, TrailingBytes{Remaining: outer.Remaining(), Expected: int(length)}
	}
	body, err := outer.ReadFixed(int(length))
	if err != nil {
		return nil, nil, err
	}
	ext, err := DecodeUnwrappedExtrinsic(body, m)
	if err != nil {
		return nil, nil, err
	}
	return ext, raw[outer.Offset():], nil
}

func decodeEnvelope(c *cursor.Cursor, m *metadata.Metadata) (*Extrinsic, error) {
	versionByte, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	signed := versionByte&signedBit != 0
	version := versionByte &^ signedBit
	if version != m.Extrinsic.Version {
		return nil, UnsupportedExtrinsicVersion{Got: version, Want: m.Extrinsic.Version}
	}

	ext := &Extrinsic{Version: version, Signed: signed}

	if signed {
		addr, err := decoder.Decode(m.Extrinsic.AddressType, c, m.Registry)
		if err != nil {
			return nil, err
		}
		ext.Address = &addr

		sig, err := decoder.Decode(m.Extrinsic.SignatureType, c, m.Registry)
		if err != nil {
			return nil, err
		}
		ext.Signature = &sig

		ext.Extra = make([]ExtraField, len(m.Extrinsic.SignedExtensions))
		for i, se := range m.Extrinsic.SignedExtensions {
			v, err := decoder.Decode(se.Included, c, m.Registry)
			if err != nil {
				return nil, err
			}
			ext.Extra[i] = ExtraField{Name: se.Name, Value: v}
		}
	}

	palletIdx, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	callIdx, err := c.ReadByte()
	if err != nil {
		return nil, err
	}

	pallet, variant, err := m.Call(palletIdx, callIdx)
	if err != nil {
		return nil, err
	}

	named := len(variant.Fields) > 0
	fields := make([]scalevalue.Field, len(variant.Fields))
	for i, f := range variant.Fields {
		if f.Name == nil {
			named = false
		}
		v, err := decoder.Decode(f.Type, c, m.Registry)
		if err != nil {
			return nil, err
		}
		fields[i] = scalevalue.Field{Name: f.Name, Value: v}
	}

	ext.PalletName = pallet.Name
	ext.PalletIdx = palletIdx
	ext.CallName = variant.Name
	ext.CallIdx = callIdx
	ext.Call = scalevalue.NewVariant(variant.Name, scalevalue.Composite{Named: named, Fields: fields})

	klog.V(4).InfoS("decoded extrinsic", "pallet", pallet.Name, "call", variant.Name, "signed", signed)

	return ext, nil
}

// BlockSlot is one extrinsic's outcome within DecodeBlockExtrinsics:
// exactly one of Extrinsic or Err is set, matching how a block decode
// lets each extrinsic succeed or fail independently of its neighbors.
type BlockSlot struct {
	Extrinsic *Extrinsic
	Err       error
}

// DecodeBlockExtrinsics decodes a compact-length-prefixed count
// followed by that many length-prefixed extrinsics, the shape a
// block's extrinsics field takes on the wire. Each slot's own compact
// length prefix is what makes slots independent: a decode failure
// inside one extrinsic's body never strands the cursor, since the
// prefix already says exactly how many bytes to skip to reach the
// next one, so one bad extrinsic does not abort its neighbors.
func DecodeBlockExtrinsics(raw []byte, m *metadata.Metadata) ([]BlockSlot, error) {
	c := cursor.New(raw)
	count, err := c.ReadCompactU32()
	if err != nil {
		return nil, err
	}

	slots := make([]BlockSlot, count)
	for i := uint32(0); i < count; i++ {
		length, err := c.ReadCompactU32()
		if err != nil {
			return slots[:i], err
		}
		body, err := c.ReadFixed(int(length))
		if err != nil {
			return slots[:i], err
		}

		ext, decodeErr := DecodeUnwrappedExtrinsic(body, m)
		if decodeErr != nil {
			slots[i] = BlockSlot{Err: decodeErr}
			klog.V(2).ErrorS(decodeErr, "failed to decode extrinsic in block", "index", i)
			continue
		}
		slots[i] = BlockSlot{Extrinsic: ext}
	}
	return slots, nil
}
