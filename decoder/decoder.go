// Package decoder implements the single recursive, type-directed
// value decoder every other decode operation in this module bottoms
// out in: given a type id, a registry to resolve it against, and a
// cursor positioned at its encoding, produce the scalevalue.Value the
// bytes represent.
package decoder

import (
	"math/big"
	"unicode/utf8"

	"github.com/substrate-tools/scale-decode/cursor"
	"github.com/substrate-tools/scale-decode/scalevalue"
	"github.com/substrate-tools/scale-decode/typeregistry"
)

// Decode reads one value of type id from c, resolving nested types
// through registry as it recurses. It never wraps the same cursor call
// twice for the same bytes: each field, element, or variant payload is
// decoded exactly once, consuming exactly its own encoding.
func Decode(id typeregistry.TypeID, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	def, err := registry.Resolve(id)
	if err != nil {
		return scalevalue.Value{}, err
	}

	switch def.Kind {
	case typeregistry.DefComposite, typeregistry.DefTuple:
		return decodeComposite(def, c, registry)

	case typeregistry.DefVariant:
		return decodeVariant(id, def, c, registry)

	case typeregistry.DefSequence:
		return decodeSequence(def, c, registry)

	case typeregistry.DefArray:
		return decodeArray(def, c, registry)

	case typeregistry.DefCompact:
		return decodeCompact(def, c, registry)

	case typeregistry.DefPrimitive:
		return decodePrimitive(def.Primitive, c)

	case typeregistry.DefBitSequence:
		return decodeBitSequence(def, c, registry)

	default:
		return scalevalue.Value{}, UnsupportedTypeDefinition{TypeID: id, Kind: def.Kind}
	}
}

func decodeComposite(def *typeregistry.Definition, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	named := len(def.Fields) > 0
	fields := make([]scalevalue.Field, len(def.Fields))
	for i, f := range def.Fields {
		if f.Name == nil {
			named = false
		}
		v, err := Decode(f.Type, c, registry)
		if err != nil {
			return scalevalue.Value{}, err
		}
		fields[i] = scalevalue.Field{Name: f.Name, Value: v}
	}
	return scalevalue.NewComposite(named, fields), nil
}

func decodeVariant(id typeregistry.TypeID, def *typeregistry.Definition, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	disc, err := c.ReadByte()
	if err != nil {
		return scalevalue.Value{}, err
	}

	var chosen *typeregistry.VariantCase
	for i := range def.Variants {
		if def.Variants[i].Discriminant == disc {
			chosen = &def.Variants[i]
			break
		}
	}
	if chosen == nil {
		return scalevalue.Value{}, VariantNotFound{TypeID: id, Discriminant: disc}
	}

	named := len(chosen.Fields) > 0
	fields := make([]scalevalue.Field, len(chosen.Fields))
	for i, f := range chosen.Fields {
		if f.Name == nil {
			named = false
		}
		v, err := Decode(f.Type, c, registry)
		if err != nil {
			return scalevalue.Value{}, err
		}
		fields[i] = scalevalue.Field{Name: f.Name, Value: v}
	}

	return scalevalue.NewVariant(chosen.Name, scalevalue.Composite{Named: named, Fields: fields}), nil
}

func decodeSequence(def *typeregistry.Definition, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	n, err := c.ReadCompactU32()
	if err != nil {
		return scalevalue.Value{}, err
	}
	elements := make([]scalevalue.Value, n)
	for i := range elements {
		v, err := Decode(def.Element, c, registry)
		if err != nil {
			return scalevalue.Value{}, err
		}
		elements[i] = v
	}
	return scalevalue.NewSequence(elements), nil
}

func decodeArray(def *typeregistry.Definition, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	elements := make([]scalevalue.Value, def.ArrayLen)
	for i := range elements {
		v, err := Decode(def.Element, c, registry)
		if err != nil {
			return scalevalue.Value{}, err
		}
		elements[i] = v
	}
	return scalevalue.NewSequence(elements), nil
}

// decodeCompact peels the compact-encoded integer off the wire and
// rewraps it as a Primitive of the wrapped element's own kind, so a
// Compact<u32> field and a plain u32 field produce structurally
// identical values once decoded. The element is allowed to be a
// "compact-wrapped struct": a chain of single-field unnamed composites
// or single-element tuples sitting between the Compact type and the
// actual primitive (e.g. Compact<Struct(u32)>). Each peeled layer is
// restored around the decoded primitive in the same order it was
// peeled off.
func decodeCompact(def *typeregistry.Definition, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	elementID := def.Element
	elementDef, err := registry.Resolve(elementID)
	if err != nil {
		return scalevalue.Value{}, err
	}

	var wrapperLayers int
	for elementDef.Kind == typeregistry.DefComposite || elementDef.Kind == typeregistry.DefTuple {
		if len(elementDef.Fields) != 1 {
			break
		}
		if elementDef.Kind == typeregistry.DefComposite && elementDef.Fields[0].Name != nil {
			break
		}
		elementID = elementDef.Fields[0].Type
		elementDef, err = registry.Resolve(elementID)
		if err != nil {
			return scalevalue.Value{}, err
		}
		wrapperLayers++
	}

	if elementDef.Kind != typeregistry.DefPrimitive {
		return scalevalue.Value{}, UnsupportedTypeDefinition{TypeID: elementID, Kind: elementDef.Kind}
	}

	v, err := c.ReadCompactBigUint()
	if err != nil {
		return scalevalue.Value{}, err
	}
	// The unsigned kinds U8..U256 are declared consecutively, each twice
	// as wide as the one before it.
	if k := elementDef.Primitive; k >= scalevalue.PrimitiveU8 && k <= scalevalue.PrimitiveU256 {
		if width := 8 << (k - scalevalue.PrimitiveU8); v.BitLen() > width {
			return scalevalue.Value{}, cursor.CompactOverflow{DeclaredWidth: width, ValueBytes: v.Bytes()}
		}
	}

	value :=scalevalue.NewPrimitive(scalevalue.BigUint(elementDef.Primitive, v))
	for i := 0; i < wrapperLayers; i++ {
		value = scalevalue.NewComposite(false, scalevalue.UnnamedFields(value))
	}
	return value, nil
}

func decodePrimitive(kind scalevalue.PrimitiveKind, c *cursor.Cursor) (scalevalue.Value, error) {
	switch kind {
	case scalevalue.PrimitiveBool:
		b, err := c.ReadByte()
		if err != nil {
			return scalevalue.Value{}, err
		}
		switch b {
		case 0:
			return scalevalue.NewPrimitive(scalevalue.Bool(false)), nil
		case 1:
			return scalevalue.NewPrimitive(scalevalue.Bool(true)), nil
		default:
			return scalevalue.Value{}, InvalidBool{Got: b}
		}

	case scalevalue.PrimitiveChar:
		cp, err := c.ReadUint32LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		r := rune(cp)
		if cp > utf8.MaxRune || !utf8.ValidRune(r) {
			return scalevalue.Value{}, InvalidChar{Codepoint: cp}
		}
		return scalevalue.NewPrimitive(scalevalue.Char(r)), nil

	case scalevalue.PrimitiveStr:
		n, err := c.ReadCompactU32()
		if err != nil {
			return scalevalue.Value{}, err
		}
		raw, err := c.ReadFixed(int(n))
		if err != nil {
			return scalevalue.Value{}, err
		}
		if !utf8.Valid(raw) {
			return scalevalue.Value{}, InvalidUtf8{Length: len(raw)}
		}
		return scalevalue.NewPrimitive(scalevalue.Str(string(raw))), nil

	case scalevalue.PrimitiveU8:
		b, err := c.ReadByte()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.UintN(kind, uint64(b))), nil

	case scalevalue.PrimitiveU16:
		v, err := c.ReadUint16LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.UintN(kind, uint64(v))), nil

	case scalevalue.PrimitiveU32:
		v, err := c.ReadUint32LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.UintN(kind, uint64(v))), nil

	case scalevalue.PrimitiveU64:
		v, err := c.ReadUint64LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.UintN(kind, v)), nil

	case scalevalue.PrimitiveU128:
		raw, err := c.ReadUint128LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.BigUint(kind, unsignedBigIntFromLE(raw))), nil

	case scalevalue.PrimitiveU256:
		raw, err := c.ReadFixed(32)
		if err != nil {
			return scalevalue.Value{}, err
		}
		var arr [32]byte
		copy(arr[:], raw)
		return scalevalue.NewPrimitive(scalevalue.U256LE(arr)), nil

	case scalevalue.PrimitiveI8:
		b, err := c.ReadByte()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.IntN(kind, int64(int8(b)))), nil

	case scalevalue.PrimitiveI16:
		v, err := c.ReadUint16LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.IntN(kind, int64(int16(v)))), nil

	case scalevalue.PrimitiveI32:
		v, err := c.ReadUint32LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.IntN(kind, int64(int32(v)))), nil

	case scalevalue.PrimitiveI64:
		v, err := c.ReadUint64LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.IntN(kind, int64(v))), nil

	case scalevalue.PrimitiveI128:
		raw, err := c.ReadUint128LE()
		if err != nil {
			return scalevalue.Value{}, err
		}
		return scalevalue.NewPrimitive(scalevalue.BigUint(kind, signedBigIntFromLE(raw))), nil

	case scalevalue.PrimitiveI256:
		raw, err := c.ReadFixed(32)
		if err != nil {
			return scalevalue.Value{}, err
		}
		var arr [32]byte
		copy(arr[:], raw)
		return scalevalue.NewPrimitive(scalevalue.I256LE(arr)), nil

	default:
		return scalevalue.Value{}, UnsupportedTypeDefinition{Kind: typeregistry.DefPrimitive}
	}
}

func decodeBitSequence(def *typeregistry.Definition, c *cursor.Cursor, registry *typeregistry.Registry) (scalevalue.Value, error) {
	n, err := c.ReadCompactU32()
	if err != nil {
		return scalevalue.Value{}, err
	}

	wordBits := bitStoreWordBits(def.BitStore, registry)
	numWords := (int(n) + wordBits - 1) / wordBits
	numBytes := numWords * (wordBits / 8)
	raw, err := c.ReadFixed(numBytes)
	if err != nil {
		return scalevalue.Value{}, err
	}

	lsb0 := true
	if orderDef, err := registry.Resolve(def.BitOrder); err == nil {
		lsb0 = bitOrderIsLsb0(orderDef)
	}

	wordBytes := wordBits / 8
	bits := make([]bool, n)
	for i := uint32(0); i < n; i++ {
		wordIdx := int(i) / wordBits
		bitInWord := uint(int(i) % wordBits)

		word := uint64(0)
		for b := 0; b < wordBytes; b++ {
			word |= uint64(raw[wordIdx*wordBytes+b]) << (8 * uint(b))
		}

		var mask uint64
		if lsb0 {
			mask = 1 << bitInWord
		} else {
			mask = 1 << (uint(wordBits) - 1 - bitInWord)
		}
		bits[i] = word&mask != 0
	}

	return scalevalue.NewBitSequence(lsb0, bits), nil
}

// bitStoreWordBits resolves a BitSequence's declared store type to the
// bit width of the storage word used when packing bits, per the
// bitvec convention of reading ceil(bitCount/wordBits) store words
// rather than raw bytes. Falls back to 8 (byte-addressed) when the
// store type cannot be resolved to a known unsigned primitive.
func bitStoreWordBits(id typeregistry.TypeID, registry *typeregistry.Registry) int {
	storeDef, err := registry.Resolve(id)
	if err != nil || storeDef.Kind != typeregistry.DefPrimitive {
		return 8
	}
	switch storeDef.Primitive {
	case scalevalue.PrimitiveU16:
		return 16
	case scalevalue.PrimitiveU32:
		return 32
	case scalevalue.PrimitiveU64:
		return 64
	default:
		return 8
	}
}

func bitOrderIsLsb0(def *typeregistry.Definition) bool {
	for _, p := range def.Path {
		if p == "Msb0" {
			return false
		}
	}
	return true
}

func unsignedBigIntFromLE(buf []byte) *big.Int {
	be := make([]byte, len(buf))
	for i, b := range buf {
		be[len(buf)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// signedBigIntFromLE interprets buf (little-endian) as a two's
// complement signed integer of len(buf)*8 bits.
func signedBigIntFromLE(buf []byte) *big.Int {
	v := unsignedBigIntFromLE(buf)
	bits := uint(len(buf) * 8)
	signBit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if v.Cmp(signBit) >= 0 {
		modulus := new(big.Int).Lsh(big.NewInt(1), bits)
		v.Sub(v, modulus)
	}
	return v
}
