package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/substrate-tools/scale-decode/cursor"
	"github.com/substrate-tools/scale-decode/decoder"
	"github.com/substrate-tools/scale-decode/scalevalue"
	"github.com/substrate-tools/scale-decode/typeregistry"
)

func registryWithPrimitive(id typeregistry.TypeID, kind scalevalue.PrimitiveKind) *typeregistry.Registry {
	r := typeregistry.New(int(id) + 1)
	r.Insert(id, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: kind})
	return r
}

func TestDecodeBoolTrueAndFalse(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveBool)

	v, err := decoder.Decode(0, cursor.New([]byte{0x01}), r)
	require.NoError(t, err)
	require.True(t, v.Primitive.BoolValue)

	v, err = decoder.Decode(0, cursor.New([]byte{0x00}), r)
	require.NoError(t, err)
	require.False(t, v.Primitive.BoolValue)
}

func TestDecodeInvalidBoolByte(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveBool)
	_, err := decoder.Decode(0, cursor.New([]byte{0x02}), r)
	require.Error(t, err)
	var invalid decoder.InvalidBool
	require.ErrorAs(t, err, &invalid)
}

func TestDecodeChar(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveChar)
	// 'A' = U+0041
	v, err := decoder.Decode(0, cursor.New([]byte{0x41, 0x00, 0x00, 0x00}), r)
	require.NoError(t, err)
	require.Equal(t, 'A', v.Primitive.CharValue)
}

func TestDecodeInvalidCharSurrogate(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveChar)
	// U+D800 is a lone surrogate half, not a valid scalar value.
	_, err := decoder.Decode(0, cursor.New([]byte{0x00, 0xd8, 0x00, 0x00}), r)
	require.Error(t, err)
	var invalid decoder.InvalidChar
	require.ErrorAs(t, err, &invalid)
}

func TestDecodeStr(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveStr)
	// compact length 5, "hello"
	v, err := decoder.Decode(0, cursor.New([]byte{0x14, 'h', 'e', 'l', 'l', 'o'}), r)
	require.NoError(t, err)
	require.Equal(t, "hello", v.Primitive.StrValue)
}

func TestDecodeStrInvalidUtf8(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveStr)
	// compact length 1, followed by one byte that is not valid UTF-8 on
	// its own.
	v, err := decoder.Decode(0, cursor.New([]byte{0x04, 0xff}), r)
	_ = v
	require.Error(t, err)
	var invalid decoder.InvalidUtf8
	require.ErrorAs(t, err, &invalid)
}

func TestDecodeU128LargeValue(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveU128)
	raw := make([]byte, 16)
	raw[15] = 0x01 // most significant byte set -> 2^120
	v, err := decoder.Decode(0, cursor.New(raw), r)
	require.NoError(t, err)
	require.Equal(t, "1329227995784915872903807060280344576", v.Primitive.BigInt().String())
}

func TestDecodeI64Negative(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveI64)
	raw := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff} // -1
	v, err := decoder.Decode(0, cursor.New(raw), r)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.Primitive.BigInt().Int64())
}

func TestDecodeI128Negative(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveI128)
	raw := make([]byte, 16)
	for i := range raw {
		raw[i] = 0xff
	}
	v, err := decoder.Decode(0, cursor.New(raw), r)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.Primitive.BigInt().Int64())
}

func TestDecodeI256BytesPreservedVerbatim(t *testing.T) {
	r := registryWithPrimitive(0, scalevalue.PrimitiveI256)
	raw := make([]byte, 32)
	raw[0] = 0x2a
	v, err := decoder.Decode(0, cursor.New(raw), r)
	require.NoError(t, err)
	require.Equal(t, raw, v.Primitive.Bytes)
}

func TestDecodeEmptyComposite(t *testing.T) {
	r := typeregistry.New(1)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefComposite, Fields: nil})

	v, err := decoder.Decode(0, cursor.New(nil), r)
	require.NoError(t, err)
	require.Empty(t, v.Composite.Fields)
}

func TestDecodeSingleFieldComposite(t *testing.T) {
	r := typeregistry.New(2)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU8})
	r.Insert(1, &typeregistry.Definition{
		Kind:   typeregistry.DefComposite,
		Fields: []typeregistry.Field{{Name: scalevalue.Name("n"), Type: 0}},
	})

	v, err := decoder.Decode(1, cursor.New([]byte{0x2a}), r)
	require.NoError(t, err)
	require.True(t, v.Composite.Named)
	require.EqualValues(t, 0x2a, v.Composite.Fields[0].Value.Primitive.Int.Uint64())
}

func TestDecodeDeeplyNestedComposite(t *testing.T) {
	r := typeregistry.New(4)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU8})
	r.Insert(1, &typeregistry.Definition{
		Kind:   typeregistry.DefComposite,
		Fields: []typeregistry.Field{{Name: scalevalue.Name("leaf"), Type: 0}},
	})
	r.Insert(2, &typeregistry.Definition{
		Kind:   typeregistry.DefComposite,
		Fields: []typeregistry.Field{{Name: scalevalue.Name("mid"), Type: 1}},
	})
	r.Insert(3, &typeregistry.Definition{
		Kind:   typeregistry.DefComposite,
		Fields: []typeregistry.Field{{Name: scalevalue.Name("top"), Type: 2}},
	})

	v, err := decoder.Decode(3, cursor.New([]byte{0x09}), r)
	require.NoError(t, err)
	inner := v.Composite.Fields[0].Value.Composite.Fields[0].Value.Composite.Fields[0].Value
	require.EqualValues(t, 9, inner.Primitive.Int.Uint64())
}

func TestDecodeVariantWithNonDenseDiscriminants(t *testing.T) {
	r := typeregistry.New(1)
	r.Insert(0, &typeregistry.Definition{
		Kind: typeregistry.DefVariant,
		Variants: []typeregistry.VariantCase{
			{Discriminant: 3, Name: "Low"},
			{Discriminant: 250, Name: "High"},
		},
	})

	v, err := decoder.Decode(0, cursor.New([]byte{250}), r)
	require.NoError(t, err)
	require.Equal(t, "High", v.Variant.Name)
}

func TestDecodeVariantUnknownDiscriminantFails(t *testing.T) {
	r := typeregistry.New(1)
	r.Insert(0, &typeregistry.Definition{
		Kind: typeregistry.DefVariant,
		Variants: []typeregistry.VariantCase{
			{Discriminant: 3, Name: "Low"},
		},
	})

	_, err := decoder.Decode(0, cursor.New([]byte{9}), r)
	require.Error(t, err)
	var notFound decoder.VariantNotFound
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, uint8(9), notFound.Discriminant)
}

func TestDecodeSequenceOfPrimitives(t *testing.T) {
	r := typeregistry.New(2)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU8})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefSequence, Element: 0})

	// compact length 3, then 3 u8 values
	v, err := decoder.Decode(1, cursor.New([]byte{0x0c, 1, 2, 3}), r)
	require.NoError(t, err)
	require.Len(t, v.Sequence, 3)
	require.EqualValues(t, 2, v.Sequence[1].Primitive.Int.Uint64())
}

func TestDecodeFixedArrayHasNoLengthPrefix(t *testing.T) {
	r := typeregistry.New(2)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU8})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefArray, Element: 0, ArrayLen: 3})

	v, err := decoder.Decode(1, cursor.New([]byte{7, 8, 9}), r)
	require.NoError(t, err)
	require.Len(t, v.Sequence, 3)
	require.EqualValues(t, 9, v.Sequence[2].Primitive.Int.Uint64())
}

func TestDecodeCompactPeelsAndRewrapsAsPrimitive(t *testing.T) {
	r := typeregistry.New(2)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU32})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefCompact, Element: 0})

	v, err := decoder.Decode(1, cursor.New([]byte{0b11111100}), r) // compact-encoded 63
	require.NoError(t, err)
	require.Equal(t, scalevalue.KindPrimitive, v.Kind)
	require.Equal(t, scalevalue.PrimitiveU32, v.Primitive.Kind)
	require.EqualValues(t, 63, v.Primitive.Int.Uint64())
}

func TestDecodeCompactPeelsSingleFieldUnnamedCompositeWrapper(t *testing.T) {
	r := typeregistry.New(3)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU32})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefComposite, Fields: []typeregistry.Field{{Type: 0}}})
	r.Insert(2, &typeregistry.Definition{Kind: typeregistry.DefCompact, Element: 1})

	// compact-encoded 1234 in two-byte mode; the Compact type wraps a
	// single-field unnamed composite newtype around the u32.
	v, err := decoder.Decode(2, cursor.New([]byte{0x49, 0x13}), r)
	require.NoError(t, err)
	require.Equal(t, scalevalue.KindComposite, v.Kind)
	require.False(t, v.Composite.Named)
	require.Len(t, v.Composite.Fields, 1)
	require.Equal(t, scalevalue.PrimitiveU32, v.Composite.Fields[0].Value.Primitive.Kind)
	require.EqualValues(t, 1234, v.Composite.Fields[0].Value.Primitive.Int.Uint64())
}

func TestDecodeCompactPeelsNestedTupleAndCompositeWrappers(t *testing.T) {
	r := typeregistry.New(4)
	r.Insert(0, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU32})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefTuple, Fields: []typeregistry.Field{{Type: 0}}})
	r.Insert(2, &typeregistry.Definition{Kind: typeregistry.DefComposite, Fields: []typeregistry.Field{{Type: 1}}})
	r.Insert(3, &typeregistry.Definition{Kind: typeregistry.DefCompact, Element: 2})

	v, err := decoder.Decode(3, cursor.New([]byte{0b11111100}), r) // compact-encoded 63
	require.NoError(t, err)
	require.Equal(t, scalevalue.KindComposite, v.Kind)
	require.Len(t, v.Composite.Fields, 1)

	tuple := v.Composite.Fields[0].Value
	require.Equal(t, scalevalue.KindComposite, tuple.Kind)
	require.Len(t, tuple.Composite.Fields, 1)
	require.EqualValues(t, 63, tuple.Composite.Fields[0].Value.Primitive.Int.Uint64())
}

func TestDecodeBitSequenceLsb0(t *testing.T) {
	r := typeregistry.New(2)
	r.Insert(0, &typeregistry.Definition{Path: []string{"Lsb0"}})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefBitSequence, BitOrder: 0})

	// compact length 4 bits, then one byte 0b00000101 -> bits [true,false,true,false] in lsb0 order
	v, err := decoder.Decode(1, cursor.New([]byte{0x10, 0b00000101}), r)
	require.NoError(t, err)
	require.True(t, v.BitSequence.Lsb0)
	require.Equal(t, []bool{true, false, true, false}, v.BitSequence.Bits)
}

func TestDecodeBitSequenceMsb0(t *testing.T) {
	r := typeregistry.New(2)
	r.Insert(0, &typeregistry.Definition{Path: []string{"Msb0"}})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefBitSequence, BitOrder: 0})

	v, err := decoder.Decode(1, cursor.New([]byte{0x10, 0b10100000}), r)
	require.NoError(t, err)
	require.False(t, v.BitSequence.Lsb0)
	require.Equal(t, []bool{true, false, true, false}, v.BitSequence.Bits)
}

func TestDecodeBitSequenceWithU32StoreWidth(t *testing.T) {
	r := typeregistry.New(3)
	r.Insert(0, &typeregistry.Definition{Path: []string{"Lsb0"}})
	r.Insert(1, &typeregistry.Definition{Kind: typeregistry.DefPrimitive, Primitive: scalevalue.PrimitiveU32})
	r.Insert(2, &typeregistry.Definition{Kind: typeregistry.DefBitSequence, BitOrder: 0, BitStore: 1})

	// compact length 20 bits, then one u32 store word (4 LE bytes)
	// holding bits 0, 2, 4, ..., 18 set. A byte-addressed read would
	// under-read this (ceil(20/8) = 3 bytes) and misalign whatever
	// follows.
	body := []byte{0x50, 0x55, 0x55, 0x05, 0x00}

	v, err := decoder.Decode(2, cursor.New(body), r)
	require.NoError(t, err)
	require.True(t, v.BitSequence.Lsb0)

	expected := make([]bool, 20)
	for i := range expected {
		expected[i] = i%2 == 0
	}
	require.Equal(t, expected, v.BitSequence.Bits)
}

func TestDecodeUnknownTypeIDFails(t *testing.T) {
	r := typeregistry.New(1)
	_, err := decoder.Decode(5, cursor.New(nil), r)
	require.Error(t, err)
	var notFound typeregistry.TypeNotFound
	require.ErrorAs(t, err, &notFound)
}
