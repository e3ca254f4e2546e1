package scalevalue_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/substrate-tools/scale-decode/scalevalue"
)

func TestNamedCompositeRoundTrips(t *testing.T) {
	v := scalevalue.NewComposite(true, []scalevalue.Field{
		{Name: scalevalue.Name("id"), Value: scalevalue.NewPrimitive(scalevalue.UintN(scalevalue.PrimitiveU32, 7))},
		{Name: scalevalue.Name("active"), Value: scalevalue.NewPrimitive(scalevalue.Bool(true))},
	})

	require.Equal(t, scalevalue.KindComposite, v.Kind)
	require.True(t, v.Composite.Named)
	require.Len(t, v.Composite.Fields, 2)
	require.Equal(t, "id", *v.Composite.Fields[0].Name)
	require.EqualValues(t, 7, v.Composite.Fields[0].Value.Primitive.Int.Uint64())
}

func TestUnnamedCompositeHasNilNames(t *testing.T) {
	v := scalevalue.NewComposite(false, scalevalue.UnnamedFields(
		scalevalue.NewPrimitive(scalevalue.UintN(scalevalue.PrimitiveU8, 1)),
		scalevalue.NewPrimitive(scalevalue.UintN(scalevalue.PrimitiveU8, 2)),
	))

	require.False(t, v.Composite.Named)
	for _, f := range v.Composite.Fields {
		require.Nil(t, f.Name)
	}
}

func TestVariantStructuralEquality(t *testing.T) {
	a := scalevalue.NewVariant("Transfer", scalevalue.Composite{
		Named: true,
		Fields: []scalevalue.Field{
			{Name: scalevalue.Name("amount"), Value: scalevalue.NewPrimitive(scalevalue.UintN(scalevalue.PrimitiveU64, 1000))},
		},
	})
	b := scalevalue.NewVariant("Transfer", scalevalue.Composite{
		Named: true,
		Fields: []scalevalue.Field{
			{Name: scalevalue.Name("amount"), Value: scalevalue.NewPrimitive(scalevalue.UintN(scalevalue.PrimitiveU64, 1000))},
		},
	})
	require.Equal(t, a, b)
}

func TestEmptySequenceIsNotNil(t *testing.T) {
	v := scalevalue.NewSequence(nil)
	require.NotNil(t, v.Sequence)
	require.Empty(t, v.Sequence)
}

func TestBitSequencePreservesOrderAndBits(t *testing.T) {
	v := scalevalue.NewBitSequence(true, []bool{true, false, true})
	require.Equal(t, scalevalue.KindBitSequence, v.Kind)
	require.True(t, v.BitSequence.Lsb0)
	require.Equal(t, []bool{true, false, true}, v.BitSequence.Bits)
}

func TestPrimitiveBigIntForNarrowKinds(t *testing.T) {
	p := scalevalue.IntN(scalevalue.PrimitiveI32, -42)
	require.Equal(t, big.NewInt(-42), p.BigInt())
}

func TestPrimitiveBigIntForU256FromLittleEndianBytes(t *testing.T) {
	var raw [32]byte
	raw[0] = 0x01 // least-significant byte set -> value 1
	p := scalevalue.U256LE(raw)
	require.Equal(t, big.NewInt(1), p.BigInt())
}

func TestPrimitiveBigIntForU256LargeValue(t *testing.T) {
	var raw [32]byte
	raw[31] = 0x01 // most-significant byte set -> value 2^248
	p := scalevalue.U256LE(raw)
	want := new(big.Int).Lsh(big.NewInt(1), 248)
	require.Equal(t, want, p.BigInt())
}

func TestPrimitiveKindString(t *testing.T) {
	require.Equal(t, "u128", scalevalue.PrimitiveU128.String())
	require.Equal(t, "i256", scalevalue.PrimitiveI256.String())
	require.Equal(t, "bool", scalevalue.PrimitiveBool.String())
}
