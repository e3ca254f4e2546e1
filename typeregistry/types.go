// Package typeregistry holds the flat, index-addressed table of type
// definitions a decoded metadata blob declares, the same way it is laid
// out on the wire: every type is referenced by a small integer id
// rather than by name, and definitions refer to each other only
// through those ids.
package typeregistry

import "github.com/substrate-tools/scale-decode/scalevalue"

// TypeID addresses one entry in a Registry.
type TypeID uint32

// DefKind tags which shape a Definition takes.
type DefKind uint8

const (
	DefComposite DefKind = iota
	DefVariant
	DefSequence
	DefArray
	DefTuple
	DefPrimitive
	DefCompact
	DefBitSequence
)

// Field describes one composite field: Name is nil for a tuple-shaped
// (unnamed) field, Type points at the field's own type definition.
type Field struct {
	Name *string
	Type TypeID
}

// VariantCase is one arm of a variant type, addressed by its wire
// discriminant byte rather than by its position in the Variants slice
// (discriminants are not required to be dense or sorted).
type VariantCase struct {
	Discriminant uint8
	Name         string
	Fields       []Field
}

// Definition is one entry of a Registry. Only the fields relevant to
// Kind are populated; the rest are left at their zero value.
type Definition struct {
	Kind DefKind

	// DefComposite, DefTuple
	Fields []Field

	// DefVariant
	Variants []VariantCase

	// DefSequence, DefArray, DefCompact: the element/wrapped type.
	Element TypeID

	// DefArray: fixed element count.
	ArrayLen uint32

	// DefPrimitive
	Primitive scalevalue.PrimitiveKind

	// DefBitSequence: the types declaring the bit-store word width and
	// the bit-order (Lsb0 vs Msb0), themselves resolved through the
	// registry the way the rest of metadata's bit-sequence encoding
	// does.
	BitStore TypeID
	BitOrder TypeID

	// Path is the type's declared name path (e.g. ["sp_core", "crypto",
	// "AccountId32"]), used for error rendering and, on a bit-order
	// type, by the decoder to tell Msb0 from Lsb0.
	Path []string
}
