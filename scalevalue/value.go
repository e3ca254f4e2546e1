// Package scalevalue is the tagged universe of decoded values: the
// output shape every successful decode produces, mirroring the type
// definition set one-for-one (composite, variant, sequence, bit
// sequence, primitive).
package scalevalue

// Kind tags which field of a Value is populated.
type Kind uint8

const (
	KindComposite Kind = iota
	KindVariant
	KindSequence
	KindBitSequence
	KindPrimitive
)

// Value is produced only by the decoder and is then owned by the
// caller. Equality between two Values is structural (reflect.DeepEqual
// over the populated fields), matching spec's data-model invariant.
type Value struct {
	Kind        Kind
	Composite   *Composite
	Variant     *Variant
	Sequence    []Value
	BitSequence *BitSequence
	Primitive   *Primitive
}

// Field is one element of a composite: Name is nil for an unnamed
// (tuple-shaped) field.
type Field struct {
	Name  *string
	Value Value
}

// Composite is a named or unnamed field sequence. Named is true only
// when every field carries a name; a composite is never a mix of named
// and unnamed fields, matching how metadata declares fields.
type Composite struct {
	Named  bool
	Fields []Field
}

// Variant is one discriminated case of a variant type, together with
// its decoded fields rendered the same way a composite's are.
type Variant struct {
	Name   string
	Fields Composite
}

// BitSequence is a packed bit array of an exact declared length.
type BitSequence struct {
	Lsb0 bool
	Bits []bool
}

func NewComposite(named bool, fields []Field) Value {
	return Value{Kind: KindComposite, Composite: &Composite{Named: named, Fields: fields}}
}

func NewVariant(name string, fields Composite) Value {
	return Value{Kind: KindVariant, Variant: &Variant{Name: name, Fields: fields}}
}

func NewSequence(elements []Value) Value {
	if elements == nil {
		elements = []Value{}
	}
	return Value{Kind: KindSequence, Sequence: elements}
}

func NewBitSequence(lsb0 bool, bits []bool) Value {
	return Value{Kind: KindBitSequence, BitSequence: &BitSequence{Lsb0: lsb0, Bits: bits}}
}

func NewPrimitive(p Primitive) Value {
	return Value{Kind: KindPrimitive, Primitive: &p}
}

// Name returns ptr-to-string helper, used pervasively when building
// Field literals in tests and in the decoder.
func Name(s string) *string {
	return &s
}

// UnnamedFields builds a []Field with no names, for tuple/array-shaped
// composites.
func UnnamedFields(values ...Value) []Field {
	fields := make([]Field, len(values))
	for i, v := range values {
		fields[i] = Field{Value: v}
	}
	return fields
}

