package decoder

import (
	"fmt"

	"github.com/substrate-tools/scale-decode/typeregistry"
)

// VariantNotFound is returned when a variant type's wire discriminant
// byte does not match any declared VariantCase.
type VariantNotFound struct {
	TypeID       typeregistry.TypeID
	Discriminant uint8
}

func (e VariantNotFound) Error() string {
	return fmt.Sprintf("type %d has no variant with discriminant %d", e.TypeID, e.Discriminant)
}

// InvalidBool is returned when a bool-typed byte is neither 0 nor 1.
type InvalidBool struct {
	Got byte
}

func (e InvalidBool) Error() string {
	return fmt.Sprintf("invalid bool byte 0x%02x, must be 0x00 or 0x01", e.Got)
}

// InvalidChar is returned when a char-typed u32 codepoint is not a
// valid Unicode scalar value.
type InvalidChar struct {
	Codepoint uint32
}

func (e InvalidChar) Error() string {
	return fmt.Sprintf("invalid char codepoint %d", e.Codepoint)
}

// InvalidUtf8 is returned when a str-typed byte run is not valid UTF-8.
type InvalidUtf8 struct {
	Length int
}

func (e InvalidUtf8) Error() string {
	return fmt.Sprintf("invalid utf-8 in str of length %d", e.Length)
}

// UnsupportedTypeDefinition is returned when a Definition's Kind does
// not match any case this decoder knows how to walk.
type UnsupportedTypeDefinition struct {
	TypeID typeregistry.TypeID
	Kind   typeregistry.DefKind
}

func (e UnsupportedTypeDefinition) Error() string {
	return fmt.Sprintf("type %d has unsupported definition kind %d", e.TypeID, e.Kind)
}
