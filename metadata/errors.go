package metadata

import (
	"fmt"

	"github.com/substrate-tools/scale-decode/typeregistry"
)

// BadMagic is returned when a blob does not start with the expected
// 4-byte "meta" literal.
type BadMagic struct {
	Got [4]byte
}

func (e BadMagic) Error() string {
	return fmt.Sprintf("bad metadata magic: got %q, want %q", e.Got[:], Magic[:])
}

// UnsupportedVersion is returned when a blob's version byte is not
// SupportedVersion.
type UnsupportedVersion struct {
	Got uint8
}

func (e UnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported metadata version %d, only %d is supported", e.Got, SupportedVersion)
}

// PalletNotFound is returned when an extrinsic names a pallet index
// absent from the loaded metadata.
type PalletNotFound struct {
	Index uint8
}

func (e PalletNotFound) Error() string {
	return fmt.Sprintf("pallet index %d not found in metadata", e.Index)
}

// CallNotFound is returned when an extrinsic names a call index the
// named pallet does not declare.
type CallNotFound struct {
	PalletName string
	CallIndex  uint8
}

func (e CallNotFound) Error() string {
	return fmt.Sprintf("pallet %q has no call at index %d", e.PalletName, e.CallIndex)
}

// UnsupportedTypeKind is returned by Load when a type record's kind
// byte does not match any known DefKind.
type UnsupportedTypeKind struct {
	Kind typeregistry.DefKind
}

func (e UnsupportedTypeKind) Error() string {
	return fmt.Sprintf("unsupported type definition kind %d", e.Kind)
}
