// Package metadata models a loaded chain metadata blob: the type
// registry together with the per-pallet call/constant/storage
// descriptors and the extrinsic envelope shape, everything the
// decoder and the extrinsic framer need and nothing they compute for
// themselves.
package metadata

import (
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/typeregistry"
)

// SupportedVersion is the only metadata version this decoder
// understands. Pre-V14 metadata used a hand-maintained JSON type
// dictionary instead of a self-describing registry and is out of
// scope.
const SupportedVersion = 14

// Magic is the 4-byte literal every metadata blob starts with.
var Magic = [4]byte{'m', 'e', 't', 'a'}

// Metadata is the fully resolved, ready-to-decode-against view of one
// chain's metadata blob.
type Metadata struct {
	Registry  *typeregistry.Registry
	Pallets   map[uint8]Pallet
	Extrinsic ExtrinsicDescriptor
}

// Pallet describes one module's dispatchable surface, constants, and
// (optionally) its storage key prefix.
type Pallet struct {
	Index         uint8
	Name          string
	Calls         *CallsDescriptor
	Constants     map[string]Constant
	StoragePrefix *string
}

// CallsDescriptor is a pallet's Call enum together with a direct
// discriminant-to-variant-index map, so dispatching a call byte never
// has to linear scan the variant list.
type CallsDescriptor struct {
	CallsType      typeregistry.TypeID
	ByDiscriminant map[uint8]int
}

// Constant is one pallet constant: its declared type and the raw
// SCALE-encoded bytes of its value, left undecoded until a caller asks
// for it (most callers never do).
type Constant struct {
	Type  typeregistry.TypeID
	Value []byte
}

// SignedExtension is one entry of the transaction extension pipeline:
// Included is encoded in every signed extrinsic, Additional is only
// ever part of the signed payload (and therefore never appears in the
// extrinsic's own bytes).
type SignedExtension struct {
	Name       string
	Included   typeregistry.TypeID
	Additional typeregistry.TypeID
}

// ExtrinsicDescriptor is the chain's extrinsic envelope shape.
type ExtrinsicDescriptor struct {
	Version          uint8
	SignedExtensions []SignedExtension
	AddressType      typeregistry.TypeID
	SignatureType    typeregistry.TypeID
}

// Call looks up a pallet by index and then its call variant by
// discriminant in one step, the operation DecodeExtrinsic needs for
// every call it dispatches.
func (m *Metadata) Call(palletIndex, callIndex uint8) (Pallet, typeregistry.VariantCase, error) {
	pallet, ok := m.Pallets[palletIndex]
	if !ok {
		return Pallet{}, typeregistry.VariantCase{}, PalletNotFound{Index: palletIndex}
	}
	if pallet.Calls == nil {
		return Pallet{}, typeregistry.VariantCase{}, CallNotFound{PalletName: pallet.Name, CallIndex: callIndex}
	}
	variantIdx, ok := pallet.Calls.ByDiscriminant[callIndex]
	if !ok {
		return Pallet{}, typeregistry.VariantCase{}, CallNotFound{PalletName: pallet.Name, CallIndex: callIndex}
	}
	def, err := m.Registry.AsVariant(pallet.Calls.CallsType)
	if err != nil {
		return Pallet{}, typeregistry.VariantCase{}, err
	}
	klog.V(4).InfoS("resolved call", "pallet", pallet.Name, "call", def.Variants[variantIdx].Name)
	return pallet, def.Variants[variantIdx], nil
}
