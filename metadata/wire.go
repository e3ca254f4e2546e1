package metadata

import (
	"k8s.io/klog/v2"

	"github.com/substrate-tools/scale-decode/cursor"
	"github.com/substrate-tools/scale-decode/scalevalue"
	"github.com/substrate-tools/scale-decode/typeregistry"
)

// Load parses a metadata blob and fully resolves it into a Metadata.
//
// Layout, outermost first (every length and every type id is a SCALE
// compact u32 unless noted otherwise):
//
//	magic            [4]byte literal "meta"
//	version          1 byte, must equal SupportedVersion
//	type count       compact u32
//	types            one type record per type count, see decodeTypeDef
//	pallet count     compact u32
//	pallets          one pallet record per pallet count, see decodePallet
//	extrinsic        see decodeExtrinsicDescriptor
//
// This is this decoder's own on-the-wire rendering of a resolved
// metadata document; it is produced by whatever up-stream tool turns
// raw chain metadata into this shape, not by the chain itself.
func Load(raw []byte) (*Metadata, error) {
	c := cursor.New(raw)

	var gotMagic [4]byte
	magicBytes, err := c.ReadFixed(4)
	if err != nil {
		return nil, err
	}
	copy(gotMagic[:], magicBytes)
	if gotMagic != Magic {
		return nil, BadMagic{Got: gotMagic}
	}

	versionByte, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	if versionByte != SupportedVersion {
		return nil, UnsupportedVersion{Got: versionByte}
	}

	typeCount, err := c.ReadCompactU32()
	if err != nil {
		return nil, err
	}
	registry := typeregistry.New(int(typeCount))
	for i := uint32(0); i < typeCount; i++ {
		id, def, err := decodeTypeDef(c)
		if err != nil {
			return nil, err
		}
		registry.Insert(id, def)
	}

	palletCount, err := c.ReadCompactU32()
	if err != nil {
		return nil, err
	}
	pallets := make(map[uint8]Pallet, palletCount)
	for i := uint32(0); i < palletCount; i++ {
		pallet, err := decodePallet(c, registry)
		if err != nil {
			return nil, err
		}
		pallets[pallet.Index] = pallet
	}

	extrinsic, err := decodeExtrinsicDescriptor(c)
	if err != nil {
		return nil, err
	}

	klog.V(2).InfoS("loaded metadata", "types", typeCount, "pallets", palletCount, "extrinsicVersion", extrinsic.Version)

	return &Metadata{Registry: registry, Pallets: pallets, Extrinsic: extrinsic}, nil
}

func decodeString(c *cursor.Cursor) (string, error) {
	n, err := c.ReadCompactU32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := c.ReadFixed(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeBytes(c *cursor.Cursor) ([]byte, error) {
	n, err := c.ReadCompactU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b, err := c.ReadFixed(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func decodeTypeID(c *cursor.Cursor) (typeregistry.TypeID, error) {
	v, err := c.ReadCompactU32()
	return typeregistry.TypeID(v), err
}

func decodePath(c *cursor.Cursor) ([]string, error) {
	n, err := c.ReadCompactU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	path := make([]string, n)
	for i := range path {
		s, err := decodeString(c)
		if err != nil {
			return nil, err
		}
		path[i] = s
	}
	return path, nil
}

func decodeFields(c *cursor.Cursor) ([]typeregistry.Field, error) {
	n, err := c.ReadCompactU32()
	if err != nil {
		return nil, err
	}
	fields := make([]typeregistry.Field, n)
	for i := range fields {
		hasName, err := c.ReadByte()
		if err != nil {
			return nil, err
		}
		var name *string
		if hasName != 0 {
			s, err := decodeString(c)
			if err != nil {
				return nil, err
			}
			name = &s
		}
		typeID, err := decodeTypeID(c)
		if err != nil {
			return nil, err
		}
		fields[i] = typeregistry.Field{Name: name, Type: typeID}
	}
	return fields, nil
}

func decodeTypeDef(c *cursor.Cursor) (typeregistry.TypeID, *typeregistry.Definition, error) {
	id, err := decodeTypeID(c)
	if err != nil {
		return 0, nil, err
	}
	path, err := decodePath(c)
	if err != nil {
		return 0, nil, err
	}
	kindByte, err := c.ReadByte()
	if err != nil {
		return 0, nil, err
	}

	def := &typeregistry.Definition{Kind: typeregistry.DefKind(kindByte), Path: path}

	switch def.Kind {
	case typeregistry.DefComposite, typeregistry.DefTuple:
		def.Fields, err = decodeFields(c)

	case typeregistry.DefVariant:
		var count uint32
		count, err = c.ReadCompactU32()
		if err != nil {
			break
		}
		def.Variants = make([]typeregistry.VariantCase, count)
		for i := range def.Variants {
			var disc byte
			disc, err = c.ReadByte()
			if err != nil {
				break
			}
			var name string
			name, err = decodeString(c)
			if err != nil {
				break
			}
			var fields []typeregistry.Field
			fields, err = decodeFields(c)
			if err != nil {
				break
			}
			def.Variants[i] = typeregistry.VariantCase{Discriminant: disc, Name: name, Fields: fields}
		}

	case typeregistry.DefSequence, typeregistry.DefCompact:
		def.Element, err = decodeTypeID(c)

	case typeregistry.DefArray:
		def.Element, err = decodeTypeID(c)
		if err != nil {
			break
		}
		def.ArrayLen, err = c.ReadCompactU32()

	case typeregistry.DefPrimitive:
		var kindByte byte
		kindByte, err = c.ReadByte()
		def.Primitive = scalevalue.PrimitiveKind(kindByte)

	case typeregistry.DefBitSequence:
		def.BitStore, err = decodeTypeID(c)
		if err != nil {
			break
		}
		def.BitOrder, err = decodeTypeID(c)

	default:
		err = UnsupportedTypeKind{Kind: def.Kind}
	}

	if err != nil {
		return 0, nil, err
	}
	return id, def, nil
}

func decodePallet(c *cursor.Cursor, registry *typeregistry.Registry) (Pallet, error) {
	index, err := c.ReadByte()
	if err != nil {
		return Pallet{}, err
	}
	name, err := decodeString(c)
	if err != nil {
		return Pallet{}, err
	}

	pallet := Pallet{Index: index, Name: name}

	hasCalls, err := c.ReadByte()
	if err != nil {
		return Pallet{}, err
	}
	if hasCalls != 0 {
		callsType, err := decodeTypeID(c)
		if err != nil {
			return Pallet{}, err
		}
		def, err := registry.AsVariant(callsType)
		if err != nil {
			return Pallet{}, err
		}
		byDiscriminant := make(map[uint8]int, len(def.Variants))
		for i, v := range def.Variants {
			byDiscriminant[v.Discriminant] = i
		}
		pallet.Calls = &CallsDescriptor{CallsType: callsType, ByDiscriminant: byDiscriminant}
	}

	constantCount, err := c.ReadCompactU32()
	if err != nil {
		return Pallet{}, err
	}
	if constantCount > 0 {
		pallet.Constants = make(map[string]Constant, constantCount)
		for i := uint32(0); i < constantCount; i++ {
			cname, err := decodeString(c)
			if err != nil {
				return Pallet{}, err
			}
			ctype, err := decodeTypeID(c)
			if err != nil {
				return Pallet{}, err
			}
			cvalue, err := decodeBytes(c)
			if err != nil {
				return Pallet{}, err
			}
			pallet.Constants[cname] = Constant{Type: ctype, Value: cvalue}
		}
	}

	hasStoragePrefix, err := c.ReadByte()
	if err != nil {
		return Pallet{}, err
	}
	if hasStoragePrefix != 0 {
		prefix, err := decodeString(c)
		if err != nil {
			return Pallet{}, err
		}
		pallet.StoragePrefix = &prefix
	}

	return pallet, nil
}

func decodeExtrinsicDescriptor(c *cursor.Cursor) (ExtrinsicDescriptor, error) {
	version, err := c.ReadByte()
	if err != nil {
		return ExtrinsicDescriptor{}, err
	}

	extCount, err := c.ReadCompactU32()
	if err != nil {
		return ExtrinsicDescriptor{}, err
	}
	exts := make([]SignedExtension, extCount)
	for i := range exts {
		name, err := decodeString(c)
		if err != nil {
			return ExtrinsicDescriptor{}, err
		}
		included, err := decodeTypeID(c)
		if err != nil {
			return ExtrinsicDescriptor{}, err
		}
		additional, err := decodeTypeID(c)
		if err != nil {
			return ExtrinsicDescriptor{}, err
		}
		exts[i] = SignedExtension{Name: name, Included: included, Additional: additional}
	}

	addressType, err := decodeTypeID(c)
	if err != nil {
		return ExtrinsicDescriptor{}, err
	}
	signatureType, err := decodeTypeID(c)
	if err != nil {
		return ExtrinsicDescriptor{}, err
	}

	return ExtrinsicDescriptor{
		Version:          version,
		SignedExtensions: exts,
		AddressType:      addressType,
		SignatureType:    signatureType,
	}, nil
}
