// Package jsonrender walks a decoded scalevalue.Value and renders it
// as order-preserving JSON via jsonbuilder, the CLI's one place that
// turns a Value into bytes a user reads.
package jsonrender

import (
	"github.com/substrate-tools/scale-decode/jsonbuilder"
	"github.com/substrate-tools/scale-decode/scalevalue"
)

// Value renders v as whatever jsonbuilder shape fits its kind: an
// object for a named composite, an array for an unnamed composite or
// a sequence, a single-key object for a variant, an array of bools for
// a bit sequence, and a bare value for a primitive.
func Value(v scalevalue.Value) any {
	switch v.Kind {
	case scalevalue.KindComposite:
		return renderComposite(*v.Composite)

	case scalevalue.KindVariant:
		obj := jsonbuilder.NewObject()
		obj.Object(v.Variant.Name, renderCompositeObject(v.Variant.Fields))
		return obj

	case scalevalue.KindSequence:
		return renderSequence(v.Sequence)

	case scalevalue.KindBitSequence:
		arr := jsonbuilder.NewArray()
		for _, b := range v.BitSequence.Bits {
			arr.AddBool(b)
		}
		return arr

	case scalevalue.KindPrimitive:
		return primitiveValue(*v.Primitive)

	default:
		return nil
	}
}

func renderComposite(c scalevalue.Composite) any {
	if c.Named {
		return renderCompositeObject(c)
	}
	arr := jsonbuilder.NewArray()
	for _, f := range c.Fields {
		arr.AddValue(Value(f.Value))
	}
	return arr
}

// renderCompositeObject always builds an *OrderedJSONObject, used both
// for a genuinely named composite and for a variant's field list
// (which reuses the same Composite shape).
func renderCompositeObject(c scalevalue.Composite) *jsonbuilder.OrderedJSONObject {
	obj := jsonbuilder.NewObject()
	for _, f := range c.Fields {
		key := ""
		if f.Name != nil {
			key = *f.Name
		}
		obj.Value(key, Value(f.Value))
	}
	return obj
}

func renderSequence(elements []scalevalue.Value) *jsonbuilder.ArrayBuilder {
	arr := jsonbuilder.NewArray()
	for _, e := range elements {
		arr.AddValue(Value(e))
	}
	return arr
}

func primitiveValue(p scalevalue.Primitive) any {
	switch p.Kind {
	case scalevalue.PrimitiveBool:
		return p.BoolValue
	case scalevalue.PrimitiveChar:
		return string(p.CharValue)
	case scalevalue.PrimitiveStr:
		return p.StrValue
	default:
		if bi := p.BigInt(); bi != nil {
			return bi.String()
		}
		return nil
	}
}
