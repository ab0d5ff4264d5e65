// Package dynjson implements a self-contained JSON codec over a dynamic,
// tagged value model. It is the serialization core behind cypherconf's
// settings files.
//
// Components:
//   - Value: a closed sum type (Null/Bool/Number/String/Array/Object)
//     exchanged between the encoder and the decoder.
//   - Decode: recursive-descent parser producing a Value, with 1-based
//     line/column positions on every error.
//   - Encode: compact RFC 8259 output with cycle detection.
//
// The codec is strict JSON: no comments, no trailing commas, no NaN/Inf.
// Containers live behind pointers, so assigning a Value copies a handle:
//
//	obj := dynjson.NewObject()
//	obj.Set("volume", dynjson.Number(0.8))
//	text, err := dynjson.Encode(obj)
package dynjson

import "fmt"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindInvalid is the kind of the zero Value. It is not encodable.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is one JSON value. The zero Value has KindInvalid; use the
// constructors (Null, Bool, Number, String, NewArray, NewObject) or Decode.
//
// Scalar Values are plain data. Array and Object Values hold a pointer to
// their members, so copies of a container Value alias the same storage and
// container identity is pointer identity (which is what the encoder's cycle
// detection keys on).
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	arr  *arrayData
	obj  *objectData
}

type arrayData struct {
	elems []Value
}

type objectData struct {
	members map[string]Value
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number value. Non-finite floats are representable
// here but rejected by Encode.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String returns a JSON string value holding s (UTF-8 text).
func String(s string) Value { return Value{kind: KindString, str: s} }

// NewArray returns a fresh array value holding elems in order.
func NewArray(elems ...Value) Value {
	a := &arrayData{}
	if len(elems) > 0 {
		a.elems = append(a.elems, elems...)
	}
	return Value{kind: KindArray, arr: a}
}

// NewObject returns a fresh empty object value.
func NewObject() Value {
	return Value{kind: KindObject, obj: &objectData{members: make(map[string]Value)}}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the JSON null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload. ok is false when v is not a bool.
func (v Value) Bool() (b bool, ok bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Number returns the numeric payload. ok is false when v is not a number.
func (v Value) Number() (n float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the string payload. ok is false when v is not a string.
func (v Value) Text() (s string, ok bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Len returns the element count of an array or the member count of an
// object, and 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr.elems)
	case KindObject:
		return len(v.obj.members)
	default:
		return 0
	}
}

// At returns the i-th array element. ok is false when v is not an array or
// i is out of range.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr.elems) {
		return Value{}, false
	}
	return v.arr.elems[i], true
}

// Append appends elems to an array value in place. It panics when v is not
// an array; appending to the wrong kind is a programming error, like writing
// to a nil map.
func (v Value) Append(elems ...Value) {
	if v.kind != KindArray {
		panic("dynjson: Append on " + v.kind.String() + " value")
	}
	v.arr.elems = append(v.arr.elems, elems...)
}

// Get returns the member stored under key. ok is false when v is not an
// object or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	m, ok := v.obj.members[key]
	return m, ok
}

// Set stores elem under key, replacing any existing member. It panics when
// v is not an object.
func (v Value) Set(key string, elem Value) {
	if v.kind != KindObject {
		panic("dynjson: Set on " + v.kind.String() + " value")
	}
	v.obj.members[key] = elem
}

// Delete removes the member stored under key, if any. It panics when v is
// not an object.
func (v Value) Delete(key string) {
	if v.kind != KindObject {
		panic("dynjson: Delete on " + v.kind.String() + " value")
	}
	delete(v.obj.members, key)
}

// Keys returns the object's member keys in unspecified order. The result is
// nil for empty objects and for non-objects.
func (v Value) Keys() []string {
	if v.kind != KindObject || len(v.obj.members) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v.obj.members))
	for k := range v.obj.members {
		keys = append(keys, k)
	}
	return keys
}

// String renders v as compact JSON for debugging. Values that cannot be
// encoded (cycles, non-finite numbers, the zero Value) render as a
// placeholder instead.
func (v Value) String() string {
	s, err := Encode(v)
	if err != nil {
		return fmt.Sprintf("dynjson.Value(%s, unencodable: %v)", v.kind, err)
	}
	return s
}

// Equal reports structural equality: same kind, same payload, arrays
// elementwise equal, objects with identical key sets and equal members.
// Equal does not guard against cyclic values.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr.elems) != len(b.arr.elems) {
			return false
		}
		for i := range a.arr.elems {
			if !Equal(a.arr.elems[i], b.arr.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj.members) != len(b.obj.members) {
			return false
		}
		for k, av := range a.obj.members {
			bv, ok := b.obj.members[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		// null == null; two invalid zero Values also compare equal.
		return true
	}
}

// Clone returns a deep copy of v: container storage is duplicated all the
// way down, so mutating the clone never touches the original. Clone does
// not guard against cyclic values.
func Clone(v Value) Value {
	switch v.kind {
	case KindArray:
		out := NewArray()
		out.arr.elems = make([]Value, len(v.arr.elems))
		for i, el := range v.arr.elems {
			out.arr.elems[i] = Clone(el)
		}
		return out
	case KindObject:
		out := NewObject()
		for k, m := range v.obj.members {
			out.obj.members[k] = Clone(m)
		}
		return out
	default:
		return v
	}
}
