package dynjson

import "fmt"

// FromGo converts a dynamically-typed Go value of the shapes produced by
// generic decoders (map[string]any, []any, float64, string, bool, nil, the
// integer types) into a Value. map[any]any is accepted for decoders that
// produce it (CBOR), provided every key is a string. Anything else fails
// with *EncodeError: these are the shape errors a closed sum type cannot
// otherwise express (unsupported runtime type, non-string object key).
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case []any:
		arr := NewArray()
		for _, el := range t {
			ev, err := FromGo(el)
			if err != nil {
				return Value{}, err
			}
			arr.Append(ev)
		}
		return arr, nil
	case []Value:
		return NewArray(t...), nil
	case map[string]any:
		obj := NewObject()
		for k, el := range t {
			ev, err := FromGo(el)
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, ev)
		}
		return obj, nil
	case map[any]any:
		obj := NewObject()
		for k, el := range t {
			ks, ok := k.(string)
			if !ok {
				return Value{}, &EncodeError{Reason: fmt.Sprintf("non-string object key %v (%T)", k, k)}
			}
			ev, err := FromGo(el)
			if err != nil {
				return Value{}, err
			}
			obj.Set(ks, ev)
		}
		return obj, nil
	default:
		return Value{}, &EncodeError{Reason: fmt.Sprintf("unsupported value type %T", x)}
	}
}

// Go converts v to the plain Go representation used by generic codecs:
// nil, bool, float64, string, []any and map[string]any. The invalid zero
// Value converts to nil. Like Encode, it fails with *EncodeError on a
// cyclic value or on nesting beyond the depth bound; the marker set is
// scoped to this one call.
func (v Value) Go() (any, error) {
	return goValue(v, make(map[any]struct{}), 0)
}

func goValue(v Value, active map[any]struct{}, depth int) (any, error) {
	if depth > maxDepth {
		return nil, &EncodeError{Reason: "exceeds maximum nesting depth"}
	}
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNumber:
		return v.num, nil
	case KindString:
		return v.str, nil
	case KindArray:
		if _, inProgress := active[v.arr]; inProgress {
			return nil, &EncodeError{Reason: "cyclic reference"}
		}
		active[v.arr] = struct{}{}
		out := make([]any, len(v.arr.elems))
		for i, el := range v.arr.elems {
			x, err := goValue(el, active, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		delete(active, v.arr)
		return out, nil
	case KindObject:
		if _, inProgress := active[v.obj]; inProgress {
			return nil, &EncodeError{Reason: "cyclic reference"}
		}
		active[v.obj] = struct{}{}
		out := make(map[string]any, len(v.obj.members))
		for k, el := range v.obj.members {
			x, err := goValue(el, active, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = x
		}
		delete(active, v.obj)
		return out, nil
	default:
		return nil, nil
	}
}
