package dynjson

import (
	"math"
	"strconv"
)

// Encode serializes v as compact JSON text.
//
// It fails with *EncodeError when the container graph reachable from v
// contains a cycle, a number is NaN or infinite, nesting exceeds maxDepth,
// or v (or anything inside it) is the invalid zero Value. The in-progress
// marker set is scoped to this one call, so an error leaves nothing behind
// and the caller can immediately encode another value.
func Encode(v Value) (string, error) {
	e := &encoder{active: make(map[any]struct{})}
	out, err := e.encode(nil, v, 0)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encoder tracks the identities of containers currently being serialized.
// A container revisited while still active closes a cycle.
type encoder struct {
	active map[any]struct{}
}

func (e *encoder) encode(dst []byte, v Value, depth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, &EncodeError{Reason: "exceeds maximum nesting depth"}
	}
	switch v.kind {
	case KindNull:
		return append(dst, "null"...), nil

	case KindBool:
		if v.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil

	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, &EncodeError{Reason: "non-finite number"}
		}
		// 14 significant digits, %.14g semantics: round-trips every value
		// normal settings arithmetic produces, without float64 noise digits.
		return strconv.AppendFloat(dst, v.num, 'g', 14, 64), nil

	case KindString:
		return appendQuoted(dst, v.str), nil

	case KindArray:
		if _, inProgress := e.active[v.arr]; inProgress {
			return nil, &EncodeError{Reason: "cyclic reference"}
		}
		e.active[v.arr] = struct{}{}
		dst = append(dst, '[')
		for i, el := range v.arr.elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = e.encode(dst, el, depth+1)
			if err != nil {
				return nil, err
			}
		}
		// unmark on exit so shared (acyclic) subtrees encode fine
		delete(e.active, v.arr)
		return append(dst, ']'), nil

	case KindObject:
		if _, inProgress := e.active[v.obj]; inProgress {
			return nil, &EncodeError{Reason: "cyclic reference"}
		}
		e.active[v.obj] = struct{}{}
		dst = append(dst, '{')
		first := true
		for k, el := range v.obj.members {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendQuoted(dst, k)
			dst = append(dst, ':')
			var err error
			dst, err = e.encode(dst, el, depth+1)
			if err != nil {
				return nil, err
			}
		}
		delete(e.active, v.obj)
		return append(dst, '}'), nil

	default:
		return nil, &EncodeError{Reason: "invalid zero value"}
	}
}

// appendQuoted appends s wrapped in quotes. Control characters, backslash
// and double quote are escaped; short forms where a mapping exists,
// \u00xx otherwise. Bytes >= 0x20 pass through untouched, so UTF-8 text is
// emitted as-is.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escapeByte[c] != 0:
			dst = append(dst, '\\', escapeByte[c])
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
