package dynjson

import (
	"fmt"
	"strconv"
	"unicode"
)

// maxDepth bounds container nesting for both Decode and Encode. Inputs deeper
// than this get a structured error instead of a stack overflow.
const maxDepth = 10000

// Decode parses src as one JSON document. Leading and trailing whitespace is
// permitted; any other trailing content is an error. All failures are
// *DecodeError values carrying the line and column of the offending byte.
func Decode(src string) (Value, error) {
	d := &decoder{src: src}
	i := d.skipSpace(0)
	v, i, err := d.parseValue(i, 0)
	if err != nil {
		return Value{}, err
	}
	i = d.skipSpace(i)
	if i < len(src) {
		return Value{}, d.errAt(i, "trailing content after top-level value")
	}
	return v, nil
}

// DecodeBytes is Decode for a byte slice.
func DecodeBytes(src []byte) (Value, error) {
	return Decode(string(src))
}

type decoder struct {
	src string
}

func (d *decoder) errAt(off int, format string, args ...any) error {
	line, col := lineCol(d.src, off)
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DecodeError{Msg: msg, Line: line, Col: col}
}

func (d *decoder) skipSpace(i int) int {
	for i < len(d.src) {
		switch d.src[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

// isDelim reports whether c terminates an unquoted token (number or literal).
func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ']', '}', ',':
		return true
	}
	return false
}

// parseValue dispatches on the first non-whitespace byte to one of the five
// sub-parsers. Each returns the parsed value and the index just past it.
func (d *decoder) parseValue(i, depth int) (Value, int, error) {
	if depth > maxDepth {
		return Value{}, i, d.errAt(i, "exceeds maximum nesting depth")
	}
	if i >= len(d.src) {
		return Value{}, i, d.errAt(i, "unexpected end of input")
	}
	switch c := d.src[i]; {
	case c == '"':
		s, next, err := d.parseString(i)
		if err != nil {
			return Value{}, i, err
		}
		return String(s), next, nil
	case c == '{':
		return d.parseObject(i, depth)
	case c == '[':
		return d.parseArray(i, depth)
	case c == 't' || c == 'f' || c == 'n':
		return d.parseLiteral(i)
	case c == '-' || (c >= '0' && c <= '9'):
		return d.parseNumber(i)
	default:
		return Value{}, i, d.errAt(i, "unexpected character %q", c)
	}
}

// parseString scans a quoted string starting at the opening quote and
// returns its unescaped contents.
func (d *decoder) parseString(start int) (string, int, error) {
	var buf []byte
	i := start + 1
	for i < len(d.src) {
		c := d.src[i]
		switch {
		case c == '"':
			return string(buf), i + 1, nil
		case c < 0x20:
			return "", i, d.errAt(i, "control character 0x%02x in string", c)
		case c == '\\':
			if i+1 >= len(d.src) {
				return "", i, d.errAt(start, "unterminated string")
			}
			esc := d.src[i+1]
			if esc == 'u' {
				r, n, err := d.parseUnicodeEscape(i)
				if err != nil {
					return "", i, err
				}
				buf, err = appendScalar(buf, r)
				if err != nil {
					return "", i, d.errAt(i, "%v", err)
				}
				i += n
				continue
			}
			lit, ok := unescape[esc]
			if !ok {
				return "", i, d.errAt(i, "invalid escape character %q", esc)
			}
			buf = append(buf, lit)
			i += 2
		default:
			buf = append(buf, c)
			i++
		}
	}
	return "", start, d.errAt(start, "unterminated string")
}

// parseUnicodeEscape decodes a \uXXXX escape starting at the backslash. A
// high surrogate immediately followed by a \uXXXX low surrogate combines
// into one scalar; an unpaired surrogate decodes to U+FFFD so the output
// stays valid UTF-8.
func (d *decoder) parseUnicodeEscape(i int) (rune, int, error) {
	r, err := d.hex4(i + 2)
	if err != nil {
		return 0, 0, err
	}
	switch {
	case r >= 0xD800 && r <= 0xDBFF:
		if i+12 <= len(d.src) && d.src[i+6] == '\\' && d.src[i+7] == 'u' {
			lo, err := d.hex4(i + 8)
			if err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
				return 0x10000 + (r-0xD800)*0x400 + (lo - 0xDC00), 12, nil
			}
		}
		return unicode.ReplacementChar, 6, nil
	case r >= 0xDC00 && r <= 0xDFFF:
		// low surrogate with no preceding high surrogate
		return unicode.ReplacementChar, 6, nil
	default:
		return r, 6, nil
	}
}

// hex4 parses exactly four hex digits at i.
func (d *decoder) hex4(i int) (rune, error) {
	if i+4 > len(d.src) {
		return 0, d.errAt(i-2, `incomplete \u escape`)
	}
	var r rune
	for j := i; j < i+4; j++ {
		r <<= 4
		switch c := d.src[j]; {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, d.errAt(j, `invalid hex digit %q in \u escape`, c)
		}
	}
	return r, nil
}

// parseNumber scans forward to the next delimiter and parses the token as a
// strict RFC 8259 number. The syntax check runs first because ParseFloat
// alone would also admit Inf, NaN and hex floats.
func (d *decoder) parseNumber(i int) (Value, int, error) {
	j := i
	for j < len(d.src) && !isDelim(d.src[j]) {
		j++
	}
	tok := d.src[i:j]
	if !validNumber(tok) {
		return Value{}, i, d.errAt(i, "invalid number literal %q", tok)
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return Value{}, i, d.errAt(i, "invalid number literal %q", tok)
	}
	return Number(f), j, nil
}

// validNumber checks the RFC 8259 grammar:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == len(s)
}

// parseLiteral scans to the next delimiter and matches the three keyword
// literals.
func (d *decoder) parseLiteral(i int) (Value, int, error) {
	j := i
	for j < len(d.src) && !isDelim(d.src[j]) {
		j++
	}
	switch d.src[i:j] {
	case "true":
		return Bool(true), j, nil
	case "false":
		return Bool(false), j, nil
	case "null":
		return Null(), j, nil
	default:
		return Value{}, i, d.errAt(i, "invalid literal %q", d.src[i:j])
	}
}

func (d *decoder) parseArray(start, depth int) (Value, int, error) {
	arr := NewArray()
	i := d.skipSpace(start + 1)
	if i < len(d.src) && d.src[i] == ']' {
		return arr, i + 1, nil
	}
	for {
		el, next, err := d.parseValue(i, depth+1)
		if err != nil {
			return Value{}, i, err
		}
		arr.Append(el)
		i = d.skipSpace(next)
		if i >= len(d.src) {
			return Value{}, i, d.errAt(i, "unexpected end of input in array")
		}
		switch d.src[i] {
		case ',':
			i = d.skipSpace(i + 1)
		case ']':
			return arr, i + 1, nil
		default:
			return Value{}, i, d.errAt(i, "expected ',' or ']' in array, got %q", d.src[i])
		}
	}
}

func (d *decoder) parseObject(start, depth int) (Value, int, error) {
	obj := NewObject()
	i := d.skipSpace(start + 1)
	if i < len(d.src) && d.src[i] == '}' {
		return obj, i + 1, nil
	}
	for {
		if i >= len(d.src) {
			return Value{}, i, d.errAt(i, "unexpected end of input in object")
		}
		if d.src[i] != '"' {
			return Value{}, i, d.errAt(i, "object keys must be quoted strings")
		}
		key, next, err := d.parseString(i)
		if err != nil {
			return Value{}, i, err
		}
		i = d.skipSpace(next)
		if i >= len(d.src) || d.src[i] != ':' {
			return Value{}, i, d.errAt(i, "expected ':' after object key")
		}
		i = d.skipSpace(i + 1)
		el, next, err := d.parseValue(i, depth+1)
		if err != nil {
			return Value{}, i, err
		}
		// last write wins on duplicate keys
		obj.Set(key, el)
		i = d.skipSpace(next)
		if i >= len(d.src) {
			return Value{}, i, d.errAt(i, "unexpected end of input in object")
		}
		switch d.src[i] {
		case ',':
			i = d.skipSpace(i + 1)
		case '}':
			return obj, i + 1, nil
		default:
			return Value{}, i, d.errAt(i, "expected ',' or '}' in object, got %q", d.src[i])
		}
	}
}
