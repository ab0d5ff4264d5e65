package dynjson

import "fmt"

// Scalar-value boundaries for the 1/2/3/4-byte UTF-8 forms.
const (
	max1Byte = 0x7F
	max2Byte = 0x7FF
	max3Byte = 0xFFFF
	maxRune  = 0x10FFFF
)

// appendScalar appends the UTF-8 encoding of the Unicode scalar r to dst.
// It fails when r is negative or above U+10FFFF. Surrogate values are not
// rejected here; the decoder substitutes U+FFFD for unpaired surrogate
// escapes before this point, so appendScalar only ever sees real scalars.
func appendScalar(dst []byte, r rune) ([]byte, error) {
	switch {
	case r < 0 || r > maxRune:
		return dst, fmt.Errorf("dynjson: code point %#x out of Unicode range", r)
	case r <= max1Byte:
		return append(dst, byte(r)), nil
	case r <= max2Byte:
		return append(dst,
			0xC0|byte(r>>6),
			0x80|byte(r)&0x3F), nil
	case r <= max3Byte:
		return append(dst,
			0xE0|byte(r>>12),
			0x80|byte(r>>6)&0x3F,
			0x80|byte(r)&0x3F), nil
	default:
		return append(dst,
			0xF0|byte(r>>18),
			0x80|byte(r>>12)&0x3F,
			0x80|byte(r>>6)&0x3F,
			0x80|byte(r)&0x3F), nil
	}
}
