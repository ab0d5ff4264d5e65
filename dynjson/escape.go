package dynjson

// Bidirectional short-escape tables, shared by the encoder and the decoder.
// Pure lookup data; never mutated after init.

// unescape maps the character after a backslash to the literal byte it
// denotes. `/` is accepted on decode per RFC 8259 but never produced on
// encode, so it appears here and not in escapeByte.
var unescape = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// escapeByte maps a literal byte to its short-escape letter. Bytes without
// an entry map to zero (never a valid escape letter) and the encoder falls
// back to \u00xx for control characters.
var escapeByte = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

const hexDigits = "0123456789abcdef"
