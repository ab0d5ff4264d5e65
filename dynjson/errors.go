package dynjson

import "fmt"

// EncodeError reports why a Value could not be serialized. Encoder failures
// are shape failures (cycles, non-finite numbers, the invalid zero Value),
// so there is no text position to report.
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string {
	return "dynjson: encode: " + e.Reason
}

// DecodeError reports a malformed input together with the 1-based line and
// column of the offending byte.
type DecodeError struct {
	Msg  string
	Line int
	Col  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dynjson: line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// lineCol converts a byte offset into src to a 1-based line and column by
// counting newlines from the start. Called once per failed decode, so the
// linear scan is fine.
func lineCol(src string, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	line, col = 1, 1
	for i := 0; i < off; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
