package codec

import "github.com/lolokcat/cypherconf/dynjson"

// JSON persists values as compact JSON text via the dynjson codec. This is
// the default store format and the one compatible with hand-edited settings
// files. The zero value is ready to use.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Encode(v dynjson.Value) ([]byte, error) {
	s, err := dynjson.Encode(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (JSON) Decode(b []byte) (dynjson.Value, error) {
	return dynjson.DecodeBytes(b)
}
