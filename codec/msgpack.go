package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lolokcat/cypherconf/dynjson"
)

// Msgpack is a Codec that persists values as MessagePack via
// vmihailenco/msgpack/v5. The zero value is ready to use.
type Msgpack struct{}

var _ Codec = Msgpack{}

func (Msgpack) Encode(v dynjson.Value) ([]byte, error) {
	x, err := v.Go()
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(x)
}

func (Msgpack) Decode(b []byte) (dynjson.Value, error) {
	var x any
	if err := msgpack.Unmarshal(b, &x); err != nil {
		return dynjson.Value{}, err
	}
	return dynjson.FromGo(x)
}
