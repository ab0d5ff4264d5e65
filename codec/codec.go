// Package codec defines the serialization formats the settings store can
// persist through. The default JSON codec produces the text format the
// original settings files use; CBOR and Msgpack are compact binary
// alternatives for deployments that never hand-edit their settings.
package codec

import "github.com/lolokcat/cypherconf/dynjson"

// Codec serializes settings values to bytes for storage and back.
type Codec interface {
	Encode(dynjson.Value) ([]byte, error)
	Decode([]byte) (dynjson.Value, error)
}
