// Package cypherconf implements a "read settings, else write defaults"
// bootstrap over a self-contained JSON codec. A host hands it a storage
// backend, a default settings document, and gets back a Store whose Load
// never fails on a missing or corrupt settings entry: defaults are seeded
// or served instead, with the failure surfaced through Logger/Hooks.
//
// Components:
//   - dynjson: the codec core. Dynamic Value model, recursive-descent
//     decoder with line/column errors, cycle-safe compact encoder.
//   - codec.Codec: pluggable storage format. JSON (default, hand-editable),
//     CBOR, Msgpack, plus a max-payload-size decorator.
//   - storage.Backend: "exists / read whole / write whole" persistence.
//     Local files (osfs) or a Redis key for server-side deployments.
//   - decodecache: optional decode memoization for hot re-readers.
//
// Bootstrap pattern:
//
//	defaults := dynjson.NewObject()
//	defaults.Set("volume", dynjson.Number(0.8))
//
//	store, _ := cypherconf.New(cypherconf.Options{
//	    Name:     "settings.json",
//	    Defaults: defaults,
//	})
//	cfg, err := store.Load(ctx) // missing file => defaults written + returned
package cypherconf
