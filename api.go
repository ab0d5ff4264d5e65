package cypherconf

import (
	c "github.com/lolokcat/cypherconf/codec"
	"github.com/lolokcat/cypherconf/dynjson"
	st "github.com/lolokcat/cypherconf/storage"
)

// Options tune the settings store. Only Name and Defaults are required;
// others have sensible defaults.
type Options struct {
	// Required
	Name     string        // storage entry: a file path for osfs, a key for redis
	Defaults dynjson.Value // served (and seeded) when the entry is missing or corrupt

	Backend st.Backend // nil => osfs.New("") (entry names are file paths)
	Codec   c.Codec    // nil => codec.JSON{}
	Logger  Logger     // nil => NopLogger
	Hooks   Hooks      // nil => NopHooks

	// MaxInput, when > 0, caps the stored payload size accepted by Load by
	// wrapping Codec in codec.Limit.
	MaxInput int

	// ReplaceCorrupt rewrites the entry with Defaults when its contents
	// fail to decode. Off by default so a hand-edited file with a typo is
	// not destroyed; the corrupt bytes stay on disk for the user to fix.
	ReplaceCorrupt bool
}

// New constructs a Store. Defaults are encoded once up front so an
// unencodable defaults document (a cycle, a NaN) fails here rather than on
// first Load.
func New(opts Options) (*Store, error) {
	return newStore(opts)
}
