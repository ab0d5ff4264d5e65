package cypherconf

// Hooks lightweight callbacks for high-signal bootstrap events.
// Implementations MUST be cheap and non-blocking; the store calls them
// inline from Load.
type Hooks interface {
	// The named entry was absent; defaults were encoded and persisted.
	DefaultsWritten(name string)

	// The stored entry failed to decode; defaults were served instead.
	DecodeFallback(name string, err error)

	// A best-effort write failed (seeding defaults, or replacing a corrupt
	// entry under ReplaceCorrupt). Load still returned defaults.
	WriteError(name string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) DefaultsWritten(string)       {}
func (NopHooks) DecodeFallback(string, error) {}
func (NopHooks) WriteError(string, error)     {}
