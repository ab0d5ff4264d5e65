package cypherconf

import (
	"context"
	"errors"
	"fmt"

	c "github.com/lolokcat/cypherconf/codec"
	"github.com/lolokcat/cypherconf/dynjson"
	st "github.com/lolokcat/cypherconf/storage"
	"github.com/lolokcat/cypherconf/storage/osfs"
)

// Store is the settings bootstrap: one named entry in a Backend, decoded
// through a Codec, with Defaults standing in whenever the entry is missing
// or unreadable.
type Store struct {
	name           string
	backend        st.Backend
	codec          c.Codec
	defaults       dynjson.Value
	log            Logger
	hooks          Hooks
	replaceCorrupt bool
}

func newStore(opts Options) (*Store, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("cypherconf: name is required")
	}
	if opts.Defaults.Kind() == dynjson.KindInvalid {
		return nil, fmt.Errorf("cypherconf: defaults are required")
	}

	s := &Store{
		name:           opts.Name,
		defaults:       opts.Defaults,
		replaceCorrupt: opts.ReplaceCorrupt,
	}

	// defaults
	s.backend = opts.Backend
	if s.backend == nil {
		s.backend = osfs.New("")
	}
	s.codec = opts.Codec
	if s.codec == nil {
		s.codec = c.JSON{}
	}
	if opts.MaxInput > 0 {
		s.codec = c.Limit{Inner: s.codec, MaxDecode: opts.MaxInput}
	}
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	// fail fast on unencodable defaults (cycle, NaN, invalid member)
	if _, err := s.codec.Encode(opts.Defaults); err != nil {
		return nil, fmt.Errorf("cypherconf: defaults are not encodable: %w", err)
	}
	return s, nil
}

// Load returns the stored settings document. A missing entry seeds Defaults
// into the backend; an undecodable entry falls back to Defaults (and is
// rewritten only under ReplaceCorrupt). Either way the caller gets a usable
// document. Only backend I/O failures make Load itself fail.
//
// The returned Value is a private deep copy; mutating it never affects
// Defaults or other Load results.
func (s *Store) Load(ctx context.Context) (dynjson.Value, error) {
	exists, err := s.backend.Exists(ctx, s.name)
	if err != nil {
		return dynjson.Value{}, fmt.Errorf("cypherconf: probe %q: %w", s.name, err)
	}
	if !exists {
		return s.seedDefaults(ctx), nil
	}

	raw, err := s.backend.Read(ctx, s.name)
	if errors.Is(err, st.ErrNotExist) {
		// entry vanished between Exists and Read; treat as missing
		return s.seedDefaults(ctx), nil
	}
	if err != nil {
		return dynjson.Value{}, fmt.Errorf("cypherconf: read %q: %w", s.name, err)
	}

	v, err := s.codec.Decode(raw)
	if err != nil {
		s.log.Warn("settings decode failed; serving defaults", Fields{
			"name": s.name,
			"err":  err.Error(),
		})
		s.hooks.DecodeFallback(s.name, err)
		if s.replaceCorrupt {
			s.writeDefaults(ctx)
		}
		return dynjson.Clone(s.defaults), nil
	}
	s.log.Debug("settings loaded", Fields{"name": s.name, "bytes": len(raw)})
	return v, nil
}

// Save encodes v and replaces the stored entry. Encode failures (a cycle,
// a non-finite number) and backend failures propagate.
func (s *Store) Save(ctx context.Context, v dynjson.Value) error {
	raw, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("cypherconf: encode %q: %w", s.name, err)
	}
	if err := s.backend.Write(ctx, s.name, raw); err != nil {
		return fmt.Errorf("cypherconf: write %q: %w", s.name, err)
	}
	s.log.Debug("settings saved", Fields{"name": s.name, "bytes": len(raw)})
	return nil
}

// Close releases the backend.
func (s *Store) Close(ctx context.Context) error {
	return s.backend.Close(ctx)
}

// seedDefaults persists Defaults best-effort and returns a copy of them.
// A failed write is surfaced through Logger/Hooks but does not fail the
// bootstrap: a read-only disk still yields a working configuration.
func (s *Store) seedDefaults(ctx context.Context) dynjson.Value {
	if s.writeDefaults(ctx) {
		s.hooks.DefaultsWritten(s.name)
		s.log.Info("settings entry absent; wrote defaults", Fields{"name": s.name})
	}
	return dynjson.Clone(s.defaults)
}

func (s *Store) writeDefaults(ctx context.Context) bool {
	raw, err := s.codec.Encode(s.defaults)
	if err != nil {
		// newStore verified encodability; only a caller mutating Defaults
		// into an invalid shape after New can land here
		s.hooks.WriteError(s.name, err)
		s.log.Error("defaults became unencodable", Fields{"name": s.name, "err": err.Error()})
		return false
	}
	if err := s.backend.Write(ctx, s.name, raw); err != nil {
		s.hooks.WriteError(s.name, err)
		s.log.Warn("defaults write failed", Fields{"name": s.name, "err": err.Error()})
		return false
	}
	return true
}
