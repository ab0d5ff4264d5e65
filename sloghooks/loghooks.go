// Package sloghooks is a ready-made Hooks implementation over log/slog,
// with sampling for the one event a misbehaving host can emit in a flood
// (repeated decode fallbacks from polling Load against a corrupt entry).
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/lolokcat/cypherconf"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DecodeFallbackEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fallbackCtr atomic.Uint64
}

var _ cypherconf.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DefaultsWritten(name string) {
	if h.l == nil {
		return
	}
	h.l.Info("cypherconf.defaults_written", "name", name)
}

func (h *Hooks) DecodeFallback(name string, err error) {
	if h.l == nil || !sample(h.opts.DecodeFallbackEvery, &h.fallbackCtr) {
		return
	}
	h.l.Warn("cypherconf.decode_fallback",
		"name", name,
		"err", err)
}

func (h *Hooks) WriteError(name string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("cypherconf.write_error",
		"name", name,
		"err", err)
}
