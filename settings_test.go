package cypherconf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	c "github.com/lolokcat/cypherconf/codec"
	"github.com/lolokcat/cypherconf/dynjson"
	st "github.com/lolokcat/cypherconf/storage"
)

type memBackend struct {
	mu sync.Mutex
	m  map[string][]byte

	failWrite bool
	failRead  bool
}

var _ st.Backend = (*memBackend)(nil)

func newMemBackend() *memBackend { return &memBackend{m: make(map[string][]byte)} }

func (b *memBackend) Exists(_ context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.m[name]
	return ok, nil
}

func (b *memBackend) Read(_ context.Context, name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failRead {
		return nil, errors.New("mem: read refused")
	}
	v, ok := b.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", st.ErrNotExist, name)
	}
	return v, nil
}

func (b *memBackend) Write(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWrite {
		return errors.New("mem: write refused")
	}
	b.m[name] = append([]byte(nil), data...)
	return nil
}

func (b *memBackend) Close(context.Context) error { return nil }

func (b *memBackend) raw(name string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m[name]
}

type recHooks struct {
	defaultsWritten []string
	decodeFallback  []error
	writeErrors     []error
}

func (h *recHooks) DefaultsWritten(name string) {
	h.defaultsWritten = append(h.defaultsWritten, name)
}
func (h *recHooks) DecodeFallback(_ string, err error) { h.decodeFallback = append(h.decodeFallback, err) }
func (h *recHooks) WriteError(_ string, err error)     { h.writeErrors = append(h.writeErrors, err) }

func testDefaults(t *testing.T) dynjson.Value {
	t.Helper()
	d := dynjson.NewObject()
	d.Set("theme", dynjson.String("dark"))
	d.Set("volume", dynjson.Number(0.8))
	d.Set("recent", dynjson.NewArray())
	return d
}

func newTestStore(t *testing.T, mb *memBackend, mutate func(*Options)) (*Store, *recHooks) {
	t.Helper()
	hooks := &recHooks{}
	opts := Options{
		Name:     "settings.json",
		Defaults: testDefaults(t),
		Backend:  mb,
		Hooks:    hooks,
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, hooks
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{Defaults: testDefaults(t)}); err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("missing name: %v", err)
	}
	if _, err := New(Options{Name: "x"}); err == nil || !strings.Contains(err.Error(), "defaults are required") {
		t.Fatalf("missing defaults: %v", err)
	}

	bad := dynjson.NewObject()
	bad.Set("nan", dynjson.Number(math.NaN()))
	if _, err := New(Options{Name: "x", Defaults: bad, Backend: newMemBackend()}); err == nil ||
		!strings.Contains(err.Error(), "not encodable") {
		t.Fatalf("unencodable defaults: %v", err)
	}
}

func TestLoadSeedsDefaultsWhenMissing(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	s, hooks := newTestStore(t, mb, nil)

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !dynjson.Equal(got, testDefaults(t)) {
		t.Fatalf("Load = %s, want defaults", got)
	}
	if len(hooks.defaultsWritten) != 1 {
		t.Fatalf("DefaultsWritten fired %d times", len(hooks.defaultsWritten))
	}

	// the persisted entry must decode back to the defaults
	stored, err := dynjson.DecodeBytes(mb.raw("settings.json"))
	if err != nil {
		t.Fatalf("stored entry: %v", err)
	}
	if !dynjson.Equal(stored, testDefaults(t)) {
		t.Fatalf("stored entry = %s", stored)
	}

	// second load reads the entry; no reseed
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(hooks.defaultsWritten) != 1 {
		t.Fatalf("DefaultsWritten fired again: %d", len(hooks.defaultsWritten))
	}
}

func TestLoadReturnsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newMemBackend(), nil)

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first.Set("theme", dynjson.String("light"))

	second, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	theme, _ := second.Get("theme")
	if txt, _ := theme.Text(); txt != "dark" {
		t.Fatalf("mutation leaked across loads: theme = %q", txt)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newMemBackend(), nil)

	v, _ := s.Load(ctx)
	v.Set("volume", dynjson.Number(0.25))
	recent, _ := v.Get("recent")
	recent.Append(dynjson.String("map_01"))

	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !dynjson.Equal(got, v) {
		t.Fatalf("round trip:\n got %s\nwant %s", got, v)
	}
}

func TestLoadFallsBackOnCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	mb.m["settings.json"] = []byte(`{"theme": "dark", "volume": }`)
	s, hooks := newTestStore(t, mb, nil)

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !dynjson.Equal(got, testDefaults(t)) {
		t.Fatalf("Load = %s, want defaults", got)
	}
	if len(hooks.decodeFallback) != 1 {
		t.Fatalf("DecodeFallback fired %d times", len(hooks.decodeFallback))
	}
	var de *dynjson.DecodeError
	if !errors.As(hooks.decodeFallback[0], &de) {
		t.Fatalf("fallback error is %T, want *dynjson.DecodeError", hooks.decodeFallback[0])
	}

	// without ReplaceCorrupt the broken bytes stay put
	if string(mb.raw("settings.json")) != `{"theme": "dark", "volume": }` {
		t.Fatal("corrupt entry was rewritten without ReplaceCorrupt")
	}
}

func TestReplaceCorruptRewritesEntry(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	mb.m["settings.json"] = []byte(`not json at all`)
	s, _ := newTestStore(t, mb, func(o *Options) { o.ReplaceCorrupt = true })

	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	stored, err := dynjson.DecodeBytes(mb.raw("settings.json"))
	if err != nil {
		t.Fatalf("rewritten entry: %v", err)
	}
	if !dynjson.Equal(stored, testDefaults(t)) {
		t.Fatalf("rewritten entry = %s", stored)
	}
}

func TestLoadSurvivesReadOnlyBackend(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	mb.failWrite = true
	s, hooks := newTestStore(t, mb, nil)

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load on read-only backend: %v", err)
	}
	if !dynjson.Equal(got, testDefaults(t)) {
		t.Fatalf("Load = %s, want defaults", got)
	}
	if len(hooks.writeErrors) != 1 || len(hooks.defaultsWritten) != 0 {
		t.Fatalf("hooks: writeErrors=%d defaultsWritten=%d", len(hooks.writeErrors), len(hooks.defaultsWritten))
	}
}

func TestLoadPropagatesReadErrors(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	mb.m["settings.json"] = []byte(`{}`)
	mb.failRead = true
	s, _ := newTestStore(t, mb, nil)

	if _, err := s.Load(ctx); err == nil || !strings.Contains(err.Error(), "read refused") {
		t.Fatalf("Load: %v, want read error", err)
	}
}

func TestSavePropagatesEncodeErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, newMemBackend(), nil)

	cyc := dynjson.NewObject()
	arr := dynjson.NewArray()
	arr.Append(cyc)
	cyc.Set("self", arr)
	err := s.Save(ctx, cyc)
	var ee *dynjson.EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Save: got %v, want *dynjson.EncodeError", err)
	}
}

func TestMaxInputLimitsDecode(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	mb.m["settings.json"] = []byte(`{"padding":"` + strings.Repeat("x", 256) + `"}`)
	s, hooks := newTestStore(t, mb, func(o *Options) { o.MaxInput = 64 })

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// oversized entry is treated like any other undecodable entry
	if !dynjson.Equal(got, testDefaults(t)) {
		t.Fatalf("Load = %s, want defaults", got)
	}
	if len(hooks.decodeFallback) != 1 {
		t.Fatalf("DecodeFallback fired %d times", len(hooks.decodeFallback))
	}
}

func TestBinaryCodecStore(t *testing.T) {
	ctx := context.Background()
	mb := newMemBackend()
	s, _ := newTestStore(t, mb, func(o *Options) { o.Codec = c.MustCBOR(true) })

	v, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v.Set("theme", dynjson.String("light"))
	if err := s.Save(ctx, v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !dynjson.Equal(got, v) {
		t.Fatalf("CBOR round trip:\n got %s\nwant %s", got, v)
	}
}
