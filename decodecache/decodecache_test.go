package decodecache

import (
	"sync/atomic"
	"testing"

	"github.com/lolokcat/cypherconf/codec"
	"github.com/lolokcat/cypherconf/dynjson"
)

// countingCodec wraps JSON and counts real decodes.
type countingCodec struct {
	inner   codec.Codec
	decodes atomic.Int64
}

func (c *countingCodec) Encode(v dynjson.Value) ([]byte, error) { return c.inner.Encode(v) }
func (c *countingCodec) Decode(b []byte) (dynjson.Value, error) {
	c.decodes.Add(1)
	return c.inner.Decode(b)
}

func newTestCache(t *testing.T) (*Cache, *countingCodec) {
	t.Helper()
	counting := &countingCodec{inner: codec.JSON{}}
	dc, err := New(counting, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(dc.Close)
	return dc, counting
}

func TestDecodeHitsCache(t *testing.T) {
	dc, counting := newTestCache(t)
	payload := []byte(`{"theme":"dark","volume":0.8}`)

	first, err := dc.Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	dc.Wait() // ristretto admits asynchronously

	second, err := dc.Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !dynjson.Equal(first, second) {
		t.Fatalf("cached decode differs: %s vs %s", first, second)
	}
	if n := counting.decodes.Load(); n != 1 {
		t.Fatalf("inner decodes = %d, want 1", n)
	}
}

func TestChangedPayloadMisses(t *testing.T) {
	dc, counting := newTestCache(t)

	if _, err := dc.Decode([]byte(`{"v":1}`)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	dc.Wait()
	if _, err := dc.Decode([]byte(`{"v":2}`)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n := counting.decodes.Load(); n != 2 {
		t.Fatalf("inner decodes = %d, want 2", n)
	}
}

func TestCallerMutationDoesNotPoisonCache(t *testing.T) {
	dc, _ := newTestCache(t)
	payload := []byte(`{"xs":[1]}`)

	v, err := dc.Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	dc.Wait()
	if xs, ok := v.Get("xs"); ok {
		xs.Append(dynjson.Number(99))
	}
	v.Set("sneaky", dynjson.Bool(true))

	fresh, err := dc.Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := fresh.Get("sneaky"); ok {
		t.Fatal("mutation leaked into cache")
	}
	xs, _ := fresh.Get("xs")
	if xs.Len() != 1 {
		t.Fatalf("cached array mutated: %s", fresh)
	}
}

func TestDecodeErrorsAreNotCached(t *testing.T) {
	dc, counting := newTestCache(t)
	bad := []byte(`{"broken":`)

	for i := 0; i < 2; i++ {
		if _, err := dc.Decode(bad); err == nil {
			t.Fatal("expected decode error")
		}
		dc.Wait()
	}
	if n := counting.decodes.Load(); n != 2 {
		t.Fatalf("inner decodes = %d, want 2 (errors must not be cached)", n)
	}
}

func TestEncodeBypassesCache(t *testing.T) {
	dc, _ := newTestCache(t)
	v := dynjson.NewObject()
	v.Set("a", dynjson.Number(1))
	b, err := dc.Encode(v)
	if err != nil || string(b) != `{"a":1}` {
		t.Fatalf("Encode = %q, %v", b, err)
	}
}

func TestNewRequiresInner(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error for nil inner codec")
	}
}
