package blob

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/veldtlabs/pqbin/payloadid"
)

// memStore is a map-backed Store for exercising the combinators.
type memStore struct {
	objects map[cid.Cid][]byte
	failPut error
}

func newMemStore() *memStore { return &memStore{objects: make(map[cid.Cid][]byte)} }

func (m *memStore) Put(payload []byte) (cid.Cid, error) {
	if m.failPut != nil {
		return cid.Undef, m.failPut
	}
	id, err := payloadid.New(payload)
	if err != nil {
		return cid.Undef, err
	}
	m.objects[id] = append([]byte(nil), payload...)
	return id, nil
}

func (m *memStore) Get(id cid.Cid) ([]byte, error) {
	b, ok := m.objects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *memStore) Has(id cid.Cid) bool {
	_, ok := m.objects[id]
	return ok
}

func TestFallback_ReadsInOrder(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	payload := []byte("only in secondary")
	id, err := secondary.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	f := Fallback{Stores: []Store{primary, secondary}}
	got, err := f.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
	if !f.Has(id) {
		t.Fatalf("Has = false")
	}
}

func TestFallback_PutWritesFirstOnly(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	f := Fallback{Stores: []Store{primary, secondary}}

	id, err := f.Put([]byte("payload"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !primary.Has(id) {
		t.Fatalf("payload missing from first store")
	}
	if secondary.Has(id) {
		t.Fatalf("payload unexpectedly replicated to second store")
	}
}

func TestFallback_NotFoundAggregation(t *testing.T) {
	f := Fallback{Stores: []Store{newMemStore(), newMemStore()}}
	id, err := payloadid.New([]byte("missing"))
	if err != nil {
		t.Fatalf("payloadid.New: %v", err)
	}
	if _, err := f.Get(id); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFallback_Empty(t *testing.T) {
	f := Fallback{}
	if _, err := f.Put([]byte("x")); err == nil {
		t.Fatalf("expected error from empty Fallback.Put")
	}
	id, _ := payloadid.New([]byte("x"))
	if _, err := f.Get(id); err == nil {
		t.Fatalf("expected error from empty Fallback.Get")
	}
}

func TestReplicating_PutAll(t *testing.T) {
	a, b := newMemStore(), newMemStore()
	r := Replicating{Backends: []NamedStore{{"a", a}, {"b", b}}}

	payload := []byte("replicate me")
	id, perBackend, err := r.PutAll(payload)
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if !a.Has(id) || !b.Has(id) {
		t.Fatalf("payload not present on all backends")
	}
	if len(perBackend) != 2 || perBackend["a"] != id || perBackend["b"] != id {
		t.Fatalf("per-backend map = %v", perBackend)
	}
}

func TestReplicating_PutFailureNamesBackend(t *testing.T) {
	a := newMemStore()
	b := newMemStore()
	b.failPut = errors.New("disk full")
	r := Replicating{Backends: []NamedStore{{"a", a}, {"b", b}}}

	_, _, err := r.PutAll([]byte("payload"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := `put to "b"`; !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Fatalf("error %q does not name failing backend", err)
	}
}

func TestReplicating_GetFallsBack(t *testing.T) {
	a, b := newMemStore(), newMemStore()
	payload := []byte("only on b")
	id, err := b.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	r := Replicating{Backends: []NamedStore{{"a", a}, {"b", b}}}
	got, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
}
