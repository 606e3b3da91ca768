package blob

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/veldtlabs/pqbin/payloadid"
)

// NamedStore associates a Store with a stable backend name, for callers
// that need per-backend reporting.
type NamedStore struct {
	Name  string
	Store Store
}

// Replicating writes every payload to all configured backends.
//
// Reads fall back in order. Writes require every backend to return the
// same id (otherwise ErrMismatch). Use PutAll when the per-backend id
// mapping is needed.
type Replicating struct {
	Backends []NamedStore
}

var _ Store = Replicating{}

// PutAll writes the same payload to all backends and returns the canonical
// id plus a map of backend name to returned id. Any divergent id yields
// ErrMismatch.
func (r Replicating) PutAll(payload []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := payloadid.New(payload)
	if err != nil {
		return cid.Undef, nil, err
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, fmt.Errorf("blob: Replicating has no backends")
	}

	got := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		id, err := b.Store.Put(payload)
		if err != nil {
			return cid.Undef, got, fmt.Errorf("blob: put to %q: %w", b.Name, err)
		}
		got[b.Name] = id
		if id != want {
			return cid.Undef, got, fmt.Errorf("blob: backend %q returned %s, want %s: %w",
				b.Name, id, want, ErrMismatch)
		}
	}
	return want, got, nil
}

func (r Replicating) Put(payload []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(payload)
	return id, err
}

func (r Replicating) Get(id cid.Cid) ([]byte, error) {
	stores := make([]Store, 0, len(r.Backends))
	for _, b := range r.Backends {
		stores = append(stores, b.Store)
	}
	return Fallback{Stores: stores}.Get(id)
}

func (r Replicating) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b.Store.Has(id) {
			return true
		}
	}
	return false
}
