package blob

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// Fallback reads from multiple stores in a deterministic, caller-supplied
// order. The slice order is the retrieval order; callers MUST supply a
// fixed order so hydration stays reproducible.
//
// Put writes only to the first store.
type Fallback struct {
	Stores []Store
}

var _ Store = Fallback{}

func (f Fallback) Put(payload []byte) (cid.Cid, error) {
	if len(f.Stores) == 0 {
		return cid.Undef, errors.New("blob: Fallback has no stores")
	}
	return f.Stores[0].Put(payload)
}

func (f Fallback) Get(id cid.Cid) ([]byte, error) {
	var sawNotFound bool
	for _, s := range f.Stores {
		b, err := s.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			sawNotFound = true
			continue
		}
		return nil, err
	}
	if sawNotFound {
		return nil, ErrNotFound
	}
	return nil, errors.New("blob: Fallback has no stores")
}

func (f Fallback) Has(id cid.Cid) bool {
	for _, s := range f.Stores {
		if s.Has(id) {
			return true
		}
	}
	return false
}
