// Package blob defines the content-addressed archive for binary payloads.
//
// Payloads written through a Store are immutable and keyed strictly by the
// CIDv1 derived from their bytes (see payloadid). The archive is the
// offline companion to the bytea codec: escaped column values are decoded
// once and parked here under a verifiable id.
package blob

import "github.com/ipfs/go-cid"

// Store is a minimal content-addressable payload store.
//
// Contract:
// - Put MUST be idempotent.
// - Stored payloads MUST be immutable.
// - Ids MUST be derived from the bytes written.
// - Get MUST return ErrNotFound when the id is absent and ErrMismatch when
//   the stored bytes no longer hash to the requested id.
type Store interface {
	Put(payload []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
