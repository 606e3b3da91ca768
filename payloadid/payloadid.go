// Package payloadid derives content identifiers for binary payloads.
//
// Archived bytea payloads are keyed by CIDv1 with the "raw" multicodec and
// a sha2-256 multihash, so an id commits to the exact bytes of the payload.
package payloadid

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// New returns the CIDv1 (raw + sha2-256) for a payload.
func New(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// String returns the string form of New(data).
func String(data []byte) string {
	id, err := New(data)
	if err != nil {
		// multihash.Sum with SHA2_256 and default length only errors on
		// invalid parameters; this is unreachable for payload data.
		return ""
	}
	return id.String()
}
