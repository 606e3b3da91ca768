package testkit

import (
	"bytes"
	"testing"

	"github.com/veldtlabs/pqbin/blob"
	"github.com/veldtlabs/pqbin/payloadid"
)

// NewStore constructs a fresh, empty Store instance for a test.
// The returned Store MUST be isolated from other tests.
type NewStore func(t *testing.T) blob.Store

// RunStoreConformance exercises the blob.Store contract.
func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := []byte("bytea payload under archive")

		id, err := s.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := payloadid.New(want)
		if err != nil {
			t.Fatalf("payloadid.New failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put id mismatch: got %s want %s", id, wantID)
		}

		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("payload mismatch after round trip")
		}
	})

	t.Run("PutIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		payload := []byte("same bytes twice")
		first, err := s.Put(payload)
		if err != nil {
			t.Fatalf("first Put: %v", err)
		}
		second, err := s.Put(payload)
		if err != nil {
			t.Fatalf("second Put: %v", err)
		}
		if first != second {
			t.Fatalf("idempotent Put returned different ids: %s vs %s", first, second)
		}
	})

	t.Run("GetAbsentIsNotFound", func(t *testing.T) {
		s := newStore(t)
		id, err := payloadid.New([]byte("never stored"))
		if err != nil {
			t.Fatalf("payloadid.New: %v", err)
		}
		if _, err := s.Get(id); !blob.IsNotFound(err) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Put([]byte("present"))
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if !s.Has(id) {
			t.Fatalf("Has(stored) = false")
		}
		absent, err := payloadid.New([]byte("absent"))
		if err != nil {
			t.Fatalf("payloadid.New: %v", err)
		}
		if s.Has(absent) {
			t.Fatalf("Has(absent) = true")
		}
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Put(nil)
		if err != nil {
			t.Fatalf("Put(empty): %v", err)
		}
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get(empty): %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("empty payload came back with %d bytes", len(got))
		}
	})
}
