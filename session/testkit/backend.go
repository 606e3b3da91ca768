package testkit

import (
	"context"
	"errors"
	"testing"

	"github.com/veldtlabs/pqbin/session"
)

// NewBackend constructs a fresh backend instance for a test.
// The returned backend MUST be isolated from other tests.
type NewBackend func(t *testing.T) session.Backend

// RunBackendConformance exercises the session.Backend contract through the
// interface alone, so it applies equally to embedded and remote backends.
func RunBackendConformance(t *testing.T, newBackend NewBackend) {
	t.Helper()
	ctx := context.Background()

	t.Run("ControlVerbs", func(t *testing.T) {
		b := newBackend(t)
		for _, verb := range []string{"BEGIN", "COMMIT", "ROLLBACK", "SAVEPOINT sp1"} {
			res, err := b.Exec(ctx, verb, nil)
			if err != nil {
				t.Fatalf("Exec(%s): %v", verb, err)
			}
			if res.Len() != 0 {
				t.Fatalf("Exec(%s) returned %d rows, want 0", verb, res.Len())
			}
		}
	})

	t.Run("UnknownQuery", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.Exec(ctx, "SELECT never_scripted FROM nowhere", nil)
		if !errors.Is(err, session.ErrUnknownQuery) {
			t.Fatalf("expected ErrUnknownQuery, got %v", err)
		}
	})

	t.Run("Vars", func(t *testing.T) {
		b := newBackend(t)
		if _, err := b.GetVar(ctx, "application_name"); !errors.Is(err, session.ErrVarNotFound) {
			t.Fatalf("expected ErrVarNotFound, got %v", err)
		}
		if err := b.SetVar(ctx, "application_name", "pqbin-test"); err != nil {
			t.Fatalf("SetVar: %v", err)
		}
		got, err := b.GetVar(ctx, "application_name")
		if err != nil {
			t.Fatalf("GetVar: %v", err)
		}
		if got != "pqbin-test" {
			t.Fatalf("GetVar = %q", got)
		}
	})

	t.Run("CopyWriteLifecycle", func(t *testing.T) {
		b := newBackend(t)
		if err := b.WriteCopyLine(ctx, "1\tfoo"); err != nil {
			t.Fatalf("WriteCopyLine: %v", err)
		}
		if err := b.EndCopyWrite(ctx); err != nil {
			t.Fatalf("EndCopyWrite: %v", err)
		}
		if err := b.WriteCopyLine(ctx, "2\tbar"); !errors.Is(err, session.ErrCopyClosed) {
			t.Fatalf("write after end: expected ErrCopyClosed, got %v", err)
		}
		if err := b.EndCopyWrite(ctx); !errors.Is(err, session.ErrCopyClosed) {
			t.Fatalf("double end: expected ErrCopyClosed, got %v", err)
		}
	})

	t.Run("CopyReadEndOfStream", func(t *testing.T) {
		b := newBackend(t)
		_, ok, err := b.ReadCopyLine(ctx)
		if err != nil {
			t.Fatalf("first ReadCopyLine: %v", err)
		}
		if ok {
			t.Fatalf("first ReadCopyLine reported data on an empty stream")
		}
		_, _, err = b.ReadCopyLine(ctx)
		if !errors.Is(err, session.ErrNoCopy) {
			t.Fatalf("read past end: expected ErrNoCopy, got %v", err)
		}
	})
}
