package bytea

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Vectors under testdata are regenerated by internal/tools/byteavec_gen.
func TestConformanceVectors_EscapeAndUnescape(t *testing.T) {
	root := filepath.Join("..", "testdata", "conformance", "bytea", "v1")

	for _, name := range []string{"empty", "greeting", "mixed"} {
		t.Run(name, func(t *testing.T) {
			payload, err := os.ReadFile(filepath.Join(root, name+".bin"))
			if err != nil {
				t.Fatalf("read payload: %v", err)
			}
			escBytes, err := os.ReadFile(filepath.Join(root, name+".esc"))
			if err != nil {
				t.Fatalf("read escaped text: %v", err)
			}
			esc := string(escBytes)

			if got := Escape(payload); got != esc {
				t.Fatalf("Escape = %q, want %q", got, esc)
			}
			if got, want := EscapedLen(len(payload)), len(esc); got != want {
				t.Fatalf("EscapedLen = %d, want %d", got, want)
			}
			decoded, err := Unescape(esc)
			if err != nil {
				t.Fatalf("Unescape: %v", err)
			}
			if !bytes.Equal(decoded, payload) {
				t.Fatalf("Unescape mismatch: got %v want %v", decoded, payload)
			}
		})
	}
}
