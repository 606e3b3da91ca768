package bytea

import (
	"bytes"
	"testing"
)

func TestEscape_Empty(t *testing.T) {
	if got := Escape(nil); got != `\x` {
		t.Fatalf(`Escape(nil) = %q, want \x`, got)
	}
	if got := Escape([]byte{}); got != `\x` {
		t.Fatalf(`Escape([]) = %q, want \x`, got)
	}
}

func TestUnescape_Empty(t *testing.T) {
	got, err := Unescape(`\x`)
	if err != nil {
		t.Fatalf(`Unescape(\x): %v`, err)
	}
	if len(got) != 0 {
		t.Fatalf(`Unescape(\x) = %v, want empty`, got)
	}
}

func TestEscape_LowercaseDigits(t *testing.T) {
	got := Escape([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	if got != `\xdeadbeef` {
		t.Fatalf("Escape = %q, want \\xdeadbeef", got)
	}
}

func TestEscape_NibbleOrder(t *testing.T) {
	// High nibble first: 0xA3 must render "a3", not "3a".
	if got := Escape([]byte{0xA3}); got != `\xa3` {
		t.Fatalf("Escape(0xA3) = %q, want \\xa3", got)
	}
}

func TestUnescape_CaseInsensitive(t *testing.T) {
	lower, err := Unescape(`\xab`)
	if err != nil {
		t.Fatalf("Unescape lower: %v", err)
	}
	upper, err := Unescape(`\xAB`)
	if err != nil {
		t.Fatalf("Unescape upper: %v", err)
	}
	mixed, err := Unescape(`\xAb`)
	if err != nil {
		t.Fatalf("Unescape mixed: %v", err)
	}
	want := []byte{0xAB}
	for _, got := range [][]byte{lower, upper, mixed} {
		if !bytes.Equal(got, want) {
			t.Fatalf("Unescape = %v, want %v", got, want)
		}
	}
}

func TestEscapedLen_MatchesEscape(t *testing.T) {
	for n := 0; n <= 64; n++ {
		src := make([]byte, n)
		for i := range src {
			src[i] = byte(i * 7)
		}
		if got, want := len(Escape(src)), EscapedLen(n); got != want {
			t.Fatalf("len(Escape(%d bytes)) = %d, EscapedLen = %d", n, got, want)
		}
	}
}

func TestUnescapedLen_MatchesUnescape(t *testing.T) {
	src := []byte("payload sizing check")
	esc := Escape(src)
	out, err := Unescape(esc)
	if err != nil {
		t.Fatalf("Unescape: %v", err)
	}
	if got, want := len(out), UnescapedLen(len(esc)); got != want {
		t.Fatalf("len(Unescape) = %d, UnescapedLen = %d", got, want)
	}
}

func TestEscapeInto_ExactWrite(t *testing.T) {
	src := []byte{0x00, 0x7F, 0xFF}
	dst := make([]byte, EscapedLen(len(src)))
	n := EscapeInto(dst, src)
	if n != len(dst) {
		t.Fatalf("EscapeInto wrote %d bytes, want %d", n, len(dst))
	}
	if string(dst) != `\x007fff` {
		t.Fatalf("EscapeInto = %q, want \\x007fff", dst)
	}
}

func TestEscapeInto_PreservesSurroundings(t *testing.T) {
	src := []byte{0x42}
	dst := make([]byte, EscapedLen(len(src))+2)
	dst[len(dst)-2] = 0xEE
	dst[len(dst)-1] = 0xEF
	EscapeInto(dst, src)
	if dst[len(dst)-2] != 0xEE || dst[len(dst)-1] != 0xEF {
		t.Fatalf("EscapeInto touched bytes beyond EscapedLen")
	}
}

func TestUnescapeInto(t *testing.T) {
	esc := `\x68656c6c6f`
	dst := make([]byte, UnescapedLen(len(esc)))
	n, err := UnescapeInto(dst, esc)
	if err != nil {
		t.Fatalf("UnescapeInto: %v", err)
	}
	if n != len(dst) {
		t.Fatalf("UnescapeInto wrote %d bytes, want %d", n, len(dst))
	}
	if string(dst) != "hello" {
		t.Fatalf("UnescapeInto = %q, want hello", dst)
	}
}

func TestUnescapeInto_ErrorLeavesDstUntouched(t *testing.T) {
	dst := []byte{0xAA, 0xBB}
	n, err := UnescapeInto(dst, `\xz1`)
	if err == nil {
		t.Fatalf("expected error")
	}
	if n != 0 {
		t.Fatalf("UnescapeInto reported %d bytes on error", n)
	}
	if dst[0] != 0xAA || dst[1] != 0xBB {
		t.Fatalf("dst modified on error: %v", dst)
	}
}
