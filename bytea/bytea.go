// Package bytea implements the hex-escape text encoding PostgreSQL uses for
// binary (bytea) values in text-mode protocol exchanges.
//
// The wire grammar is `"\x" (HEXDIGIT HEXDIGIT)*`: a two-character prefix
// followed by exactly two hex digits per payload byte, high nibble first.
// Escape always emits lowercase digits; Unescape accepts either case. This
// asymmetry matches the server's convention.
//
// Decoding is all-or-nothing: either the whole input is structurally valid
// and a complete payload is produced, or a structured *Error is returned and
// no output is produced. There is no best-effort mode.
package bytea

const hexDigits = "0123456789abcdef"

// EscapedLen returns the exact length of the escaped text for n payload
// bytes. It matches the output of Escape and EscapeInto to the byte, so
// callers can pre-size destination buffers without encoding first.
func EscapedLen(n int) int { return 2 + 2*n }

// UnescapedLen returns the payload size for escaped text of length n.
//
// It is a capacity hint only: it assumes n describes structurally valid
// input. Callers that have not validated the input must accept that the
// subsequent Unescape may still fail.
func UnescapedLen(n int) int { return (n - 2) / 2 }

// EscapeInto writes the escaped form of src into dst and returns the number
// of bytes written, which is always EscapedLen(len(src)).
//
// Contract: len(dst) >= EscapedLen(len(src)). EscapeInto performs no bounds
// checking of its own; an undersized dst is a caller defect, not a reported
// error. Use Escape unless the call site has proved its sizing.
func EscapeInto(dst []byte, src []byte) int {
	dst[0] = '\\'
	dst[1] = 'x'
	i := 2
	for _, b := range src {
		dst[i] = hexDigits[b>>4]
		dst[i+1] = hexDigits[b&0x0f]
		i += 2
	}
	return i
}

// Escape returns the hex-escape text for src. Escaping is total and
// deterministic; any byte sequence is encodable. Escape(nil) == `\x`.
func Escape(src []byte) string {
	buf := make([]byte, EscapedLen(len(src)))
	EscapeInto(buf, src)
	return string(buf)
}

// nibble translates a hex digit to its value. Returns -1 if c is not a
// valid digit.
func nibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// validate enforces the hex-escape grammar in a fixed order: truncation,
// length parity, prefix, then digit validity. The first violation wins.
func validate(s string) error {
	if len(s) < 2 {
		return newError(KindTruncated, "PQB-HEX-001", "binary data appears truncated")
	}
	if len(s)%2 != 0 {
		return newError(KindOddLength, "PQB-HEX-002", "invalid escaped binary length")
	}
	if s[0] != '\\' || s[1] != 'x' {
		return newError(KindBadPrefix, "PQB-HEX-003", `escaped binary data does not start with \x`)
	}
	for i := 2; i < len(s); i++ {
		if nibble(s[i]) < 0 {
			return newError(KindBadDigit, "PQB-HEX-004", "invalid hex-escaped data")
		}
	}
	return nil
}

// UnescapeInto decodes s into dst and returns the number of payload bytes
// written, which is always UnescapedLen(len(s)) on success. On error dst is
// untouched.
//
// Contract: len(dst) >= UnescapedLen(len(s)); sizing is the caller's
// responsibility.
func UnescapeInto(dst []byte, s string) (int, error) {
	if err := validate(s); err != nil {
		return 0, err
	}
	n := 0
	for i := 2; i < len(s); i += 2 {
		dst[n] = byte(nibble(s[i])<<4 | nibble(s[i+1]))
		n++
	}
	return n, nil
}

// Unescape decodes hex-escape text into a fresh payload buffer.
// Unescape(`\x`) returns an empty payload.
func Unescape(s string) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	out := make([]byte, UnescapedLen(len(s)))
	for i, n := 2, 0; i < len(s); i, n = i+2, n+1 {
		out[n] = byte(nibble(s[i])<<4 | nibble(s[i+1]))
	}
	return out, nil
}
