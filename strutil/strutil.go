// Package strutil implements the bounded, NUL-terminated byte string
// primitives the wire codec is built on. Strings cross the dicey wire as
// C-style NUL-terminated sequences, so decoding must never trust a
// terminator to exist inside the advertised bounds.
package strutil

import "bytes"

// LenN returns the length of the NUL-terminated string at the start of b,
// inspecting at most max bytes. If no terminator occurs within the first
// max bytes, the result is min(max, len(b)).
func LenN(b []byte, max int) int {
	if max < 0 {
		max = 0
	}
	if max > len(b) {
		max = len(b)
	}
	if i := bytes.IndexByte(b[:max], 0); i >= 0 {
		return i
	}
	return max
}

// DupN copies at most max content bytes out of b into a freshly allocated,
// NUL-terminated buffer, stopping early at the first terminator. The result
// never aliases b and is always exactly LenN(b, max)+1 bytes long, with the
// final byte set to zero. DupN(nil, n) returns nil.
func DupN(b []byte, max int) []byte {
	if b == nil {
		return nil
	}

	n := LenN(b, max)

	out := make([]byte, n+1)
	copy(out, b[:n])
	return out
}

// CString returns s as a NUL-terminated byte sequence ready for the wire.
func CString(s string) []byte {
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out
}

// GoString interprets b as a NUL-terminated string and strips the
// terminator. Bytes past the first NUL are ignored; if no NUL is present
// the whole slice is used.
func GoString(b []byte) string {
	return string(b[:LenN(b, len(b))])
}
