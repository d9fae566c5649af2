//go:build go1.20

package strutil

import "bytes"

// Clone returns a copy of b that shares no storage with it. Clone(nil)
// returns nil.
func Clone(b []byte) []byte {
	return bytes.Clone(b)
}
