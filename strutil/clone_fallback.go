//go:build !go1.20

package strutil

// Clone returns a copy of b that shares no storage with it. Clone(nil)
// returns nil. Toolchains with bytes.Clone use it directly instead.
func Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
