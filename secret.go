// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedtree

// zero overwrites b with zeros.
func zero(b []byte) {
	clear(b)
}

// withSecret hands buf to fn and wipes buf when fn returns, on every path.
// Anything fn wants to keep must be copied out of buf.
func withSecret[T any](buf []byte, fn func(secret []byte) (T, error)) (T, error) {
	defer zero(buf)
	return fn(buf)
}
