// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// idx is a 32-bit stream position that wraps modulo 2^32. Only positions
// within a sliding window of size <= 2^30 are ever simultaneously live, so a
// single wrap is unambiguous: subtraction always yields the signed delta the
// caller actually means.
type idx uint32

// sub returns a-b as a signed delta, valid as long as a and b are within
// 2^31 of each other (guaranteed by the clamp interval in practice).
func (a idx) sub(b idx) int32 {
	return int32(a - b)
}

// add returns a+n, wrapping modulo 2^32.
func (a idx) add(n int32) idx {
	return idx(int32(a) + n)
}

// q1 is the clamp threshold: any two live indices must stay within q1 of one
// another, or clamping rewrites the stale one.
const q1 = 0x4000_0000

// q3 is used by isWrapping to detect a delta that has wrapped the wrong way.
const q3 = 0xC000_0000

// isWrapping reports whether a-b, interpreted as an unsigned 32-bit value,
// indicates a stale (wrapped) comparison rather than a's being genuinely
// ahead of b.
func isWrapping(a, b idx) bool {
	return uint32(a-b) >= q3
}
