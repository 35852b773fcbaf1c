// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "sort"

// lBase/lExtra, mBase/mExtra, dBase/dExtra partition [0, maxLValue],
// [0, maxMValue] and [0, maxDValue-1] (D is stored as D-1 in the FSE model)
// into lSymbols/mSymbols/dSymbols consecutive power-of-two-sized ranges:
// value v belongs to the symbol i such that base[i] <= v < base[i]+2^extra[i].
// The tables are derived by buildValueRanges and are self-consistent by
// construction: every value in range is covered exactly once.
var (
	lBase, lExtra = buildValueRanges(lSymbols, maxLValue)
	mBase, mExtra = buildValueRanges(mSymbols, maxMValue)
	dBase, dExtra = buildValueRanges(dSymbols, maxDValue-1)
)

// buildValueRanges partitions [0, maxValue] into nSymbols consecutive
// power-of-two-sized buckets. It starts from maxValue+1's binary
// representation (one bucket per set bit, which already sums exactly to
// maxValue+1) and repeatedly splits the largest bucket in two until there
// are exactly nSymbols buckets -- splitting a width-w bucket into two
// width-(w-1) buckets preserves the total exactly while adding one bucket,
// so the result always covers [0, maxValue] with no gaps or overlaps.
func buildValueRanges(nSymbols int, maxValue uint32) (base []uint32, extra []uint8) {
	total := uint64(maxValue) + 1
	var widths []uint8
	for b := 0; b < 64; b++ {
		if total&(1<<uint(b)) != 0 {
			widths = append(widths, uint8(b))
		}
	}
	for len(widths) < nSymbols {
		best := -1
		for i, w := range widths {
			if w > 0 && (best == -1 || w > widths[best]) {
				best = i
			}
		}
		if best == -1 {
			break
		}
		widths[best]--
		widths = append(widths, widths[best])
	}
	sort.Slice(widths, func(i, j int) bool { return widths[i] < widths[j] })
	base = make([]uint32, nSymbols)
	extra = make([]uint8, nSymbols)
	var cum uint64
	for i, w := range widths {
		base[i] = uint32(cum)
		extra[i] = w
		cum += 1 << uint(w)
	}
	return base, extra
}

// symbolFor returns the symbol index and extra-bit value for v under the
// partition (base, extra), via binary search on base.
func symbolFor(base []uint32, extra []uint8, v uint32) (sym int, extraVal uint32) {
	i := sort.Search(len(base), func(i int) bool { return base[i] > v }) - 1
	if i < 0 {
		i = 0
	}
	return i, v - base[i]
}
