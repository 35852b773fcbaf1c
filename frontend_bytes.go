// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "encoding/binary"

// fseMaxMatchDistance/vnMaxMatchDistance are the per-backend
// MAX_MATCH_DISTANCE: FSE distances are bounded by the D alphabet's range;
// VN matches stay within a 16-bit window, which also keeps the fresh-table
// seed entries (planted a full quarter-wrap behind the start) from ever
// qualifying as candidates.
const (
	fseMaxMatchDistance = maxDValue - 1
	vnMaxMatchDistance  = 0xFFFF
)

// findMatches runs the hashed-history match finder over the whole of src
// (the bytes-variant frontend holds its entire input in memory, so there is
// no ring to drive this) and returns the LMD sequence that reproduces src:
// each entry's L literal bytes (the next L bytes of src not yet covered by
// earlier entries) are followed by an M-byte copy from D bytes back.
// The final entry always has M=0 and carries any trailing literal run.
func findMatches(src []byte, matchUnit int, maxDist uint32, hash func(uint32) uint32) []lmd {
	var out []lmd
	if len(src) == 0 {
		return out
	}
	table := acquireHistoryTable()
	defer releaseHistoryTable(table)

	literalIdx := 0
	var pending match
	i := 0
	nextClamp := clampInterval
	limit := len(src) - 4
	for i <= limit {
		if i >= nextClamp {
			table.clamp(idx(i))
			nextClamp = i + clampInterval
		}
		u := binary.LittleEndian.Uint32(src[i:])
		prev := table.push(hash, historyItem{val: u, idx: idx(i)})

		var best match
		for _, cand := range prev {
			delta := idx(i).sub(cand.idx)
			if delta <= 0 || uint32(delta) > maxDist {
				continue
			}
			mlen := matchForward(src, int(cand.idx), i, len(src))
			if mlen < matchUnit {
				continue
			}
			if mlen > int(best.matchLen) {
				best = match{idx: idx(i), matchIdx: cand.idx, matchLen: uint32(mlen)}
			}
		}

		if !best.empty() {
			back := matchBackward(src, int(best.matchIdx), i, literalIdx, i-literalIdx)
			if back > 0 {
				best.idx = best.idx.add(-int32(back))
				best.matchIdx = best.matchIdx.add(-int32(back))
				best.matchLen += uint32(back)
			}
		}

		emitted, ok := selectMatch(&pending, best, goodMatchLen)
		if ok {
			dist := uint32(emitted.idx.sub(emitted.matchIdx))
			out = append(out, lmd{
				L: uint32(int(emitted.idx) - literalIdx),
				M: emitted.matchLen,
				D: dist,
			})
			end := int(emitted.idx) + int(emitted.matchLen)
			literalIdx = end
			// Reload history for positions skipped by the match.
			for j := i + 1; j < end && j <= limit; j++ {
				w := binary.LittleEndian.Uint32(src[j:])
				table.push(hash, historyItem{val: w, idx: idx(j)})
			}
			if end > i+1 {
				i = end
				continue
			}
		}
		i++
	}

	if !pending.empty() {
		dist := uint32(pending.idx.sub(pending.matchIdx))
		out = append(out, lmd{
			L: uint32(int(pending.idx) - literalIdx),
			M: pending.matchLen,
			D: dist,
		})
		literalIdx = int(pending.idx) + int(pending.matchLen)
	}

	out = append(out, lmd{L: uint32(len(src) - literalIdx), M: 0, D: 0})
	return out
}

// matchForward counts how many consecutive bytes src[a+k]==src[b+k] agree,
// up to the end of src.
func matchForward(src []byte, a, b, end int) int {
	n := 0
	for b+n < end && src[a+n] == src[b+n] {
		n++
	}
	return n
}

// matchBackward extends a match backward from (matchIdx, idx) into the
// preceding literal run, up to min(idx-literalFloor, matchIdx-0, maxExtend)
// bytes.
func matchBackward(src []byte, matchIdx, idx, literalFloor, maxExtend int) int {
	n := 0
	for n < maxExtend && idx-n-1 >= literalFloor && matchIdx-n-1 >= 0 && src[matchIdx-n-1] == src[idx-n-1] {
		n++
	}
	return n
}
