// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// match describes one candidate LZ match: matchLen bytes at idx,
// duplicating the matchLen bytes at matchIdx.
type match struct {
	idx      idx
	matchIdx idx
	matchLen uint32
}

// empty reports whether m carries no match (the zero value).
func (m match) empty() bool {
	return m.matchLen == 0
}

// end returns the idx one past the end of m's matched run.
func (m match) end() idx {
	return m.idx.add(int32(m.matchLen))
}

// selectMatch arbitrates between the pending match *m and a freshly found
// incoming match. It returns the match to emit now (if any) and mutates *m
// to hold whatever should remain pending.
//
// goodMatchLen is an argument so the threshold is visible at call sites;
// callers always pass the package constant.
func selectMatch(m *match, incoming match, goodMatchLen uint32) (match, bool) {
	switch {
	case incoming.matchLen == 0:
		return match{}, false
	case incoming.matchLen >= goodMatchLen:
		out := incoming
		m.matchLen = 0
		return out, true
	case m.matchLen == 0:
		*m = incoming
		return match{}, false
	case m.idx.add(int32(m.matchLen)).sub(incoming.idx) <= 0:
		out := *m
		*m = incoming
		return out, true
	case incoming.matchLen > m.matchLen:
		out := incoming
		m.matchLen = 0
		return out, true
	default:
		out := *m
		m.matchLen = 0
		return out, true
	}
}
