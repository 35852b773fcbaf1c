// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// vEntry is a decoder table row for the L/M/D alphabets: decoding pulls
// v_bits more bits to recover the symbol's value (vBase + those bits) and
// k bits to compute the next state.
type vEntry struct {
	k     uint8
	vBits uint8
	delta int16
	vBase uint32
}

// uEntry is a decoder table row for the 256-symbol literal alphabet:
// decoding yields symbol directly (no extra bits) and k bits feed the state
// update.
type uEntry struct {
	k      uint8
	symbol uint8
	delta  int16
}

// decode pulls this entry's bits from r and returns (nextState, value).
func (e vEntry) decode(r *bitReader) (uint32, uint32, error) {
	kb, err := r.pull(int(e.k))
	if err != nil {
		return 0, 0, err
	}
	next := uint32(int32(e.delta) + int32(kb))
	vb, err := r.pull(int(e.vBits))
	if err != nil {
		return 0, 0, err
	}
	return next, e.vBase + uint32(vb), nil
}

func (e uEntry) decode(r *bitReader) (nextState uint32, symbol uint8, err error) {
	kb, err := r.pull(int(e.k))
	if err != nil {
		return 0, 0, err
	}
	return uint32(int32(e.delta) + int32(kb)), e.symbol, nil
}

// buildVTable constructs the nStates-row decoder table for one of the L/M/D
// alphabets from normalized weights (len(weights) == number of symbols,
// sum(weights) == nStates). vBase[i] is the cumulative sum of "extra bit
// widths" worth of value space consumed by symbols before i -- in this
// codec the caller supplies the symbol's base value directly via baseOf.
func buildVTable(weights []uint16, nStates int, baseOf func(sym int) (base uint32, extraBits uint8)) []vEntry {
	table := make([]vEntry, nStates)
	nClz := leadingZeros32(uint32(nStates))
	total := 0
	for sym, w := range weights {
		if w == 0 {
			continue
		}
		wi := int(w)
		k := leadingZeros32(uint32(wi)) - nClz
		x := ((nStates << 1) >> uint(k)) - wi
		base, extraBits := baseOf(sym)
		for j := 0; j < wi; j++ {
			var e vEntry
			if j < x {
				e.k = uint8(k)
				e.delta = int16(((wi+j)<<uint(k) - nStates))
			} else {
				e.k = uint8(k - 1)
				e.delta = int16((j - x) << uint(k-1))
			}
			e.vBits = extraBits
			e.vBase = base
			table[total+j] = e
		}
		total += wi
	}
	// Entries beyond total are self-latching: zero bits pulled, state stays
	// at its current (invalid) value, vBits=0 so no value bits are
	// consumed either: decode(state) => next=state, value=0.
	for s := total; s < nStates; s++ {
		table[s].delta = int16(s)
	}
	return table
}

// buildUTable is buildVTable specialized for the 256-symbol literal
// alphabet, where there are no "extra bits": decoding yields the symbol
// index directly.
func buildUTable(weights []uint16, nStates int) []uEntry {
	table := make([]uEntry, nStates)
	nClz := leadingZeros32(uint32(nStates))
	total := 0
	for sym, w := range weights {
		if w == 0 {
			continue
		}
		wi := int(w)
		k := leadingZeros32(uint32(wi)) - nClz
		x := ((nStates << 1) >> uint(k)) - wi
		for j := 0; j < wi; j++ {
			var e uEntry
			if j < x {
				e.k = uint8(k)
				e.delta = int16((wi+j)<<uint(k) - nStates)
			} else {
				e.k = uint8(k - 1)
				e.delta = int16((j - x) << uint(k-1))
			}
			e.symbol = uint8(sym)
			table[total+j] = e
		}
		total += wi
	}
	return table
}

// encoderEntry is the mirror-image encoding table row: the exact inverse
// of buildVTable/buildUTable's per-state transition, following from the
// ANS bijectivity of the decoder's bucket assignment: the symbol's decoder
// rows j >= x (k-1 bits) cover states [0, s0) in blocks of 2^(k-1), rows
// j < x (k bits) cover [s0, nStates) in blocks of 2^k, and encode moves to
// the row (table index total+j) whose block holds s, pushing s's low bits.
type encoderEntry struct {
	s0     int32 // threshold: s < s0 uses k-1 bits, else k bits
	k      uint8
	delta0 int32 // used when s >= s0 (k bits)
	delta1 int32 // used when s < s0 (k-1 bits)
}

// buildEncoderTable constructs one encoderEntry per symbol (not per state)
// from the same weights used for the decoder table. total[i] is the
// cumulative weight sum before symbol i -- the decoder-state range assigned
// to symbol i starts there.
func buildEncoderTable(weights []uint16, nStates int) []encoderEntry {
	table := make([]encoderEntry, len(weights))
	nClz := leadingZeros32(uint32(nStates))
	total := 0
	for sym, w := range weights {
		if w == 0 {
			continue
		}
		wi := int(w)
		k := leadingZeros32(uint32(wi)) - nClz
		x := ((nStates << 1) >> uint(k)) - wi
		table[sym] = encoderEntry{
			s0:     int32(wi<<uint(k) - nStates),
			k:      uint8(k),
			delta0: int32(total - wi + (nStates >> uint(k))),
			delta1: int32(total + x),
		}
		total += wi
	}
	return table
}

// encode pushes symbol e's contribution to w and returns the updated state.
func (e encoderEntry) encode(w *bitWriter, s uint32) uint32 {
	if int32(s) < e.s0 {
		nb := int(e.k) - 1
		w.push(uint64(s), nb)
		return uint32(e.delta1 + int32(s>>uint(nb)))
	}
	w.push(uint64(s), int(e.k))
	return uint32(e.delta0 + int32(s>>uint(e.k)))
}
