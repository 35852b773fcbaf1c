// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// Literal and LMD sub-streams: the FSE block body carries two independently
// bit-packed regions sharing the block's reverse-bit-stream convention.
// Both are written starting from the *end* of their logical sequence so
// that a forward-reading decoder naturally recovers the original order --
// see bitio.go's bitReader/bitWriter doc comments for why a LIFO push/pull
// pair achieves this without either side needing to reverse anything
// explicitly.

// bitsFieldToOff converts a stored *_bits header field (range [-7,0], 0
// meaning byte-aligned) back into the bitReader off parameter (the number
// of valid bits in the payload's last byte).
func bitsFieldToOff(bitsField int) int {
	if bitsField == 0 {
		return 0
	}
	return bitsField + 8
}

// storeLiteralStream bit-packs literals (padded up to a multiple of 4 with
// repeats of literals[0]) using four interleaved encoder states, returning
// the payload bytes, the padded literal count, the residual bits field, and
// the four final states (recorded in the block header so the decoder can
// initialize from them).
func storeLiteralStream(literals []byte, table []encoderEntry) (payload []byte, nLiterals uint32, bits int, states [4]uint16) {
	n := len(literals)
	padded := (n + 3) / 4 * 4
	buf := make([]byte, padded)
	copy(buf, literals)
	if padded > n && n > 0 {
		for i := n; i < padded; i++ {
			buf[i] = literals[0]
		}
	}

	w := newBitWriter()
	var s [4]uint32
	i := padded
	for i != 0 {
		s[3] = table[buf[i-1]].encode(w, s[3])
		s[2] = table[buf[i-2]].encode(w, s[2])
		s[1] = table[buf[i-3]].encode(w, s[1])
		s[0] = table[buf[i-4]].encode(w, s[0])
		i -= 4
	}
	payload, bits = w.finalize()
	return payload, uint32(padded), bits, [4]uint16{uint16(s[0]), uint16(s[1]), uint16(s[2]), uint16(s[3])}
}

// loadLiteralStream is storeLiteralStream's inverse: it decodes nLiterals
// bytes (nLiterals must be a multiple of 4) from payload, verifying
// termination (all four states reach zero).
func loadLiteralStream(payload []byte, nLiterals uint32, bits int, states [4]uint16, table []uEntry) ([]byte, error) {
	if nLiterals%4 != 0 {
		return nil, ErrBadLiteralCount
	}
	for _, st := range states {
		if int(st) >= len(table) {
			return nil, ErrBadLiteralState
		}
	}
	r, err := newBitReader(payload, len(payload), bitsFieldToOff(bits))
	if err != nil {
		return nil, ErrBadBitStream
	}
	s := [4]uint32{uint32(states[0]), uint32(states[1]), uint32(states[2]), uint32(states[3])}
	// Grown incrementally so a lying header can't demand a giant up-front
	// allocation it has no payload for.
	out := make([]byte, 0, initialAlloc(int(nLiterals)))
	var group [4]byte
	for i := uint32(0); i != nLiterals; i += 4 {
		// One refill covers the whole group: four literals pull at most
		// 4*10 bits, well under what a flush leaves available.
		if err := r.flush(); err != nil {
			return nil, err
		}
		var sym uint8
		var e error
		s[0], sym, e = table[s[0]].decode(r)
		if e != nil {
			return nil, e
		}
		group[0] = sym
		s[1], sym, e = table[s[1]].decode(r)
		if e != nil {
			return nil, e
		}
		group[1] = sym
		s[2], sym, e = table[s[2]].decode(r)
		if e != nil {
			return nil, e
		}
		group[2] = sym
		s[3], sym, e = table[s[3]].decode(r)
		if e != nil {
			return nil, e
		}
		group[3] = sym
		out = append(out, group[:]...)
	}
	if err := r.finalize(); err != nil {
		return nil, err
	}
	if s[0] != 0 || s[1] != 0 || s[2] != 0 || s[3] != 0 {
		return nil, ErrBadLiteralState
	}
	return out, nil
}

// storeLmdStream bit-packs an LMD sequence (L, M, D-1 triples) using three
// interleaved encoder states, processing lmds in reverse order so that
// forward decode recovers the original sequence (see package doc above).
func storeLmdStream(lmds []lmdPack, lTable, mTable, dTable []encoderEntry) (payload []byte, n uint32, bits int, lState, mState, dState uint16) {
	w := newBitWriter()
	var sl, sm, sd uint32
	for i := len(lmds) - 1; i >= 0; i-- {
		p := lmds[i]
		d := p.D
		if d == 0 {
			d = 1
		}
		dSym, dExtraVal := symbolFor(dBase, dExtra, d-1)
		w.push(uint64(dExtraVal), int(dExtra[dSym]))
		sd = dTable[dSym].encode(w, sd)

		mSym, mExtraVal := symbolFor(mBase, mExtra, p.M)
		w.push(uint64(mExtraVal), int(mExtra[mSym]))
		sm = mTable[mSym].encode(w, sm)

		lSym, lExtraVal := symbolFor(lBase, lExtra, p.L)
		w.push(uint64(lExtraVal), int(lExtra[lSym]))
		sl = lTable[lSym].encode(w, sl)
	}
	payload, bits = w.finalize()
	return payload, uint32(len(lmds)), bits, uint16(sl), uint16(sm), uint16(sd)
}

// loadLmdStream is storeLmdStream's inverse.
func loadLmdStream(payload []byte, n uint32, bits int, lState, mState, dState uint16, lTable, mTable, dTable []vEntry) ([]lmdPack, error) {
	if int(lState) >= len(lTable) || int(mState) >= len(mTable) || int(dState) >= len(dTable) {
		return nil, ErrBadLmdState
	}
	r, err := newBitReader(payload, len(payload), bitsFieldToOff(bits))
	if err != nil {
		return nil, ErrBadBitStream
	}
	sl, sm, sd := uint32(lState), uint32(mState), uint32(dState)
	out := make([]lmdPack, 0, initialAlloc(int(n)))
	for i := uint32(0); i < n; i++ {
		// One refill per triple: the L, M and D components together pull
		// fewer bits than a flush leaves available on a 64-bit accumulator.
		if err := r.flush(); err != nil {
			return nil, err
		}
		var lVal, mVal, dVal uint32
		var e error
		sl, lVal, e = lTable[sl].decode(r)
		if e != nil {
			return nil, e
		}
		sm, mVal, e = mTable[sm].decode(r)
		if e != nil {
			return nil, e
		}
		sd, dVal, e = dTable[sd].decode(r)
		if e != nil {
			return nil, e
		}
		out = append(out, lmdPack{L: lVal, M: mVal, D: dVal + 1})
	}
	if err := r.finalize(); err != nil {
		return nil, err
	}
	if sl != 0 || sm != 0 || sd != 0 {
		return nil, ErrBadLmdState
	}
	return out, nil
}
