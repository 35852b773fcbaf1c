// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "encoding/binary"

// fseHeader carries the fields common to bvx1 (verbose) and bvx2 (compact)
// blocks, after decompaction.
type fseHeader struct {
	nRawBytes        uint32
	nPayloadBytes    uint32
	nLiterals        uint32
	nLiteralPayload  uint32
	literalBits      int32
	literalState     [4]uint16
	nMatches         uint32
	nLmdPayload      uint32
	lmdBits          int32
	lState           uint16
	mState           uint16
	dState           uint16
	literalWeights   []uint16 // uSymbols
	lWeights         []uint16 // lSymbols
	mWeights         []uint16 // mSymbols
	dWeights         []uint16 // dSymbols
}

// fixedHeaderLen is the byte length of the fixed-size portion common to
// both variants (everything except the weight table): eight u32 counters
// plus seven u16 decoder states.
const fixedHeaderLen = 8*4 + 7*2

func (h *fseHeader) writeFixed(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.nRawBytes)
	dst = binary.LittleEndian.AppendUint32(dst, h.nPayloadBytes)
	dst = binary.LittleEndian.AppendUint32(dst, h.nLiterals)
	dst = binary.LittleEndian.AppendUint32(dst, h.nLiteralPayload)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.literalBits))
	for _, s := range h.literalState {
		dst = binary.LittleEndian.AppendUint16(dst, s)
	}
	dst = binary.LittleEndian.AppendUint32(dst, h.nMatches)
	dst = binary.LittleEndian.AppendUint32(dst, h.nLmdPayload)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.lmdBits))
	dst = binary.LittleEndian.AppendUint16(dst, h.lState)
	dst = binary.LittleEndian.AppendUint16(dst, h.mState)
	dst = binary.LittleEndian.AppendUint16(dst, h.dState)
	return dst
}

func readFixed(src []byte) (fseHeader, int, error) {
	if len(src) < fixedHeaderLen {
		return fseHeader{}, 0, ErrBadBlock
	}
	var h fseHeader
	p := 0
	rd32 := func() uint32 {
		v := binary.LittleEndian.Uint32(src[p:])
		p += 4
		return v
	}
	rd16 := func() uint16 {
		v := binary.LittleEndian.Uint16(src[p:])
		p += 2
		return v
	}
	h.nRawBytes = rd32()
	h.nPayloadBytes = rd32()
	h.nLiterals = rd32()
	h.nLiteralPayload = rd32()
	h.literalBits = int32(rd32())
	for i := range h.literalState {
		h.literalState[i] = rd16()
	}
	h.nMatches = rd32()
	h.nLmdPayload = rd32()
	h.lmdBits = int32(rd32())
	h.lState = rd16()
	h.mState = rd16()
	h.dState = rd16()
	if h.literalBits < -7 || h.literalBits > 0 {
		return fseHeader{}, 0, ErrBadLiteralBits
	}
	if h.lmdBits < -7 || h.lmdBits > 0 {
		return fseHeader{}, 0, ErrBadLmdBits
	}
	return h, p, nil
}

// encodeFseBlock renders one FSE block (bvx1 when verbose is true, bvx2
// otherwise) from a literal buffer and its paired LMD sequence.
func encodeFseBlock(dst []byte, nRawBytes uint32, literals []byte, lmds []lmdPack, verbose bool) []byte {
	literalCounts := make([]uint32, uSymbols)
	for _, b := range literals {
		literalCounts[b]++
	}
	if len(literals) == 0 {
		// A literal-free block still needs a literal table whose weights sum
		// to uStates; no literal symbol is ever coded with it.
		literalCounts[0] = 1
	}
	lCounts := make([]uint32, lSymbols)
	mCounts := make([]uint32, mSymbols)
	dCounts := make([]uint32, dSymbols)
	for _, p := range lmds {
		lSym, _ := symbolFor(lBase, lExtra, p.L)
		lCounts[lSym]++
		mSym, _ := symbolFor(mBase, mExtra, p.M)
		mCounts[mSym]++
		d := p.D
		if d == 0 {
			d = 1 // M=0 placeholder entries carry no real distance; count them as D=1
		}
		dSym, _ := symbolFor(dBase, dExtra, d-1)
		dCounts[dSym]++
	}

	uWeights := normalizeWeights(literalCounts, uStates)
	lWeights := normalizeWeights(lCounts, lStates)
	mWeights := normalizeWeights(mCounts, mStates)
	dWeights := normalizeWeights(dCounts, dStates)

	uEnc := buildEncoderTable(uWeights, uStates)
	lEnc := buildEncoderTable(lWeights, lStates)
	mEnc := buildEncoderTable(mWeights, mStates)
	dEnc := buildEncoderTable(dWeights, dStates)

	litPayload, nLit, litBits, litStates := storeLiteralStream(literals, uEnc)
	lmdPayload, nMatches, lmdBits, lSt, mSt, dSt := storeLmdStream(lmds, lEnc, mEnc, dEnc)

	h := fseHeader{
		nRawBytes:       nRawBytes,
		nLiterals:       nLit,
		nLiteralPayload: uint32(len(litPayload)),
		literalBits:     int32(litBits),
		literalState:    litStates,
		nMatches:        nMatches,
		nLmdPayload:     uint32(len(lmdPayload)),
		lmdBits:         int32(lmdBits),
		lState:          lSt,
		mState:          mSt,
		dState:          dSt,
	}
	h.nPayloadBytes = h.nLiteralPayload + h.nLmdPayload

	if verbose {
		dst = appendMagic(dst, magicFSV)
	} else {
		dst = appendMagic(dst, magicFSE)
	}
	dst = h.writeFixed(dst)
	if verbose {
		flat := append(append(append(append([]uint16{}, lWeights...), mWeights...), dWeights...), uWeights...)
		dst = append(dst, encodeWeightsFixed10(flat)...)
	} else {
		flat := append(append(append(append([]uint16{}, lWeights...), mWeights...), dWeights...), uWeights...)
		dst = append(dst, encodeWeightNibbles(flat)...)
	}
	dst = append(dst, litPayload...)
	dst = append(dst, lmdPayload...)
	return dst
}

// decodeFseBlock reads one FSE block's body (magic already consumed),
// appends the reconstructed output to dst, and reports the number of input
// bytes consumed. Match distances may reach into dst's existing bytes.
func decodeFseBlock(dst []byte, src []byte, verbose bool) (out []byte, consumed int, err error) {
	h, n, err := readFixed(src)
	if err != nil {
		return nil, 0, err
	}
	rest := src[n:]

	const totalSymbols = lSymbols + mSymbols + dSymbols + uSymbols
	var flat []uint16
	var weightBytes int
	if verbose {
		weightBytes = (totalSymbols*10 + 7) / 8
		if len(rest) < weightBytes {
			return nil, 0, ErrBadWeightPayload
		}
		flat, err = decodeWeightsFixed10(rest[:weightBytes], totalSymbols)
		if err != nil {
			return nil, 0, err
		}
	} else {
		// bvx2's nibble payload length isn't separately declared; decode
		// greedily from rest and measure how many bytes it consumed by
		// re-encoding isn't viable without a declared length, so this
		// codec declares it implicitly via a forward bit reader that
		// simply stops once totalSymbols values are read, then rounds up
		// to the next byte boundary (matching encodeWeightNibbles/
		// decodeWeightNibbles' own bit packing).
		flat, weightBytes, err = decodeWeightNibblesCounted(rest, totalSymbols)
		if err != nil {
			return nil, 0, err
		}
	}
	if len(flat) != totalSymbols {
		return nil, 0, ErrBadWeightPayloadCount
	}
	h.lWeights = flat[0:lSymbols]
	h.mWeights = flat[lSymbols : lSymbols+mSymbols]
	h.dWeights = flat[lSymbols+mSymbols : lSymbols+mSymbols+dSymbols]
	h.literalWeights = flat[lSymbols+mSymbols+dSymbols:]

	if err := checkWeightSum(h.lWeights, lStates); err != nil {
		return nil, 0, err
	}
	if err := checkWeightSum(h.mWeights, mStates); err != nil {
		return nil, 0, err
	}
	if err := checkWeightSum(h.dWeights, dStates); err != nil {
		return nil, 0, err
	}
	if err := checkWeightSum(h.literalWeights, uStates); err != nil {
		return nil, 0, err
	}

	if h.nPayloadBytes != h.nLiteralPayload+h.nLmdPayload {
		return nil, 0, ErrBadBlock
	}
	if uint64(h.nLiterals) > uint64(h.nRawBytes)+3 {
		return nil, 0, ErrBadLiteralCount
	}
	if uint64(h.nMatches) > uint64(h.nRawBytes)+1 {
		return nil, 0, ErrBadLmdCount
	}

	body := rest[weightBytes:]
	if uint64(h.nLiteralPayload)+uint64(h.nLmdPayload) > uint64(len(body)) {
		return nil, 0, ErrBadLiteralPayload
	}
	litPayload := body[:h.nLiteralPayload]
	lmdPayload := body[h.nLiteralPayload : h.nLiteralPayload+h.nLmdPayload]

	uDec := buildUTable(h.literalWeights, uStates)
	lDec := buildVTable(h.lWeights, lStates, lBaseOf)
	mDec := buildVTable(h.mWeights, mStates, mBaseOf)
	dDec := buildVTable(h.dWeights, dStates, dBaseOf)

	if h.nLiterals%4 != 0 {
		return nil, 0, ErrBadLiteralCount
	}
	literals, err := loadLiteralStream(litPayload, h.nLiterals, int(h.literalBits), h.literalState, uDec)
	if err != nil {
		return nil, 0, err
	}
	lmds, err := loadLmdStream(lmdPayload, h.nMatches, int(h.lmdBits), h.lState, h.mState, h.dState, lDec, mDec, dDec)
	if err != nil {
		return nil, 0, err
	}

	out, err = reconstructFromLmds(dst, literals, lmds, int(h.nRawBytes))
	if err != nil {
		return nil, 0, err
	}
	return out, n + weightBytes + int(h.nLiteralPayload) + int(h.nLmdPayload), nil
}

func lBaseOf(sym int) (uint32, uint8) { return lBase[sym], lExtra[sym] }
func mBaseOf(sym int) (uint32, uint8) { return mBase[sym], mExtra[sym] }
func dBaseOf(sym int) (uint32, uint8) { return dBase[sym], dExtra[sym] }

func checkWeightSum(weights []uint16, nStates int) error {
	var sum int
	for _, w := range weights {
		sum += int(w)
	}
	if sum > nStates {
		return ErrWeightPayloadOverflow
	}
	if sum < nStates {
		return ErrWeightPayloadUnderflow
	}
	return nil
}

// reconstructFromLmds expands a literal buffer and an LMD sequence into
// exactly nRawBytes of output appended to dst: each lmdPack contributes L
// literal bytes (consumed in order from literals) followed by an M-byte
// copy from D bytes behind the current output position. Distances may
// reach into dst's pre-existing bytes.
func reconstructFromLmds(dst []byte, literals []byte, lmds []lmdPack, nRawBytes int) ([]byte, error) {
	out := dst
	base := len(out)
	litPos := 0
	for _, p := range lmds {
		if litPos+int(p.L) > len(literals) {
			return nil, ErrBadLmdPayload
		}
		if len(out)-base+int(p.L)+int(p.M) > nRawBytes {
			return nil, ErrBadRawByteCount
		}
		out = append(out, literals[litPos:litPos+int(p.L)]...)
		litPos += int(p.L)
		if p.M == 0 {
			continue
		}
		if p.D == 0 || int(p.D) > len(out) {
			return nil, ErrBadLmdPayload
		}
		start := len(out) - int(p.D)
		for remaining := int(p.M); remaining > 0; {
			avail := len(out) - start
			n := avail
			if n > remaining {
				n = remaining
			}
			out = append(out, out[start:start+n]...)
			remaining -= n
		}
	}
	// Up to three literals may remain unconsumed: the encoder pads the
	// literal stream to a multiple of four, and the padding is not covered
	// by any LMD entry.
	if len(literals)-litPos >= 4 {
		return nil, ErrBadLmdPayload
	}
	if len(out)-base != nRawBytes {
		return nil, ErrBadRawByteCount
	}
	return out, nil
}
