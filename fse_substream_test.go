package lzfse

import (
	"bytes"
	"testing"
)

func literalTables(t *testing.T, literals []byte) ([]encoderEntry, []uEntry) {
	t.Helper()
	counts := make([]uint32, uSymbols)
	for _, b := range literals {
		counts[b]++
	}
	weights := normalizeWeights(counts, uStates)
	return buildEncoderTable(weights, uStates), buildUTable(weights, uStates)
}

func lmdTables(t *testing.T, packs []lmdPack) (lEnc, mEnc, dEnc []encoderEntry, lDec, mDec, dDec []vEntry) {
	t.Helper()
	lCounts := make([]uint32, lSymbols)
	mCounts := make([]uint32, mSymbols)
	dCounts := make([]uint32, dSymbols)
	for _, p := range packs {
		lSym, _ := symbolFor(lBase, lExtra, p.L)
		lCounts[lSym]++
		mSym, _ := symbolFor(mBase, mExtra, p.M)
		mCounts[mSym]++
		dSym, _ := symbolFor(dBase, dExtra, p.D-1)
		dCounts[dSym]++
	}
	lw := normalizeWeights(lCounts, lStates)
	mw := normalizeWeights(mCounts, mStates)
	dw := normalizeWeights(dCounts, dStates)
	return buildEncoderTable(lw, lStates), buildEncoderTable(mw, mStates), buildEncoderTable(dw, dStates),
		buildVTable(lw, lStates, lBaseOf), buildVTable(mw, mStates, mBaseOf), buildVTable(dw, dStates, dBaseOf)
}

func TestLiteralStream_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte{0x42},
		[]byte("ab"),
		[]byte("abc"),
		[]byte("abcd"),
		[]byte("entropy coded literal stream round trip"),
		bytes.Repeat([]byte("the quick brown fox "), 200),
		bytes.Repeat([]byte{0x00}, 4096),
	}
	for _, literals := range inputs {
		enc, dec := literalTables(t, literals)
		payload, nLit, bits, states := storeLiteralStream(literals, enc)
		if int(nLit) != (len(literals)+3)/4*4 {
			t.Fatalf("n_literals %d for %d input bytes", nLit, len(literals))
		}
		for i, s := range states {
			if int(s) >= uStates {
				t.Fatalf("final state %d out of range: %d", i, s)
			}
		}
		out, err := loadLiteralStream(payload, nLit, bits, states, dec)
		if err != nil {
			t.Fatalf("loadLiteralStream failed for %d literals: %v", len(literals), err)
		}
		if !bytes.Equal(out[:len(literals)], literals) {
			t.Fatalf("round-trip mismatch for %d literals", len(literals))
		}
	}
}

func TestLiteralStream_RejectsUnalignedCount(t *testing.T) {
	literals := []byte("abcdefgh")
	enc, dec := literalTables(t, literals)
	payload, nLit, bits, states := storeLiteralStream(literals, enc)
	if _, err := loadLiteralStream(payload, nLit+1, bits, states, dec); err != ErrBadLiteralCount {
		t.Fatalf("got %v, want ErrBadLiteralCount", err)
	}
}

func TestLiteralStream_RejectsOutOfRangeState(t *testing.T) {
	literals := []byte("abcdefgh")
	enc, dec := literalTables(t, literals)
	payload, nLit, bits, states := storeLiteralStream(literals, enc)
	states[2] = uint16(uStates)
	if _, err := loadLiteralStream(payload, nLit, bits, states, dec); err != ErrBadLiteralState {
		t.Fatalf("got %v, want ErrBadLiteralState", err)
	}
}

func TestLiteralStream_TruncatedPayload(t *testing.T) {
	literals := bytes.Repeat([]byte("variety 0123456789"), 40)
	enc, dec := literalTables(t, literals)
	payload, nLit, bits, states := storeLiteralStream(literals, enc)
	if _, err := loadLiteralStream(payload[:len(payload)/2], nLit, bits, states, dec); err == nil {
		t.Fatalf("truncated literal payload unexpectedly decoded")
	}
}

func TestLmdStream_RoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		packs []lmdPack
	}{
		{name: "single", packs: []lmdPack{{L: 3, M: 7, D: 2}}},
		{name: "boundary-values", packs: []lmdPack{
			{L: 0, M: 0, D: 1},
			{L: maxLValue, M: maxMValue, D: maxDValue},
			{L: 1, M: 4, D: 1},
			{L: 315, M: 0, D: 1},
		}},
		{name: "many", packs: func() []lmdPack {
			var ps []lmdPack
			for i := 0; i < 500; i++ {
				ps = append(ps, lmdPack{
					L: uint32(i % (maxLValue + 1)),
					M: uint32((i * 17) % (maxMValue + 1)),
					D: uint32(i%1000) + 1,
				})
			}
			return ps
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lEnc, mEnc, dEnc, lDec, mDec, dDec := lmdTables(t, tc.packs)
			payload, n, bits, lSt, mSt, dSt := storeLmdStream(tc.packs, lEnc, mEnc, dEnc)
			if int(n) != len(tc.packs) {
				t.Fatalf("n_matches %d, want %d", n, len(tc.packs))
			}
			out, err := loadLmdStream(payload, n, bits, lSt, mSt, dSt, lDec, mDec, dDec)
			if err != nil {
				t.Fatalf("loadLmdStream failed: %v", err)
			}
			for i := range tc.packs {
				if out[i] != tc.packs[i] {
					t.Fatalf("pack %d: got %+v, want %+v", i, out[i], tc.packs[i])
				}
			}
		})
	}
}

func TestLmdStream_RejectsOutOfRangeStates(t *testing.T) {
	packs := []lmdPack{{L: 1, M: 4, D: 2}, {L: 0, M: 5, D: 2}}
	lEnc, mEnc, dEnc, lDec, mDec, dDec := lmdTables(t, packs)
	payload, n, bits, lSt, mSt, dSt := storeLmdStream(packs, lEnc, mEnc, dEnc)
	if _, err := loadLmdStream(payload, n, bits, uint16(lStates), mSt, dSt, lDec, mDec, dDec); err != ErrBadLmdState {
		t.Fatalf("l state: got %v, want ErrBadLmdState", err)
	}
	if _, err := loadLmdStream(payload, n, bits, lSt, uint16(mStates), dSt, lDec, mDec, dDec); err != ErrBadLmdState {
		t.Fatalf("m state: got %v, want ErrBadLmdState", err)
	}
	if _, err := loadLmdStream(payload, n, bits, lSt, mSt, uint16(dStates), lDec, mDec, dDec); err != ErrBadLmdState {
		t.Fatalf("d state: got %v, want ErrBadLmdState", err)
	}
}

func TestLmdStream_TruncatedPayload(t *testing.T) {
	var packs []lmdPack
	for i := 0; i < 64; i++ {
		packs = append(packs, lmdPack{L: uint32(i), M: uint32(i * 3), D: uint32(i) + 1})
	}
	lEnc, mEnc, dEnc, lDec, mDec, dDec := lmdTables(t, packs)
	payload, n, bits, lSt, mSt, dSt := storeLmdStream(packs, lEnc, mEnc, dEnc)
	if _, err := loadLmdStream(payload[:len(payload)/3], n, bits, lSt, mSt, dSt, lDec, mDec, dDec); err == nil {
		t.Fatalf("truncated lmd payload unexpectedly decoded")
	}
}
