package lzfse

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// incompressibleBytes returns n bytes of a little-endian 16-bit counter
// stream. Its overlapping three-byte windows are pairwise distinct except
// for a handful of carry-boundary coincidences, so no backend can beat the
// raw encoding of it.
func incompressibleBytes(n int) []byte {
	out := make([]byte, 0, n+1)
	for i := 0; len(out) < n; i++ {
		out = append(out, byte(i), byte(i>>8))
	}
	return out[:n]
}

func TestEncode_GoldenEmptyInput(t *testing.T) {
	got, err := Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{
		0x62, 0x76, 0x78, 0x2D, 0x00, 0x00, 0x00, 0x00, // bvx- len=0
		0x62, 0x76, 0x78, 0x24, // bvx$
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("empty frame mismatch:\n got  % x\n want % x", got, want)
	}
}

func TestEncode_GoldenSingleZeroByte(t *testing.T) {
	got, err := Encode([]byte{0x00}, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{
		0x62, 0x76, 0x78, 0x2D, 0x01, 0x00, 0x00, 0x00, // bvx- len=1
		0x00,
		0x62, 0x76, 0x78, 0x24, // bvx$
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("one-byte frame mismatch:\n got  % x\n want % x", got, want)
	}
}

func TestEncode_GoldenTwentyZeroBytes(t *testing.T) {
	got, err := Encode(bytes.Repeat([]byte{0x00}, 20), nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x62, 0x76, 0x78, 0x2D, 0x14, 0x00, 0x00, 0x00}
	want = append(want, bytes.Repeat([]byte{0x00}, 20)...)
	want = append(want, 0x62, 0x76, 0x78, 0x24)
	if !bytes.Equal(got, want) {
		t.Fatalf("raw-cutoff frame mismatch:\n got  % x\n want % x", got, want)
	}
}

func TestEncode_ModeSelectionBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		data      []byte
		wantMagic uint32
	}{
		{name: "raw-cutoff", data: bytes.Repeat([]byte{0x00}, rawCutoff), wantMagic: magicRaw},
		{name: "just-above-raw-cutoff", data: bytes.Repeat([]byte{0x00}, rawCutoff+1), wantMagic: magicVN},
		{name: "vn-cutoff", data: bytes.Repeat([]byte{0x00}, vnCutoff), wantMagic: magicVN},
		{name: "just-above-vn-cutoff", data: bytes.Repeat([]byte{0x00}, vnCutoff+1), wantMagic: magicFSE},
		{name: "incompressible-below-vn-cutoff", data: incompressibleBytes(vnCutoff), wantMagic: magicRaw},
		{name: "incompressible-above-vn-cutoff", data: incompressibleBytes(vnCutoff + 1), wantMagic: magicFSE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmp, err := Encode(tc.data, nil)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			magic := binary.LittleEndian.Uint32(cmp)
			if magic != tc.wantMagic {
				t.Fatalf("block magic: got %08x, want %08x", magic, tc.wantMagic)
			}
			if tc.wantMagic != magicRaw {
				nRaw := binary.LittleEndian.Uint32(cmp[4:])
				if int(nRaw) != len(tc.data) {
					t.Fatalf("n_raw_bytes: got %d, want %d", nRaw, len(tc.data))
				}
			}
			out, err := Decode(cmp, DefaultDecoderOptions(len(tc.data)))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(out, tc.data) {
				t.Fatalf("round-trip mismatch: got=%d want=%d", len(out), len(tc.data))
			}
		})
	}
}

func TestDecodeFrame_EOSOnly(t *testing.T) {
	out, n, err := decodeFrame([]byte{0x62, 0x76, 0x78, 0x24}, 0)
	if err != nil {
		t.Fatalf("decode of bare EOS failed: %v", err)
	}
	if len(out) != 0 || n != 4 {
		t.Fatalf("bare EOS: got %d bytes, consumed %d", len(out), n)
	}
}

func TestDecodeFrame_UnknownMagic(t *testing.T) {
	if _, _, err := decodeFrame([]byte{'b', 'v', 'x', '?', 0, 0, 0, 0}, 0); err != ErrBadBlock {
		t.Fatalf("got %v, want ErrBadBlock", err)
	}
}

func TestDecodeFrame_MissingEOS(t *testing.T) {
	frame := encodeRawBlock(nil, []byte("abc"))
	if _, _, err := decodeFrame(frame, 0); err != ErrBadBlock {
		t.Fatalf("got %v, want ErrBadBlock", err)
	}
}

func TestDecodeFrame_TruncatedVnPayload(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 64)
	cmp, err := Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if binary.LittleEndian.Uint32(cmp) != magicVN {
		t.Fatalf("expected a VN block, got %08x", binary.LittleEndian.Uint32(cmp))
	}
	// Claim more payload than the frame carries.
	mutated := append([]byte(nil), cmp...)
	binary.LittleEndian.PutUint32(mutated[8:], uint32(len(cmp)))
	if _, _, err := decodeFrame(mutated, 0); err != ErrPayloadUnderflow {
		t.Fatalf("got %v, want ErrPayloadUnderflow", err)
	}
}

func TestDecodeRawBlock_CountMismatch(t *testing.T) {
	src := []byte{0x05, 0x00, 0x00, 0x00, 0xAA, 0xBB} // claims 5, carries 2
	if _, _, err := decodeRawBlock(src); err != ErrBadRawByteCount {
		t.Fatalf("got %v, want ErrBadRawByteCount", err)
	}
}

// Boundary mutations on block headers must produce typed errors or valid
// output, never panics.
func TestDecode_HeaderBoundaryMutations(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte{0x00}, 21),
		bytes.Repeat([]byte("abcabcabc"), 600),
		incompressibleBytes(5000),
	}
	for _, data := range inputs {
		cmp, err := Encode(data, nil)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		for _, off := range []int{4, 8} {
			for _, delta := range []int32{-1, 1} {
				mutated := append([]byte(nil), cmp...)
				v := binary.LittleEndian.Uint32(mutated[off:])
				binary.LittleEndian.PutUint32(mutated[off:], uint32(int32(v)+delta))
				out, err := Decode(mutated, nil)
				if err == nil && bytes.Equal(out, data) && delta != 0 {
					t.Fatalf("mutation off=%d delta=%d silently round-tripped", off, delta)
				}
			}
		}
	}
}
