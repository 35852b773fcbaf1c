package lzfse

import "testing"

type bitSpec struct {
	v uint64
	n int
}

func writeReadBack(t *testing.T, specs []bitSpec) {
	t.Helper()
	w := newBitWriter()
	for _, s := range specs {
		w.push(s.v, s.n)
	}
	payload, bitsField := w.finalize()

	r, err := newBitReader(payload, len(payload), bitsFieldToOff(bitsField))
	if err != nil {
		t.Fatalf("newBitReader failed: %v", err)
	}
	for i := len(specs) - 1; i >= 0; i-- {
		if err := r.flush(); err != nil {
			t.Fatalf("flush failed at spec %d: %v", i, err)
		}
		got, err := r.pull(specs[i].n)
		if err != nil {
			t.Fatalf("pull(%d) failed at spec %d: %v", specs[i].n, i, err)
		}
		if got != specs[i].v {
			t.Fatalf("spec %d: got %#x, want %#x", i, got, specs[i].v)
		}
	}
	if err := r.finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
}

func TestBitWriterReader_ReverseLaw(t *testing.T) {
	cases := []struct {
		name  string
		specs []bitSpec
	}{
		{name: "single-bit", specs: []bitSpec{{1, 1}}},
		{name: "byte-aligned", specs: []bitSpec{{0xAB, 8}, {0xCD, 8}}},
		{name: "mixed-widths", specs: []bitSpec{{0x1, 1}, {0x3F, 6}, {0x155, 10}, {0, 3}, {0x7FFF, 15}, {1, 1}}},
		{name: "wide-fields", specs: []bitSpec{{0x3FFFB, 18}, {0x2AA, 14}, {0x1F, 5}}},
		{name: "zero-width-pulls", specs: []bitSpec{{0, 0}, {0x7, 3}, {0, 0}, {0x5, 4}}},
		{name: "many-small", specs: func() []bitSpec {
			var s []bitSpec
			for i := 0; i < 200; i++ {
				s = append(s, bitSpec{uint64(i % 8), 3})
			}
			return s
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writeReadBack(t, tc.specs)
		})
	}
}

func TestBitWriter_BitsFieldRange(t *testing.T) {
	for n := 1; n <= 16; n++ {
		w := newBitWriter()
		w.push(0, n)
		_, bitsField := w.finalize()
		if bitsField < -7 || bitsField > 0 {
			t.Fatalf("n=%d: bits field %d out of [-7,0]", n, bitsField)
		}
		if off := bitsFieldToOff(bitsField); off != n%8 {
			t.Fatalf("n=%d: off %d, want %d", n, off, n%8)
		}
	}
}

func TestNewBitReader_BadOffset(t *testing.T) {
	if _, err := newBitReader([]byte{0x01}, 1, 8); err != ErrBadBitStream {
		t.Fatalf("off=8: got %v, want ErrBadBitStream", err)
	}
	if _, err := newBitReader([]byte{0x01}, 1, -1); err != ErrBadBitStream {
		t.Fatalf("off=-1: got %v, want ErrBadBitStream", err)
	}
}

func TestNewBitReader_RejectsDirtyHighBits(t *testing.T) {
	// Final byte claims 3 valid bits but carries data above them.
	if _, err := newBitReader([]byte{0xFF}, 1, 3); err != ErrBadBitStream {
		t.Fatalf("got %v, want ErrBadBitStream", err)
	}
	if _, err := newBitReader([]byte{0x07}, 1, 3); err != nil {
		t.Fatalf("clean high bits rejected: %v", err)
	}
}

func TestBitReader_FinalizeDetectsUnderPull(t *testing.T) {
	w := newBitWriter()
	w.push(0x12, 8)
	w.push(0x34, 8)
	payload, bitsField := w.finalize()

	r, err := newBitReader(payload, len(payload), bitsFieldToOff(bitsField))
	if err != nil {
		t.Fatalf("newBitReader failed: %v", err)
	}
	if err := r.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, err := r.pull(8); err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	// One byte left unconsumed.
	if err := r.finalize(); err != ErrPayloadOverflow {
		t.Fatalf("got %v, want ErrPayloadOverflow", err)
	}
}

func TestBitReader_OverPullFails(t *testing.T) {
	w := newBitWriter()
	w.push(0x5, 3)
	payload, bitsField := w.finalize()

	r, err := newBitReader(payload, len(payload), bitsFieldToOff(bitsField))
	if err != nil {
		t.Fatalf("newBitReader failed: %v", err)
	}
	if err := r.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, err := r.pull(3); err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if _, err := r.pull(1); err != ErrPayloadUnderflow {
		t.Fatalf("got %v, want ErrPayloadUnderflow", err)
	}
}
