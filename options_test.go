package lzfse

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncoderOptions_CutoffOverrides(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 100)

	// A raised raw cutoff forces a raw block where the default picks VN.
	cmp, err := Encode(data, &EncoderOptions{RawCutoff: 200})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := binary.LittleEndian.Uint32(cmp); got != magicRaw {
		t.Fatalf("raised RawCutoff: magic %08x, want raw", got)
	}

	// A lowered VN cutoff forces FSE where the default picks VN.
	cmp, err = Encode(data, &EncoderOptions{VnCutoff: 50})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := binary.LittleEndian.Uint32(cmp); got != magicFSE {
		t.Fatalf("lowered VnCutoff: magic %08x, want fse", got)
	}
	out, err := Decode(cmp, nil)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch under lowered VnCutoff")
	}
}

func TestOptions_Defaults(t *testing.T) {
	eo := DefaultEncoderOptions()
	if eo.RawCutoff != rawCutoff || eo.VnCutoff != vnCutoff {
		t.Fatalf("unexpected defaults: %+v", eo)
	}
	var nilOpts *EncoderOptions
	if nilOpts.rawCutoff() != rawCutoff || nilOpts.vnCutoff() != vnCutoff {
		t.Fatalf("nil options must fall back to defaults")
	}
	do := DefaultDecoderOptions(4096)
	if do.OutLen != 4096 || do.MaxInputSize != 0 {
		t.Fatalf("unexpected decoder defaults: %+v", do)
	}
}
