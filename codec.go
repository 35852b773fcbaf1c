// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import (
	"io"
	"sync"
)

// historyTablePool lets the frontends reuse the 16384-bucket hashed
// history table across calls instead of zeroing a fresh one every time.
var historyTablePool = sync.Pool{
	New: func() any {
		return newHistoryTable()
	},
}

func acquireHistoryTable() *historyTable {
	t := historyTablePool.Get().(*historyTable)
	t.resetWithIdx(0)
	return t
}

func releaseHistoryTable(t *historyTable) {
	if t == nil {
		return
	}
	historyTablePool.Put(t)
}

// Encode compresses src into a complete LZFSE frame. opts may be nil to use
// the default thresholds. Empty input is valid and produces a zero-length
// raw block followed by the end-of-stream marker.
func Encode(src []byte, opts *EncoderOptions) ([]byte, error) {
	if uint64(len(src)) > 1<<31 {
		return nil, ErrBufferOverflow
	}
	dst := make([]byte, 0, len(src)/2+64)
	dst = encodeFrame(dst, src, opts)
	return dst, nil
}

// Decode decompresses a complete LZFSE frame. opts may be nil; when set,
// OutLen pre-sizes the output buffer (a hint, not a limit).
func Decode(src []byte, opts *DecoderOptions) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrEmptyInput
	}
	hint := 0
	if opts != nil {
		hint = opts.OutLen
	}
	out, _, err := decodeFrame(src, hint)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Encoder is the streaming counterpart of Encode.
type Encoder struct {
	opts *EncoderOptions
}

// NewEncoder returns an Encoder using opts (nil selects defaults).
func NewEncoder(opts *EncoderOptions) *Encoder {
	return &Encoder{opts: opts}
}

// Encode compresses all of r and writes the resulting frame to w, staging
// input through the bounded-memory ring frontend (frontend_ring.go) rather
// than buffering the whole stream.
func (e *Encoder) Encode(w io.Writer, r io.Reader) error {
	return encodeStream(w, r, e.opts)
}

// Decoder is the streaming counterpart of Decode.
type Decoder struct {
	opts *DecoderOptions
}

// NewDecoder returns a Decoder using opts (nil selects no output size hint
// and no input size limit).
func NewDecoder(opts *DecoderOptions) *Decoder {
	return &Decoder{opts: opts}
}

// Decode reads a complete LZFSE frame from r and writes the decompressed
// bytes to w, staging output through the bounded-memory ring frontend
// (frontend_ring.go). If opts.MaxInputSize is set, reading more than that
// many bytes from r fails with ErrInputTooLarge.
func (d *Decoder) Decode(w io.Writer, r io.Reader) error {
	return decodeStream(w, r, d.opts)
}
