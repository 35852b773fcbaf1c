// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// DecoderOptions configures decompression.
// OutLen, when nonzero, pre-sizes the output buffer (a hint, not a limit);
// MaxInputSize limits reads when streaming from an io.Reader.
type DecoderOptions struct {
	// OutLen hints the expected decompressed size, used only to pre-size the
	// output buffer for Decode. Zero means "unknown".
	OutLen int
	// MaxInputSize limits how many bytes a streaming Decoder may read
	// (0 = no limit).
	MaxInputSize int
}

// DefaultDecoderOptions returns options hinting the given output length with
// no input limit.
func DefaultDecoderOptions(outLen int) *DecoderOptions {
	return &DecoderOptions{OutLen: outLen}
}

// EncoderOptions configures compression.
type EncoderOptions struct {
	// RawCutoff is the length at or below which input is always emitted as a
	// raw block. Zero selects the default (0x14).
	RawCutoff int
	// VnCutoff is the length at or below which input prefers the VN
	// backend over FSE. Zero selects the default (0x1000).
	VnCutoff int
}

// DefaultEncoderOptions returns options using the default thresholds
// (RawCutoff=0x14, VnCutoff=0x1000).
func DefaultEncoderOptions() *EncoderOptions {
	return &EncoderOptions{RawCutoff: rawCutoff, VnCutoff: vnCutoff}
}

func (o *EncoderOptions) rawCutoff() int {
	if o == nil || o.RawCutoff <= 0 {
		return rawCutoff
	}
	return o.RawCutoff
}

func (o *EncoderOptions) vnCutoff() int {
	if o == nil || o.VnCutoff <= 0 {
		return vnCutoff
	}
	return o.VnCutoff
}
