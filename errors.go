// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "errors"

// Sentinel errors for decompression and compression.
var (
	// ErrEmptyInput is returned when a decoder is handed an empty slice or
	// stream: even a frame of empty content carries at least the EOS marker.
	ErrEmptyInput = errors.New("empty input")
	// ErrBufferOverflow is returned when an input exceeds the 2^31 byte limit
	// of the bytes-variant frontend, or when a streaming Decoder meets a
	// block too large for its fixed input window.
	ErrBufferOverflow = errors.New("input exceeds maximum buffer size")

	// ErrBadBitStream is returned when a bit reader's initial offset bits are
	// inconsistent, or a bit-stream read would violate ACCUM_MAX.
	ErrBadBitStream = errors.New("malformed bit stream")
	// ErrPayloadUnderflow is returned when a bit-stream consumer pulls more
	// bits than the payload holds, or a payload ends before its declared
	// length.
	ErrPayloadUnderflow = errors.New("bit stream payload underflow")
	// ErrPayloadOverflow is returned when a bit-stream consumer finishes
	// with payload bits left unconsumed.
	ErrPayloadOverflow = errors.New("bit stream payload overflow")

	// ErrBadBlock is returned for an unrecognized block magic or a truncated
	// block header.
	ErrBadBlock = errors.New("malformed block header")
	// ErrBadRawByteCount is returned when a raw block's declared length
	// doesn't match the bytes actually available.
	ErrBadRawByteCount = errors.New("raw block byte count mismatch")

	// ErrBadLiteralBits is returned when an FSE header's literal_bits field
	// is out of [-7,0].
	ErrBadLiteralBits = errors.New("invalid literal bit offset")
	// ErrBadLiteralCount is returned when n_literals is not a multiple of 4,
	// or exceeds the block's n_raw_bytes by more than the padding allows.
	ErrBadLiteralCount = errors.New("invalid literal count")
	// ErrBadLiteralPayload is returned when the literal sub-stream's declared
	// payload size is inconsistent with the block body.
	ErrBadLiteralPayload = errors.New("invalid literal payload")
	// ErrBadLiteralState is returned when the literal decoders fail to reach
	// the zero termination state.
	ErrBadLiteralState = errors.New("literal decoder did not terminate at zero state")

	// ErrBadLmdBits is returned when an FSE header's lmd_bits field is out of
	// [-7,0].
	ErrBadLmdBits = errors.New("invalid lmd bit offset")
	// ErrBadLmdCount is returned when n_matches exceeds what the block's
	// n_raw_bytes can account for.
	ErrBadLmdCount = errors.New("invalid lmd count")
	// ErrBadLmdPayload is returned when the LMD sub-stream's declared payload
	// size is inconsistent with the block body.
	ErrBadLmdPayload = errors.New("invalid lmd payload")
	// ErrBadLmdState is returned when the L/M/D decoders fail to reach the
	// zero termination state.
	ErrBadLmdState = errors.New("lmd decoder did not terminate at zero state")

	// ErrBadWeightPayload is returned when a bvx2 nibble-coded weight stream
	// is malformed.
	ErrBadWeightPayload = errors.New("invalid weight payload")
	// ErrBadWeightPayloadCount is returned when the decoded weight count
	// doesn't match the declared alphabet size.
	ErrBadWeightPayloadCount = errors.New("invalid weight payload count")
	// ErrWeightPayloadOverflow is returned when decoded weights sum to more
	// than the table's state count.
	ErrWeightPayloadOverflow = errors.New("weight payload overflow")
	// ErrWeightPayloadUnderflow is returned when decoded weights sum to less
	// than the table's state count.
	ErrWeightPayloadUnderflow = errors.New("weight payload underflow")

	// ErrBadPayload is returned for a malformed VN opcode payload.
	ErrBadPayload = errors.New("invalid vn payload")
	// ErrBadOpcode is returned for a VN opcode that is disallowed mid-payload
	// (an end-of-stream sentinel) or otherwise unrecognized.
	ErrBadOpcode = errors.New("invalid vn opcode")
	// ErrBadPayloadCount is returned when a VN payload's declared byte count
	// doesn't match its actual length.
	ErrBadPayloadCount = errors.New("invalid vn payload count")

	// ErrInputTooLarge is returned when a streaming Decoder reads more than
	// MaxInputSize bytes.
	ErrInputTooLarge = errors.New("input exceeds MaxInputSize")
	// ErrUnexpectedEOF is returned when a stream ends before EOS is reached.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)
