// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "encoding/binary"

// encodeFrame renders src as a complete LZFSE frame: one raw or VN block
// for short inputs, a sequence of capacity-bounded FSE blocks otherwise,
// followed by the EOS marker.
func encodeFrame(dst []byte, src []byte, opts *EncoderOptions) []byte {
	dst = encodeFrameBody(dst, src, opts)
	dst = appendMagic(dst, magicEOS)
	return dst
}

// encodeVnOrRaw builds a VN block and falls back to RAW if the VN payload
// isn't strictly shorter.
func encodeVnOrRaw(dst []byte, src []byte) []byte {
	lmds := findMatches(src, matchUnitVN, vnMaxMatchDistance, hash3)
	payload := encodeVN(lmds, literalSource(src, lmds))

	// The VN block header is 4 bytes longer than the raw header, so the
	// opcode payload must beat the raw body by more than that to be worth
	// keeping. Inputs at or above rawLimit never rework as raw.
	if len(src) < rawLimit && len(payload)+4 >= len(src) {
		return encodeRawBlock(dst, src)
	}

	dst = appendMagic(dst, magicVN)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(src)))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(payload)))
	dst = append(dst, payload...)
	return dst
}

// literalSource returns encodeVN's literalAt callback for an LMD sequence
// produced by findMatches over src.
func literalSource(src []byte, lmds []lmd) func(int) []byte {
	pos := 0
	return func(i int) []byte {
		l := int(lmds[i].L)
		lit := src[pos : pos+l]
		pos += l + int(lmds[i].M)
		return lit
	}
}

// decodeFrame decodes a complete LZFSE frame from src, returning the
// reconstructed bytes and the number of input bytes consumed (up to and
// including the EOS magic). sizeHint, when positive, pre-sizes the output
// buffer.
func decodeFrame(src []byte, sizeHint int) ([]byte, int, error) {
	var out []byte
	if sizeHint > 0 {
		out = make([]byte, 0, sizeHint)
	}
	pos := 0
	for {
		if pos+4 > len(src) {
			return nil, 0, ErrBadBlock
		}
		magic := binary.LittleEndian.Uint32(src[pos:])
		pos += 4
		switch magic {
		case magicEOS:
			return out, pos, nil
		case magicRaw:
			lit, n, err := decodeRawBlock(src[pos:])
			if err != nil {
				return nil, 0, err
			}
			out = append(out, lit...)
			pos += n
		case magicVN:
			if pos+8 > len(src) {
				return nil, 0, ErrBadBlock
			}
			nRaw := binary.LittleEndian.Uint32(src[pos:])
			nPayload := binary.LittleEndian.Uint32(src[pos+4:])
			pos += 8
			if uint64(pos)+uint64(nPayload) > uint64(len(src)) {
				return nil, 0, ErrPayloadUnderflow
			}
			var err error
			out, err = decodeVN(out, src[pos:pos+int(nPayload)], int(nRaw))
			if err != nil {
				return nil, 0, err
			}
			pos += int(nPayload)
		case magicFSE:
			var n int
			var err error
			out, n, err = decodeFseBlock(out, src[pos:], false)
			if err != nil {
				return nil, 0, err
			}
			pos += n
		case magicFSV:
			var n int
			var err error
			out, n, err = decodeFseBlock(out, src[pos:], true)
			if err != nil {
				return nil, 0, err
			}
			pos += n
		default:
			return nil, 0, ErrBadBlock
		}
	}
}

// initialAlloc bounds the up-front capacity granted to a header-declared
// count: buffers grow by appending, so a count the payload cannot actually
// back never costs more than maxInitialAlloc until real decoding proves it.
func initialAlloc(n int) int {
	const maxInitialAlloc = 1 << 20
	if n < 0 {
		return 0
	}
	if n > maxInitialAlloc {
		return maxInitialAlloc
	}
	return n
}
