// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "encoding/binary"

// encodeRawBlock appends a "bvx-" block containing literal verbatim.
func encodeRawBlock(dst []byte, literal []byte) []byte {
	dst = appendMagic(dst, magicRaw)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(literal)))
	dst = append(dst, literal...)
	return dst
}

// decodeRawBlock reads a raw block's body (the magic has already been
// consumed by the caller) and returns the literal bytes plus the number of
// input bytes consumed for the header+body.
func decodeRawBlock(src []byte) (literal []byte, consumed int, err error) {
	if len(src) < 4 {
		return nil, 0, ErrBadBlock
	}
	n := binary.LittleEndian.Uint32(src)
	if uint64(n) > uint64(len(src)-4) {
		return nil, 0, ErrBadRawByteCount
	}
	return src[4 : 4+n], 4 + int(n), nil
}

func appendMagic(dst []byte, magic uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, magic)
}
