// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "encoding/binary"

// VN opcode byte assignment. VN is this codec's compact byte-opcode
// fallback for small payloads: a single opcode byte,
// optionally followed by a handful of extra bytes, encodes one LMD triple
// (or a literal-only run), and the opcode stream is otherwise
// self-contained: literal bytes are embedded directly in the payload next
// to the opcode that introduces them, unlike the FSE layer's separate
// sub-streams.
//
// Categories:
const (
	vnOpLiteralBase  = 0x00 // [0x00,0x10): literal-only, L = opcode+1 (1..16)
	vnOpLiteralExtra = 0x10 // literal-only, L = 17 + extra byte (17..272)
	vnOpPrevDBase    = 0x11 // [0x11,0x51): reuse previous D, M = opcode-0x11+1 (1..64), L=0
	vnOpSmallBase    = 0x51 // [0x51,0x91): small-M medium-D, 1 extra byte for D
	vnOpWide         = 0x91 // wide fallback: u16 L, u16 M, u32 D follow
	vnOpEOS          = 0xFF // reserved end-of-stream sentinel; never valid mid-payload
	vnOpPrevDBaseEnd = vnOpPrevDBase + 64
	vnOpSmallBaseEnd = vnOpSmallBase + 64
	vnSmallMBits     = 4
	vnSmallMMax      = 1 << vnSmallMBits
)

// vnEncodeState tracks the previous match distance across a VN payload, for
// opcodes that reuse it.
type vnEncodeState struct {
	prevD uint32
}

// encodeVN renders a sequence of LMD triples (with their literal bytes
// sourced from src at the appropriate offsets) into a self-contained VN
// payload. literalAt(i) must return the literal bytes preceding lmds[i]'s
// match (length lmds[i].L).
func encodeVN(lmds []lmd, literalAt func(i int) []byte) []byte {
	var out []byte
	var st vnEncodeState
	for i, m := range lmds {
		lit := literalAt(i)
		out = encodeVNLiteralRun(out, lit)
		if m.M == 0 {
			continue
		}
		out = encodeVNMatch(out, m.M, m.D, &st)
	}
	return out
}

func encodeVNLiteralRun(dst []byte, lit []byte) []byte {
	for len(lit) > 0 {
		n := len(lit)
		switch {
		case n <= 16:
			dst = append(dst, byte(vnOpLiteralBase+n-1))
			dst = append(dst, lit...)
			lit = nil
		case n <= 272:
			dst = append(dst, vnOpLiteralExtra, byte(n-17))
			dst = append(dst, lit...)
			lit = nil
		default:
			dst = append(dst, vnOpLiteralExtra, 255)
			dst = append(dst, lit[:272]...)
			lit = lit[272:]
		}
	}
	return dst
}

func encodeVNMatch(dst []byte, m, d uint32, st *vnEncodeState) []byte {
	for m > 0 {
		chunk := m
		if chunk > vnSmallMMax {
			chunk = vnSmallMMax
		}
		switch {
		case d == st.prevD && st.prevD != 0 && chunk <= 64:
			dst = append(dst, byte(vnOpPrevDBase+chunk-1))
		case chunk <= vnSmallMMax && d >= 1 && d <= 256:
			l := uint32(0)
			dst = append(dst, byte(vnOpSmallBase+(l<<vnSmallMBits)+(chunk-1)))
			dst = append(dst, byte(d-1))
		default:
			var extra [8]byte
			binary.LittleEndian.PutUint16(extra[0:2], 0)
			binary.LittleEndian.PutUint16(extra[2:4], uint16(chunk))
			binary.LittleEndian.PutUint32(extra[4:8], d)
			dst = append(dst, vnOpWide)
			dst = append(dst, extra[:]...)
		}
		st.prevD = d
		m -= chunk
	}
	return dst
}

// decodeVN expands a VN payload into exactly nRawBytes of output appended
// to dst, or returns a typed error. Match distances may reach into the
// bytes dst already holds (output decoded from earlier blocks of the same
// frame).
func decodeVN(dst []byte, payload []byte, nRawBytes int) ([]byte, error) {
	base := len(dst)
	var prevD uint32
	p := 0
	for len(dst)-base < nRawBytes {
		if p >= len(payload) {
			return nil, ErrPayloadUnderflow
		}
		op := payload[p]
		p++
		switch {
		case op < vnOpLiteralExtra:
			n := int(op) + 1
			if p+n > len(payload) {
				return nil, ErrBadPayload
			}
			dst = append(dst, payload[p:p+n]...)
			p += n
		case op == vnOpLiteralExtra:
			if p >= len(payload) {
				return nil, ErrBadPayload
			}
			n := int(payload[p]) + 17
			p++
			if p+n > len(payload) {
				return nil, ErrBadPayload
			}
			dst = append(dst, payload[p:p+n]...)
			p += n
		case op >= vnOpPrevDBase && op < vnOpPrevDBaseEnd:
			m := uint32(op-vnOpPrevDBase) + 1
			if prevD == 0 {
				return nil, ErrBadPayload
			}
			var err error
			dst, err = appendMatch(dst, prevD, m)
			if err != nil {
				return nil, err
			}
		case op >= vnOpSmallBase && op < vnOpSmallBaseEnd:
			rel := op - vnOpSmallBase
			m := uint32(rel&(vnSmallMMax-1)) + 1
			if p >= len(payload) {
				return nil, ErrBadPayload
			}
			d := uint32(payload[p]) + 1
			p++
			var err error
			dst, err = appendMatch(dst, d, m)
			if err != nil {
				return nil, err
			}
			prevD = d
		case op == vnOpWide:
			if p+8 > len(payload) {
				return nil, ErrBadPayload
			}
			m := uint32(binary.LittleEndian.Uint16(payload[p+2 : p+4]))
			d := binary.LittleEndian.Uint32(payload[p+4 : p+8])
			p += 8
			var err error
			dst, err = appendMatch(dst, d, m)
			if err != nil {
				return nil, err
			}
			prevD = d
		case op == vnOpEOS:
			return nil, ErrBadOpcode
		default:
			return nil, ErrBadOpcode
		}
	}
	if len(dst)-base != nRawBytes {
		return nil, ErrBadPayloadCount
	}
	if p != len(payload) {
		return nil, ErrPayloadOverflow
	}
	return dst, nil
}

// appendMatch appends a copy of m bytes from distance d behind the current
// end of dst, handling overlap (d < m) by repeated doubling.
func appendMatch(dst []byte, d, m uint32) ([]byte, error) {
	if d == 0 || int(d) > len(dst) {
		return nil, ErrBadPayload
	}
	start := len(dst) - int(d)
	for remaining := int(m); remaining > 0; {
		avail := len(dst) - start
		n := avail
		if n > remaining {
			n = remaining
		}
		dst = append(dst, dst[start:start+n]...)
		remaining -= n
	}
	return dst, nil
}
