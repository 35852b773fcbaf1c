// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// Per-block capacity limits: the backend cuts a new block whenever any of
// these fills. They bound every emitted block's payload below the
// streaming decoder's input window and bound how much output a single
// block may expand to, so both sides of the codec keep a fixed working
// set.
const (
	literalsPerBlock = 1 << 15
	matchesPerBlock  = 1 << 13
	rawPerBlock      = 1 << 20
)

// fseBackend accumulates literal runs and LMD packs and renders them as a
// sequence of bvx2 blocks. Match distances may reach across the block cuts
// it makes: the decoders keep their output history across blocks of a
// frame, so a block boundary is invisible to the LZ layer.
type fseBackend struct {
	emit     func([]byte) error
	literals []byte
	packs    []lmdPack
	blockRaw int
	scratch  []byte
}

// pushMatch appends one literal run followed by an optional match of m
// bytes at distance d (m may be zero for a literal-only push). Oversized
// runs and matches are chunked into pack-sized pieces.
func (b *fseBackend) pushMatch(lit []byte, m, d uint32) error {
	if len(lit) == 0 && m == 0 {
		return nil
	}
	for _, p := range split(lmd{L: uint32(len(lit)), M: m, D: d}) {
		b.literals = append(b.literals, lit[:p.L]...)
		lit = lit[p.L:]
		b.packs = append(b.packs, p)
		b.blockRaw += int(p.L + p.M)
		if len(b.literals) >= literalsPerBlock || len(b.packs) >= matchesPerBlock || b.blockRaw >= rawPerBlock {
			if err := b.flushBlock(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *fseBackend) pushLiterals(lit []byte) error {
	return b.pushMatch(lit, 0, 0)
}

// flushBlock renders and emits the accumulated block, if any.
func (b *fseBackend) flushBlock() error {
	if len(b.packs) == 0 && len(b.literals) == 0 {
		return nil
	}
	b.scratch = encodeFseBlock(b.scratch[:0], uint32(b.blockRaw), b.literals, b.packs, false)
	b.literals = b.literals[:0]
	b.packs = b.packs[:0]
	b.blockRaw = 0
	return b.emit(b.scratch)
}

// appendFseBlocks compresses src as a sequence of FSE blocks appended to
// dst, cutting blocks at the per-block capacity limits.
func appendFseBlocks(dst []byte, src []byte) []byte {
	be := &fseBackend{emit: func(blk []byte) error {
		dst = append(dst, blk...)
		return nil
	}}
	pos := 0
	for _, m := range findMatches(src, matchUnitFSE, fseMaxMatchDistance, hash4) {
		lit := src[pos : pos+int(m.L)]
		pos += int(m.L) + int(m.M)
		// The in-memory sink cannot fail.
		_ = be.pushMatch(lit, m.M, m.D)
	}
	_ = be.flushBlock()
	return dst
}
