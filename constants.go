// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// Block magics, little-endian u32 as they appear on the wire ("bvx-" etc).
const (
	magicRaw = 0x2D78_7662 // "bvx-"
	magicVN  = 0x6E78_7662 // "bvxn"
	magicFSE = 0x3278_7662 // "bvx2"
	magicFSV = 0x3178_7662 // "bvx1"
	magicEOS = 0x2478_7662 // "bvx$"
)

// LMD bounds. These are baked into the v-tables and must match exactly.
const (
	maxLValue = 315
	maxMValue = 2359
	maxDValue = 262139
)

// FSE alphabet sizes and state counts.
const (
	lSymbols = 20
	mSymbols = 20
	dSymbols = 64
	uSymbols = 256

	lStates = 64
	mStates = 64
	dStates = 256
	uStates = 1024
)

// Match finder frontend thresholds.
const (
	goodMatchLen = 0x28
	rawCutoff    = 0x14
	vnCutoff     = 0x1000
	rawLimit     = 0x4000

	matchUnitVN  = 3
	matchUnitFSE = 4

	hashBits  = 14
	hashWidth = 4
)

// Ring buffer geometry, one configuration per ring role.
type ringConfig struct {
	size    int // RING_SIZE
	limit   int // RING_LIMIT
	blkSize int // RING_BLK_SIZE
}

var (
	decodeInputRing  = ringConfig{size: 0x2_0000, limit: 0x2D4, blkSize: 0x2000}
	decodeOutputRing = ringConfig{size: 0x8_0000, limit: 0x940, blkSize: 0x1_0000}
	encodeInputRing  = ringConfig{size: 0x8_0000, limit: 0x140, blkSize: 0x4000}
	encodeOutputRing = ringConfig{size: 0x2_0000, limit: 0x400, blkSize: 0x2000}
)

// clampInterval: history entries are rebiased every clampInterval pushes to
// keep all live idx deltas representable in a signed 32-bit value.
const clampInterval = 0x4000_0000

// overmatchLen bounds how far a word-wise match routine may read past the
// logical end of a region; callers must ensure this much slack exists.
const overmatchLen = 5 * 8 // 5*sizeof(uint64)
