// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

// historyItem is one hashed word/position pair tracked by the match finder.
type historyItem struct {
	val uint32
	idx idx
}

// historyBucket is a 4-entry FIFO: index 0 is the newest push, index
// hashWidth-1 the oldest. Pushing shifts everything down and discards the
// oldest entry.
type historyBucket [hashWidth]historyItem

func (b *historyBucket) push(item historyItem) historyBucket {
	prev := *b
	for i := hashWidth - 1; i != 0; i-- {
		b[i] = b[i-1]
	}
	b[0] = item
	return prev
}

// clampRebias rewrites any entry older than cur-q1 to cur-q1 (discarding
// staleness that could otherwise wrap a signed delta the wrong way), then
// subtracts delta from every live idx -- used by the bytes frontend's
// reposition when it slides its input window forward.
func (b *historyBucket) clampRebias(cur idx, delta int32) {
	for i := range b {
		if uint32(cur.sub(b[i].idx)) > q1 {
			b[i].idx = cur.add(-int32(q1)).add(-delta)
		} else {
			b[i].idx = b[i].idx.add(-delta)
		}
	}
}

// historyTable is the hashBits-bucket match-finder history: 2^14 buckets
// of hashWidth=4 entries each, keyed by hash(word)>>(32-hashBits).
type historyTable struct {
	buckets [1 << hashBits]historyBucket
}

func newHistoryTable() *historyTable {
	return &historyTable{}
}

// resetWithIdx seeds every bucket entry with val=0 at idx-q1, so early
// lookups never falsely "match" position 0 of a fresh frame.
func (t *historyTable) resetWithIdx(start idx) {
	seed := historyItem{val: 0, idx: start.add(-int32(q1))}
	for i := range t.buckets {
		for j := range t.buckets[i] {
			t.buckets[i][j] = seed
		}
	}
}

func hashIndex(hash func(uint32) uint32, val uint32) int {
	return int(hash(val) >> (32 - hashBits))
}

// push inserts item into its bucket (keyed by hash(item.val)) and returns
// the bucket's contents from before the insert, so callers can inspect
// match candidates.
func (t *historyTable) push(hash func(uint32) uint32, item historyItem) historyBucket {
	i := hashIndex(hash, item.val)
	return t.buckets[i].push(item)
}

// clamp rebiases every bucket entry older than cur-q1 up to cur-q1, with no
// position delta; called periodically (every clampInterval pushes) to keep
// all live idx deltas representable in a signed 32-bit value.
func (t *historyTable) clamp(cur idx) {
	for i := range t.buckets {
		t.buckets[i].clampRebias(cur, 0)
	}
}

// clampRebias is clamp plus a uniform position shift, used by the bytes
// frontend's reposition when src is rebased forward by delta.
func (t *historyTable) clampRebias(cur idx, delta int32) {
	for i := range t.buckets {
		t.buckets[i].clampRebias(cur, delta)
	}
}

// hash3 hashes the low 3 bytes of u (VN backend: minimum match unit 3).
func hash3(u uint32) uint32 {
	return hashWord(u & 0x00FF_FFFF)
}

// hash4 hashes all 4 bytes of u (FSE backend: minimum match unit 4).
func hash4(u uint32) uint32 {
	return hashWord(u)
}

// hashWord is a Fibonacci/multiplicative hash: a cheap multiplicative mix
// is all that's needed to spread 24/32-bit words across hashBits buckets.
func hashWord(u uint32) uint32 {
	return u * 2654435761
}
