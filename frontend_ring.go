// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import (
	"encoding/binary"
	"io"
	"sync"
)

// Ring-variant frontend: a sliding window over the input stream, staged
// through the shadowed input ring, with bounded memory on both sides.
// Visualized over flat input data:
//
//	<----------------------------- INPUT ----------------------------->
//	           |----------------- window -----------------|
//	           ^H       ^L            ^I                  ^T    ^U
//	                              |-- G --|
//
// H is the window head, T the fill tail, U the block-aligned fill mark.
// Data below L has been pushed into the backend; data below I has been
// pushed into the match history. G, the Goldilocks zone
// [H+size/2, H+size/2+blkSize), is where I is parked between rounds: far
// enough behind T for full-length forward matches and far enough ahead of
// H for maximum-distance backward references. Invariants:
//
//	H <= L <= I <= T <= U <= H + size, U % blkSize == 0
//
// Once the window first fills, the frontend commits to FSE output and each
// subsequent round matches one block's worth of input, slides H forward so
// I re-enters the zone, and clamps the history table on a fixed cadence.
// Matches routinely span fill-block boundaries; the backend's block cuts
// are invisible to the LZ layer.

// overmatchSlack is the fill margin the word-wise matchers need below the
// tail: a 4-byte probe plus the coarse matchers' overmatch allowance.
const overmatchSlack = 4 + overmatchLen

// Ring slabs are sized in the hundreds of kilobytes, so streaming calls
// reuse them across invocations the same way the bytes frontend pools its
// history table.
var (
	encodeInRingPool  = sync.Pool{New: func() any { return newRing(encodeInputRing) }}
	encodeOutRingPool = sync.Pool{New: func() any { return newRing(encodeOutputRing) }}
	decodeOutRingPool = sync.Pool{New: func() any { return newRing(decodeOutputRing) }}
)

type frontendRing struct {
	table      *historyTable
	ring       *ring
	pending    match
	head       idx
	literalIdx idx
	idx        idx
	tail       idx
	mark       idx
	clampAt    idx
	committed  bool
	litBuf     []byte
}

func (f *frontendRing) init() {
	f.table.resetWithIdx(0)
	f.ring.reset(0)
	f.pending = match{}
	f.head, f.literalIdx, f.idx, f.tail = 0, 0, 0, 0
	f.mark = idx(f.ring.cfg.blkSize)
	f.clampAt = idx(q1)
	f.committed = false
}

// longMatchLen is the forward-match cap for non-final rounds: long enough
// to span many fill blocks, short enough that a match starting anywhere
// below the zone's far edge cannot overshoot the tail.
func (f *frontendRing) longMatchLen() int {
	return f.ring.cfg.size/2 - f.ring.cfg.blkSize - overmatchSlack
}

// copyBlock fills the next block slot of the ring from r. It reports
// whether a whole block was read; a short read means the stream is done.
func (f *frontendRing) copyBlock(r io.Reader) (bool, error) {
	off := int(uint32(f.tail)) % f.ring.cfg.size
	buf := f.ring.buf[f.ring.ptr+off : f.ring.ptr+off+f.ring.cfg.blkSize]
	n, err := io.ReadFull(r, buf)
	f.tail = f.tail.add(int32(n))
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// matchBlock is one round of the steady-state loop: refresh the seam
// shadows, and either keep filling (window not yet full) or match one
// block's worth of input and slide the window forward.
func (f *frontendRing) matchBlock(be *fseBackend) error {
	f.manageRingZones()
	if f.mark != f.head.add(int32(f.ring.cfg.size)) {
		f.mark = f.mark.add(int32(f.ring.cfg.blkSize))
		return nil
	}
	f.committed = true
	if err := f.matchLong(be); err != nil {
		return err
	}
	f.repositionHead()
	if err := f.pushLiteralOverflow(be); err != nil {
		return err
	}
	f.clampTable()
	f.mark = f.tail.add(int32(f.ring.cfg.blkSize))
	return nil
}

// manageRingZones refreshes the seam shadows at the fill-lap boundaries:
// the head shadow once the first block of a lap is in place, the tail
// shadow when a lap completes.
func (f *frontendRing) manageRingZones() {
	switch int(uint32(f.mark)) % f.ring.cfg.size {
	case f.ring.cfg.blkSize:
		f.ring.headCopyOut()
	case 0:
		f.ring.tailCopyOut()
	}
}

// matchLong advances the match cursor to the Goldilocks target,
// head + size/2 + blkSize, emitting matches along the way.
func (f *frontendRing) matchLong(be *fseBackend) error {
	cur := f.idx
	f.idx = f.head.add(int32(f.ring.cfg.size/2 + f.ring.cfg.blkSize))
	maxLen := f.longMatchLen()
	for {
		u := f.ring.getU32(cur)
		queue := f.table.push(hash4, historyItem{val: u, idx: cur})
		incoming := f.findMatch(queue, cur, u, maxLen)
		if m, ok := selectMatch(&f.pending, incoming, goodMatchLen); ok {
			if err := f.pushMatch(be, m); err != nil {
				return err
			}
			cur = cur.add(1)
			for f.literalIdx.sub(cur) > 0 {
				f.table.push(hash4, historyItem{val: f.ring.getU32(cur), idx: cur})
				cur = cur.add(1)
			}
			if cur.sub(f.idx) >= 0 {
				f.idx = cur
				break
			}
		} else {
			cur = cur.add(1)
			if cur == f.idx {
				break
			}
		}
	}
	return nil
}

// matchShort finishes the final, partially filled round: the cursor runs
// to the last position a whole match unit fits, with forward matches
// capped at the true tail.
func (f *frontendRing) matchShort(be *fseBackend) error {
	if int(f.tail.sub(f.idx)) < 4 {
		return nil
	}
	cur := f.idx
	f.idx = f.tail.add(-int32(matchUnitFSE) + 1)
	for {
		u := f.ring.getU32(cur)
		queue := f.table.push(hash4, historyItem{val: u, idx: cur})
		incoming := f.findMatch(queue, cur, u, int(f.tail.sub(cur)))
		if m, ok := selectMatch(&f.pending, incoming, goodMatchLen); ok {
			if err := f.pushMatch(be, m); err != nil {
				return err
			}
			if f.literalIdx.sub(f.idx) >= 0 {
				f.idx = f.literalIdx
				break
			}
			cur = cur.add(1)
			for f.literalIdx.sub(cur) > 0 {
				f.table.push(hash4, historyItem{val: f.ring.getU32(cur), idx: cur})
				cur = cur.add(1)
			}
			if cur.sub(f.idx) >= 0 {
				f.idx = cur
				break
			}
		} else {
			cur = cur.add(1)
			if cur == f.idx {
				break
			}
		}
	}
	return nil
}

// findMatch scans the history queue for the longest forward match at cur
// (capped at max), then extends the best candidate backward into the
// pending literal run, bounded by the window head.
func (f *frontendRing) findMatch(queue historyBucket, cur idx, curVal uint32, max int) match {
	var m match
	for _, cand := range queue {
		dist := cur.sub(cand.idx)
		if dist <= 0 || uint32(dist) > fseMaxMatchDistance {
			break
		}
		if cand.val != curVal {
			continue
		}
		mlen := f.ring.matchIncCoarse(cand.idx, cur, max)
		if mlen > int(m.matchLen) {
			m = match{idx: cur, matchIdx: cand.idx, matchLen: uint32(mlen)}
		}
	}
	if m.matchLen == 0 {
		return m
	}
	back := int(cur.sub(f.literalIdx))
	if b := int(m.matchIdx.sub(f.head)); b < back {
		back = b
	}
	if back > 0 {
		n := f.ring.matchDecCoarse(cur, m.matchIdx, back)
		m.idx = m.idx.add(-int32(n))
		m.matchIdx = m.matchIdx.add(-int32(n))
		m.matchLen += uint32(n)
	}
	return m
}

func (f *frontendRing) pushMatch(be *fseBackend, m match) error {
	f.litBuf = f.ring.appendRange(f.litBuf[:0], f.literalIdx, m.idx)
	f.literalIdx = m.idx.add(int32(m.matchLen))
	return be.pushMatch(f.litBuf, m.matchLen, uint32(m.idx.sub(m.matchIdx)))
}

func (f *frontendRing) pushLiterals(be *fseBackend, n int) error {
	f.litBuf = f.ring.appendRange(f.litBuf[:0], f.literalIdx, f.literalIdx.add(int32(n)))
	f.literalIdx = f.literalIdx.add(int32(n))
	return be.pushLiterals(f.litBuf)
}

func (f *frontendRing) flushPending(be *fseBackend) error {
	if f.pending.matchLen == 0 {
		return nil
	}
	m := f.pending
	f.pending.matchLen = 0
	return f.pushMatch(be, m)
}

// repositionHead slides the window head forward by whole blocks so the
// match cursor lands back inside the Goldilocks zone.
func (f *frontendRing) repositionHead() {
	delta := int(f.idx.sub(f.head)) - f.ring.cfg.size/2
	delta = delta / f.ring.cfg.blkSize * f.ring.cfg.blkSize
	f.head = f.head.add(int32(delta))
}

// pushLiteralOverflow pushes any literals the head slid past before a
// match claimed them. A pending match below the head is discarded; the
// loss is at most a good-match's worth of compression in a rare case, in
// exchange for not tracking partial matches across the head.
func (f *frontendRing) pushLiteralOverflow(be *fseBackend) error {
	if f.literalIdx.sub(f.head) >= 0 {
		return nil
	}
	f.pending.matchLen = 0
	return f.pushLiterals(be, int(f.head.sub(f.literalIdx)))
}

// clampTable rebiases stale history entries on a fixed cadence so idx
// deltas stay clear of signed wraparound however long the stream runs.
func (f *frontendRing) clampTable() {
	if f.idx.sub(f.clampAt) >= 0 {
		f.table.clamp(f.idx)
		f.clampAt = f.clampAt.add(int32(q1))
	}
}

// flush drains everything after the input runs dry. Uncommitted (the
// window never filled), the whole stream is still resident and contiguous
// in the ring, so it takes the same RAW/VN/FSE selection as the bytes
// frontend; committed, the final partial round is matched and the backend
// emits its last block.
func (f *frontendRing) flush(be *fseBackend, stage *ringStage, opts *EncoderOptions) error {
	f.manageRingZones()
	if !f.committed {
		buf := encodeFrameBody(nil, f.ring.view(f.head, f.tail), opts)
		f.literalIdx = f.tail
		return stage.write(buf)
	}
	if err := f.matchShort(be); err != nil {
		return err
	}
	if err := f.flushPending(be); err != nil {
		return err
	}
	if n := int(f.tail.sub(f.literalIdx)); n > 0 {
		if err := f.pushLiterals(be, n); err != nil {
			return err
		}
	}
	return be.flushBlock()
}

// encodeStream compresses all of r into a single LZFSE frame written to w.
// Input slides through the encode input ring; compressed output is staged
// through the encode output ring. Memory use is fixed regardless of stream
// length.
func encodeStream(w io.Writer, r io.Reader, opts *EncoderOptions) error {
	table := historyTablePool.Get().(*historyTable)
	defer historyTablePool.Put(table)
	in := encodeInRingPool.Get().(*ring)
	defer encodeInRingPool.Put(in)
	out := encodeOutRingPool.Get().(*ring)
	defer encodeOutRingPool.Put(out)

	stage := newRingStage(w, out)
	be := &fseBackend{emit: stage.write}
	f := &frontendRing{table: table, ring: in}
	f.init()
	for {
		full, err := f.copyBlock(r)
		if err != nil {
			return err
		}
		if !full {
			break
		}
		if err := f.matchBlock(be); err != nil {
			return err
		}
	}
	if err := f.flush(be, stage, opts); err != nil {
		return err
	}
	return stage.write(encodeEOSMarker())
}

// encodeFrameBody renders src as RAW, VN, or a sequence of FSE blocks,
// without the trailing EOS marker.
func encodeFrameBody(dst []byte, src []byte, opts *EncoderOptions) []byte {
	switch {
	case len(src) <= opts.rawCutoff():
		return encodeRawBlock(dst, src)
	case len(src) <= opts.vnCutoff():
		return encodeVnOrRaw(dst, src)
	default:
		return appendFseBlocks(dst, src)
	}
}

func encodeEOSMarker() []byte {
	return appendMagic(nil, magicEOS)
}

// ringStage funnels output through a shadowed ring on its way to the
// writer, flushing seam-safe contiguous views.
type ringStage struct {
	w      io.Writer
	r      *ring
	cursor idx
}

func newRingStage(w io.Writer, r *ring) *ringStage {
	r.reset(0)
	return &ringStage{w: w, r: r}
}

func (s *ringStage) write(b []byte) error {
	for len(b) > 0 {
		n := s.r.cfg.size - s.r.off(s.cursor)
		if n > len(b) {
			n = len(b)
		}
		start := s.cursor
		s.cursor = ringWriteBytes(s.r, start, b[:n])
		if _, err := s.w.Write(s.r.view(start, s.cursor)); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// ringWriteBytes appends b to ring r starting at cursor, refreshing the
// shadow regions as the write cursor crosses the boundaries ring.go's
// headCopyOut/tailCopyOut document: the tail shadow when a lap completes
// (cursor%size == 0), the head shadow once the first block of the new lap
// is in place (cursor%size == blkSize).
func ringWriteBytes(r *ring, cursor idx, b []byte) idx {
	for _, c := range b {
		r.set(cursor, c)
		cursor = cursor.add(1)
		u := int(uint32(cursor)) % r.cfg.size
		if u == 0 {
			r.tailCopyOut()
		}
		if u == r.cfg.blkSize {
			r.headCopyOut()
		}
	}
	return cursor
}

// historyWindow is how much decoded output the streaming decoder retains
// for back-references: no conforming frame carries a match distance beyond
// the D alphabet's range.
const historyWindow = maxDValue

// trimHistory drops all but the last historyWindow bytes once twice that
// has accumulated, so trims amortize to O(1) per output byte.
func trimHistory(hist []byte) []byte {
	if len(hist) < 2*historyWindow {
		return hist
	}
	n := copy(hist, hist[len(hist)-historyWindow:])
	return hist[:n]
}

// inputWindow buffers compressed input in a fixed window whose size and
// refill granularity come from the decode input ring geometry.
type inputWindow struct {
	src   io.Reader
	cfg   ringConfig
	buf   []byte
	pos   int
	total int
	maxIn int
	eof   bool
}

func newInputWindow(src io.Reader, cfg ringConfig, maxIn int) *inputWindow {
	return &inputWindow{src: src, cfg: cfg, buf: make([]byte, 0, cfg.size), maxIn: maxIn}
}

func (iw *inputWindow) buffered() int { return len(iw.buf) - iw.pos }
func (iw *inputWindow) bytes() []byte { return iw.buf[iw.pos:] }
func (iw *inputWindow) consume(n int) { iw.pos += n }

// fill reads block-sized chunks until at least need bytes are buffered or
// the source runs dry; the caller checks buffered() for the short case.
// need must not exceed the window size.
func (iw *inputWindow) fill(need int) error {
	for iw.buffered() < need && !iw.eof {
		if len(iw.buf) == cap(iw.buf) {
			// Slide the unconsumed tail to the front to make room.
			n := copy(iw.buf, iw.buf[iw.pos:])
			iw.buf = iw.buf[:n]
			iw.pos = 0
		}
		n := iw.cfg.blkSize
		if room := cap(iw.buf) - len(iw.buf); n > room {
			n = room
		}
		start := len(iw.buf)
		got, err := io.ReadFull(iw.src, iw.buf[start:start+n])
		iw.buf = iw.buf[:start+got]
		iw.total += got
		if iw.maxIn > 0 && iw.total > iw.maxIn {
			return ErrInputTooLarge
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			iw.eof = true
		} else if err != nil {
			return err
		}
	}
	return nil
}

// decodeStream reads one LZFSE frame from r and writes the decompressed
// bytes to w. Compressed input is pulled incrementally through a window
// sized by the decode input ring; output is staged through the decode
// output ring; a historyWindow-sized tail of decoded output is retained to
// serve match back-references. Memory use is fixed regardless of stream
// length, at the cost of rejecting foreign blocks whose bodies exceed the
// input window (the slice-based Decode still handles those).
func decodeStream(w io.Writer, r io.Reader, opts *DecoderOptions) error {
	maxIn := 0
	if opts != nil {
		maxIn = opts.MaxInputSize
	}
	win := newInputWindow(r, decodeInputRing, maxIn)
	out := decodeOutRingPool.Get().(*ring)
	defer decodeOutRingPool.Put(out)
	stage := newRingStage(w, out)
	hist := make([]byte, 0, 2*historyWindow)

	for {
		if err := win.fill(4); err != nil {
			return err
		}
		if win.buffered() < 4 {
			if win.total == 0 {
				return ErrEmptyInput
			}
			return ErrBadBlock
		}
		switch magic := binary.LittleEndian.Uint32(win.bytes()); magic {
		case magicEOS:
			return nil
		case magicRaw:
			if err := win.fill(8); err != nil {
				return err
			}
			if win.buffered() < 8 {
				return ErrBadBlock
			}
			left := int(binary.LittleEndian.Uint32(win.bytes()[4:]))
			win.consume(8)
			for left > 0 {
				if win.buffered() == 0 {
					if err := win.fill(1); err != nil {
						return err
					}
					if win.buffered() == 0 {
						return ErrBadRawByteCount
					}
				}
				n := win.buffered()
				if n > left {
					n = left
				}
				chunk := win.bytes()[:n]
				if err := stage.write(chunk); err != nil {
					return err
				}
				hist = trimHistory(append(hist, chunk...))
				win.consume(n)
				left -= n
			}
		case magicVN:
			if err := win.fill(12); err != nil {
				return err
			}
			if win.buffered() < 12 {
				return ErrBadBlock
			}
			nRaw := int(binary.LittleEndian.Uint32(win.bytes()[4:]))
			nPayload := int(binary.LittleEndian.Uint32(win.bytes()[8:]))
			win.consume(12)
			if nPayload > win.cfg.size {
				return ErrBufferOverflow
			}
			if err := win.fill(nPayload); err != nil {
				return err
			}
			if win.buffered() < nPayload {
				return ErrPayloadUnderflow
			}
			base := len(hist)
			var err error
			hist, err = decodeVN(hist, win.bytes()[:nPayload], nRaw)
			if err != nil {
				return err
			}
			if err := stage.write(hist[base:]); err != nil {
				return err
			}
			hist = trimHistory(hist)
			win.consume(nPayload)
		case magicFSE, magicFSV:
			win.consume(4)
			if err := win.fill(win.cfg.size); err != nil {
				return err
			}
			base := len(hist)
			next, consumed, err := decodeFseBlock(hist, win.bytes(), magic == magicFSV)
			if err != nil {
				if win.buffered() == win.cfg.size &&
					(err == ErrBadBlock || err == ErrBadWeightPayload || err == ErrBadLiteralPayload) {
					// The block body may simply extend past the streaming
					// window; the slice-based Decode can still handle it.
					return ErrBufferOverflow
				}
				return err
			}
			hist = next
			if err := stage.write(hist[base:]); err != nil {
				return err
			}
			hist = trimHistory(hist)
			win.consume(consumed)
		default:
			return ErrBadBlock
		}
	}
}
