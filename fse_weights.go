// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

package lzfse

import "sort"

// normalizeWeights scales raw frequency counts into weights summing to
// exactly nStates, using the largest-remainder method: every symbol with a
// nonzero count is guaranteed weight >= 1, and any rounding shortfall or
// overshoot is corrected by adjusting the entries with the largest (or
// least) fractional remainder.
func normalizeWeights(counts []uint32, nStates int) []uint16 {
	n := len(counts)
	weights := make([]uint16, n)
	var total uint64
	for _, c := range counts {
		total += uint64(c)
	}
	if total == 0 {
		return weights
	}

	type rem struct {
		idx  int
		frac uint64 // scaled fractional remainder numerator, denominator = total
	}
	var rems []rem
	sum := 0
	for i, c := range counts {
		if c == 0 {
			continue
		}
		scaled := uint64(c) * uint64(nStates)
		w := scaled / total
		frac := scaled % total
		if w == 0 {
			w = 1
		}
		weights[i] = uint16(w)
		sum += int(w)
		rems = append(rems, rem{idx: i, frac: frac})
	}

	diff := nStates - sum
	if diff > 0 {
		sort.Slice(rems, func(a, b int) bool {
			if rems[a].frac != rems[b].frac {
				return rems[a].frac > rems[b].frac
			}
			return rems[a].idx < rems[b].idx
		})
		for k := 0; k < diff; k++ {
			weights[rems[k%len(rems)].idx]++
		}
	} else if diff < 0 {
		// Shrink from the least-fractional-remainder entries first so the
		// best-supported symbols are trimmed last; never below 1.
		sort.Slice(rems, func(a, b int) bool {
			if rems[a].frac != rems[b].frac {
				return rems[a].frac < rems[b].frac
			}
			return rems[a].idx < rems[b].idx
		})
		need := -diff
		for need > 0 {
			progressed := false
			for _, r := range rems {
				if need == 0 {
					break
				}
				if weights[r.idx] > 1 {
					weights[r.idx]--
					need--
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}
	}
	return weights
}

// Nibble prefix code for bvx2 weight packing: a 1-bit tag selects the
// short form (values 0-7, 3 more bits); a 2-bit tag "10" selects the mid
// form (values 8-14, 3 more bits); tag "11" escapes to a 14-bit extra
// field biased by 15.
const (
	nibbleShortMax = 7
	nibbleMidMax   = 14
	nibbleEscape   = 15
)

// encodeWeightNibbles packs a slice of weights into the bvx2 nibble-prefix
// bitstream. The weight payload is its own small forward byte stream,
// distinct from the reversed literal/LMD bit streams.
func encodeWeightNibbles(weights []uint16) []byte {
	w := &forwardBitWriter{}
	for _, v := range weights {
		pushNibbleCode(w, uint32(v))
	}
	return w.finalize()
}

func pushNibbleCode(w *forwardBitWriter, v uint32) {
	switch {
	case v <= nibbleShortMax:
		w.push(0, 1)
		w.push(uint64(v), 3)
	case v <= nibbleMidMax:
		w.push(0b10, 2)
		w.push(uint64(v-8), 3)
	default:
		w.push(0b11, 2)
		w.push(uint64(v-nibbleEscape), 14)
	}
}

// decodeWeightNibbles unpacks n weight values from a forward bit stream
// built from payload. Returns ErrBadWeightPayload on a truncated stream.
func decodeWeightNibbles(payload []byte, n int) ([]uint16, error) {
	out, _, err := decodeWeightNibblesCounted(payload, n)
	return out, err
}

// decodeWeightNibblesCounted is decodeWeightNibbles but also reports how
// many whole bytes of payload were consumed, since bvx2 doesn't separately
// declare the weight sub-payload's length (see fse_block.go).
func decodeWeightNibblesCounted(payload []byte, n int) ([]uint16, int, error) {
	r := newForwardBitReader(payload)
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		tag0, err := r.pull(1)
		if err != nil {
			return nil, 0, ErrBadWeightPayload
		}
		if tag0 == 0 {
			v, err := r.pull(3)
			if err != nil {
				return nil, 0, ErrBadWeightPayload
			}
			out[i] = uint16(v)
			continue
		}
		tag1, err := r.pull(1)
		if err != nil {
			return nil, 0, ErrBadWeightPayload
		}
		if tag1 == 0 {
			v, err := r.pull(3)
			if err != nil {
				return nil, 0, ErrBadWeightPayload
			}
			out[i] = uint16(v + 8)
			continue
		}
		v, err := r.pull(14)
		if err != nil {
			return nil, 0, ErrBadWeightPayload
		}
		out[i] = uint16(v + nibbleEscape)
	}
	return out, r.pos, nil
}

// forwardBitReader reads bits MSB-first from a forward (non-reversed) byte
// stream; used only for the small weight sub-payload, which -- unlike the
// literal/LMD streams -- is not read back-to-front.
type forwardBitReader struct {
	src       []byte
	pos       int
	accumData uint64
	accumBits int
}

func newForwardBitReader(src []byte) *forwardBitReader {
	return &forwardBitReader{src: src}
}

func (r *forwardBitReader) pull(n int) (uint64, error) {
	for r.accumBits < n {
		if r.pos >= len(r.src) {
			return 0, ErrPayloadUnderflow
		}
		r.accumData = (r.accumData << 8) | uint64(r.src[r.pos])
		r.pos++
		r.accumBits += 8
	}
	r.accumBits -= n
	v := (r.accumData >> uint(r.accumBits)) & ((1 << uint(n)) - 1)
	return v, nil
}

// forwardBitWriter is forwardBitReader's dual: MSB-first into a forward
// byte stream, used for bvx1's fixed 10-bit-per-weight packing and bvx2's
// nibble prefix code.
type forwardBitWriter struct {
	dst       []byte
	accumData uint64
	accumBits int
}

func (w *forwardBitWriter) push(v uint64, n int) {
	w.accumData = (w.accumData << uint(n)) | (v & ((1 << uint(n)) - 1))
	w.accumBits += n
	for w.accumBits >= 8 {
		shift := uint(w.accumBits - 8)
		w.dst = append(w.dst, byte(w.accumData>>shift))
		w.accumBits -= 8
		w.accumData &= (1 << shift) - 1
	}
}

// finalize pads the final partial byte with zero low bits and returns it.
func (w *forwardBitWriter) finalize() []byte {
	if w.accumBits > 0 {
		w.dst = append(w.dst, byte(w.accumData<<uint(8-w.accumBits)))
		w.accumBits = 0
	}
	return w.dst
}

// encodeWeightsFixed10 packs weights as fixed 10-bit values (bvx1's
// weight encoding): simple, no run-length, always exactly
// ceil(10*len(weights)/8) bytes.
func encodeWeightsFixed10(weights []uint16) []byte {
	w := &forwardBitWriter{}
	for _, v := range weights {
		w.push(uint64(v), 10)
	}
	return w.finalize()
}

// decodeWeightsFixed10 is encodeWeightsFixed10's inverse.
func decodeWeightsFixed10(payload []byte, n int) ([]uint16, error) {
	r := newForwardBitReader(payload)
	out := make([]uint16, n)
	for i := range out {
		v, err := r.pull(10)
		if err != nil {
			return nil, ErrBadWeightPayload
		}
		out[i] = uint16(v)
	}
	return out, nil
}
