// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lzfse

/*
Package lzfse implements Apple's LZFSE compression format: a hybrid of an
LZ77-style match finder and a Finite State Entropy (FSE / tANS) range coder,
with raw and VN (variable-nibble) fallback modes for small and incompressible
inputs.

# Decode

Options may be nil; OutLen, when known, pre-sizes the output buffer. From a
byte slice:

	out, err := lzfse.Decode(compressed, lzfse.DefaultDecoderOptions(expectedLen))

From an io.Reader, streaming into an io.Writer:

	dec := lzfse.NewDecoder(lzfse.DefaultDecoderOptions(0))
	err := dec.Decode(w, r)

# Encode

Options may be nil (default RAW/VN cutoffs). Encode compresses a byte slice
held in memory; an Encoder streams through the bounded-memory ring frontend:

	out, err := lzfse.Encode(data, nil)

	enc := lzfse.NewEncoder(nil)
	err := enc.Encode(w, r)
*/
package lzfse
