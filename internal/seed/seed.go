// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seed generates fixed-stride seeds from a translated query frame
// for submission to the index searcher (spec §4.D "Seed generator").
package seed

import "github.com/kortschak/gophast/internal/alphabet"

// Seed is one fixed-length window of a query frame, positioned at Offset
// residues into that frame.
type Seed struct {
	Offset int
	Codes  []alphabet.Code
}

// Generate slices codes into every length-sized window starting at a
// multiple of stride, discarding a final short window (spec §4.D edge
// case: "a frame shorter than the seed length yields no seeds"). Codes
// are reduced under scheme first, per spec §3's "reduction affects only
// seeding, never scoring".
func Generate(codes []alphabet.Code, length, stride int, scheme alphabet.Alphabet) []Seed {
	if length <= 0 || stride <= 0 || len(codes) < length {
		return nil
	}
	var seeds []Seed
	for off := 0; off+length <= len(codes); off += stride {
		w := make([]alphabet.Code, length)
		for i := 0; i < length; i++ {
			w[i] = alphabet.Reduce(codes[off+i], scheme)
		}
		seeds = append(seeds, Seed{Offset: off, Codes: w})
	}
	return seeds
}
